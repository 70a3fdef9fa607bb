// gazctl
// Copyright (c) 2026 The Zaparoo Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of gazctl.
//
// gazctl is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// gazctl is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with gazctl.  If not, see <http://www.gnu.org/licenses/>.

package helpers

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/adrg/xdg"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureDirectories(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		setupDirs bool
	}{
		{name: "creates directories", setupDirs: false},
		{name: "works when directories already exist", setupDirs: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dataDir := filepath.Join(t.TempDir(), "data", "nested")
			if tt.setupDirs {
				require.NoError(t, os.MkdirAll(LogDir(dataDir), 0o750))
			}

			require.NoError(t, EnsureDirectories(dataDir))

			info, err := os.Stat(LogDir(dataDir))
			require.NoError(t, err)
			assert.True(t, info.IsDir())
			if runtime.GOOS != "windows" && !tt.setupDirs {
				assert.Equal(t, os.FileMode(0o750), info.Mode().Perm())
			}
		})
	}
}

func TestPaths(t *testing.T) {
	t.Parallel()

	assert.Equal(t, filepath.Join(xdg.DataHome, "gazctl"), DataDir())
	assert.Equal(t, filepath.Join("/data", "logs", "gazctl.log"), LogFilePath("/data"))
}

//nolint:paralleltest // replaces the global logger
func TestInitLogging(t *testing.T) {
	prevLogger := log.Logger
	prevLevel := zerolog.GlobalLevel()
	t.Cleanup(func() {
		log.Logger = prevLogger
		zerolog.SetGlobalLevel(prevLevel)
	})

	dataDir := t.TempDir()
	var extra bytes.Buffer
	require.NoError(t, InitLogging(dataDir, true, []io.Writer{&extra}))

	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())
	log.Debug().Str("port", "/dev/ttyUSB0").Msg("opened")

	assert.True(t, strings.Contains(extra.String(), `"port":"/dev/ttyUSB0"`))
	data, err := os.ReadFile(LogFilePath(dataDir))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"opened"`)

	require.NoError(t, InitLogging(dataDir, false, nil))
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}

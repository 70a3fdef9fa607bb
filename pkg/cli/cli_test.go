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

package cli

import (
	"bytes"
	"errors"
	"flag"
	"io"
	"testing"

	"github.com/ZaparooProject/gazctl/pkg/config"
	"github.com/ZaparooProject/gazctl/pkg/glyphs"
	"github.com/ZaparooProject/gazctl/pkg/serialport"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseFlags(t *testing.T, args ...string) *Flags {
	t.Helper()
	fs := flag.NewFlagSet("gazctl", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	f := SetupFlags(fs)
	require.NoError(t, f.Parse(args))
	return f
}

func newTestConfig(t *testing.T) *config.Instance {
	t.Helper()
	defaults := config.BaseDefaults
	defaults.Serial.InterFrameDelayMs = 1
	cfg, err := config.NewConfig(afero.NewMemMapFs(), "/config/gazctl/config.toml", defaults)
	require.NoError(t, err)
	return cfg
}

func TestFlags_Command(t *testing.T) {
	t.Parallel()

	tests := []struct {
		wantErr error
		name    string
		args    []string
		want    Command
	}{
		{name: "no flags starts tui", want: CommandTUI},
		{name: "only overrides", args: []string{"-port", "/dev/ttyUSB0", "-debug"}, want: CommandTUI},
		{name: "letters", args: []string{"-letters", "AB"}, want: CommandLetters},
		{name: "empty letters still selects", args: []string{"-letters", ""}, want: CommandLetters},
		{name: "number", args: []string{"-number", "7"}, want: CommandNumber},
		{name: "time", args: []string{"-time", "6.23"}, want: CommandTime},
		{name: "raw", args: []string{"-raw", "X"}, want: CommandRaw},
		{name: "sniff", args: []string{"-sniff"}, want: CommandSniff},
		{name: "replay", args: []string{"-replay", "cap.csv"}, want: CommandReplay},
		{
			name:    "two commands",
			args:    []string{"-letters", "A", "-number", "1"},
			want:    CommandTUI,
			wantErr: ErrConflictingCommands,
		},
		{
			name:    "send and sniff",
			args:    []string{"-time", "1", "-sniff"},
			want:    CommandTUI,
			wantErr: ErrConflictingCommands,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := parseFlags(t, tt.args...)
			got, err := f.Command()
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFlags_ParseError(t *testing.T) {
	t.Parallel()

	fs := flag.NewFlagSet("gazctl", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	f := SetupFlags(fs)
	require.Error(t, f.Parse([]string{"-nope"}))
}

func TestFlags_PreVersion(t *testing.T) {
	t.Parallel()

	f := parseFlags(t, "-version")
	var out bytes.Buffer
	exit, err := f.Pre(&out, "1.2.3", nil)

	require.NoError(t, err)
	assert.True(t, exit)
	assert.Equal(t, "gazctl v1.2.3\n", out.String())
}

func TestFlags_PreListPorts(t *testing.T) {
	t.Parallel()

	f := parseFlags(t, "-list-ports")
	var out bytes.Buffer
	exit, err := f.Pre(&out, "dev", func() ([]serialport.Info, error) {
		return []serialport.Info{
			{Name: "/dev/ttyS0"},
			{Name: "/dev/ttyUSB0", Description: "FT232R USB UART [0403:6001]", IsUSB: true},
		}, nil
	})

	require.NoError(t, err)
	assert.True(t, exit)
	assert.Equal(t, "/dev/ttyS0\n/dev/ttyUSB0 FT232R USB UART [0403:6001]\n", out.String())
}

func TestFlags_PreListPortsEmptyAndError(t *testing.T) {
	t.Parallel()

	f := parseFlags(t, "-list-ports")

	var out bytes.Buffer
	exit, err := f.Pre(&out, "dev", func() ([]serialport.Info, error) { return nil, nil })
	require.NoError(t, err)
	assert.True(t, exit)
	assert.Contains(t, out.String(), "No serial ports found")

	boom := errors.New("enumeration failed")
	_, err = f.Pre(io.Discard, "dev", func() ([]serialport.Info, error) { return nil, boom })
	require.ErrorIs(t, err, boom)
}

func TestFlags_PreNothingToDo(t *testing.T) {
	t.Parallel()

	f := parseFlags(t, "-letters", "A")
	exit, err := f.Pre(io.Discard, "dev", nil)
	require.NoError(t, err)
	assert.False(t, exit)
}

func TestFlags_Apply(t *testing.T) {
	t.Parallel()

	cfg := newTestConfig(t)
	f := parseFlags(t,
		"-port", "/dev/ttyUSB3",
		"-hex=false",
		"-log-file", "/tmp/sniff.log",
		"-csv", "/tmp/sniff.csv",
	)
	f.Apply(cfg)

	assert.Equal(t, "/dev/ttyUSB3", cfg.SerialPort())
	assert.Equal(t, "/dev/ttyUSB3", cfg.SnifferPort())
	s := cfg.SnifferSettings()
	assert.False(t, s.Hex)
	assert.True(t, s.ASCII)
	assert.Equal(t, "/tmp/sniff.log", s.LogFile)
	assert.Equal(t, "/tmp/sniff.csv", s.CSVFile)
}

func TestFlags_ApplyPortOverridesSnifferPortWhenSniffing(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		args        []string
		wantSniffer string
	}{
		{
			name:        "sniff",
			args:        []string{"-sniff", "-port", "/dev/ttyUSB3"},
			wantSniffer: "/dev/ttyUSB3",
		},
		{
			name:        "send keeps sniffer port",
			args:        []string{"-letters", "A", "-port", "/dev/ttyUSB3"},
			wantSniffer: "/dev/ttyUSB7",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := newTestConfig(t)
			cfg.SetSnifferPort("/dev/ttyUSB7")
			parseFlags(t, tt.args...).Apply(cfg)

			assert.Equal(t, "/dev/ttyUSB3", cfg.SerialPort())
			assert.Equal(t, tt.wantSniffer, cfg.SnifferPort())
		})
	}
}

func TestFlags_ApplyKeepsConfigWithoutFlags(t *testing.T) {
	t.Parallel()

	cfg := newTestConfig(t)
	cfg.SetSerialPort("/dev/ttyS1")
	cfg.SetSnifferViews(false, true)

	parseFlags(t).Apply(cfg)

	assert.Equal(t, "/dev/ttyS1", cfg.SerialPort())
	s := cfg.SnifferSettings()
	assert.False(t, s.Hex)
	assert.True(t, s.ASCII)
}

func TestLettersFromText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		wantErr error
		name    string
		input   string
		want    string
	}{
		{name: "empty", input: "", want: "     "},
		{name: "short is padded", input: "ab", want: "Ab   "},
		{name: "full", input: "bod-1", want: "bod-1"},
		{name: "blank kept", input: "A 1", want: "A 1  "},
		{name: "full width", input: "ＡＢ１", want: "Ab1  "},
		{name: "too long", input: "ABCDEF", wantErr: nil},
		{name: "unmappable", input: "AK", wantErr: glyphs.ErrUnmappable},
		{name: "dash first", input: "-1", wantErr: glyphs.ErrNotAllowedAtSlot},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := LettersFromText(tt.input)
			switch {
			case tt.wantErr != nil:
				require.ErrorIs(t, err, tt.wantErr)
			case tt.want == "":
				require.Error(t, err)
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

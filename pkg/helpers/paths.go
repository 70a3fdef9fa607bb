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
	"path/filepath"

	"github.com/adrg/xdg"
)

const (
	AppName    = "gazctl"
	LogsSubdir = "logs"
	LogFile    = "gazctl.log"
)

// DataDir is the per-user data directory, e.g. ~/.local/share/gazctl.
func DataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// LogDir is the log directory inside dataDir.
func LogDir(dataDir string) string {
	return filepath.Join(dataDir, LogsSubdir)
}

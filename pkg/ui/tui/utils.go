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

package tui

import (
	"fmt"
	"sync"

	"github.com/rivo/tview"
	"golang.design/x/clipboard"
)

// Page names.
const (
	PageMain    = "main"
	PageSniffer = "sniffer"
)

type titled interface {
	SetTitle(title string) *tview.Box
}

// SetBoxTitle sets a padded box title.
func SetBoxTitle(box titled, title string) {
	box.SetTitle(" " + title + " ")
}

// onOff renders a toggle for the help bars.
func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

var clipboardInit = sync.OnceValue(clipboard.Init)

// readClipboard returns the system clipboard text. It fails on systems
// without a clipboard, e.g. a headless Linux console.
func readClipboard() (string, error) {
	if err := clipboardInit(); err != nil {
		return "", fmt.Errorf("clipboard unavailable: %w", err)
	}
	return string(clipboard.Read(clipboard.FmtText)), nil
}

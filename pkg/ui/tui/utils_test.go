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
	"testing"

	"github.com/rivo/tview"
	"github.com/stretchr/testify/assert"
)

func TestSetBoxTitle(t *testing.T) {
	t.Parallel()

	box := tview.NewBox()
	SetBoxTitle(box, "Frame")
	assert.Equal(t, " Frame ", box.GetTitle())
}

func TestOnOff(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "on", onOff(true))
	assert.Equal(t, "off", onOff(false))
}

func TestThemes(t *testing.T) {
	t.Parallel()

	assert.False(t, SetCurrentTheme("neon"))
	assert.Same(t, &ThemeDefault, AvailableThemes["default"])
	assert.Same(t, &ThemeHighContrast, AvailableThemes["high_contrast"])

	for name, theme := range AvailableThemes {
		assert.Equal(t, name, theme.Name)
		assert.NotEmpty(t, theme.DisplayName)
		assert.NotEqual(t, theme.HighlightFgName, theme.HighlightBgName)
	}
}

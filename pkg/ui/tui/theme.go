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
	"github.com/ZaparooProject/gazctl/pkg/helpers/syncutil"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// Theme defines all colors used in the TUI.
type Theme struct {
	Name                     string
	DisplayName              string
	HighlightFgName          string
	HighlightBgName          string
	ErrorColorName           string
	SuccessColorName         string
	AccentColorName          string
	PrimitiveBackgroundColor tcell.Color
	ContrastBackgroundColor  tcell.Color
	BorderColor              tcell.Color
	PrimaryTextColor         tcell.Color
	SecondaryTextColor       tcell.Color
	InverseTextColor         tcell.Color
	FieldFocusedBg           tcell.Color
	FieldUnfocusedBg         tcell.Color
	LabelColor               tcell.Color
}

// ThemeDefault is dark blue with yellow highlights.
var ThemeDefault = Theme{
	Name:        "default",
	DisplayName: "Default (Dark Blue)",

	PrimitiveBackgroundColor: tcell.ColorDarkBlue,
	ContrastBackgroundColor:  tcell.ColorBlue,
	BorderColor:              tcell.ColorLightYellow,
	PrimaryTextColor:         tcell.ColorWhite,
	SecondaryTextColor:       tcell.ColorGray,
	InverseTextColor:         tcell.ColorDarkBlue,

	HighlightBgName:  "yellow",
	HighlightFgName:  "black",
	AccentColorName:  "yellow",
	ErrorColorName:   "red",
	SuccessColorName: "green",

	FieldFocusedBg:   tcell.ColorBlue,
	FieldUnfocusedBg: tcell.ColorNavy,
	LabelColor:       tcell.ColorGray,
}

// ThemeHighContrast uses a black background for bright trackside light.
var ThemeHighContrast = Theme{
	Name:        "high_contrast",
	DisplayName: "High Contrast",

	PrimitiveBackgroundColor: tcell.NewHexColor(0x000000),
	ContrastBackgroundColor:  tcell.NewHexColor(0x000000),
	BorderColor:              tcell.ColorYellow,
	PrimaryTextColor:         tcell.ColorWhite,
	SecondaryTextColor:       tcell.ColorWhite,
	InverseTextColor:         tcell.NewHexColor(0x000000),

	HighlightBgName:  "yellow",
	HighlightFgName:  "#000000",
	AccentColorName:  "yellow",
	ErrorColorName:   "red",
	SuccessColorName: "lime",

	FieldFocusedBg:   tcell.ColorYellow,
	FieldUnfocusedBg: tcell.NewHexColor(0x202020),
	LabelColor:       tcell.ColorWhite,
}

var AvailableThemes = map[string]*Theme{
	ThemeDefault.Name:      &ThemeDefault,
	ThemeHighContrast.Name: &ThemeHighContrast,
}

var (
	currentTheme = &ThemeDefault
	themeMu      syncutil.RWMutex
	themeApplied bool
)

// CurrentTheme returns the currently active theme.
func CurrentTheme() *Theme {
	themeMu.RLock()
	defer themeMu.RUnlock()
	return currentTheme
}

// SetCurrentTheme sets the current theme by name and applies it to tview.
// Returns false if the theme name is not found. Setting the active theme
// again is a no-op.
func SetCurrentTheme(name string) bool {
	theme, ok := AvailableThemes[name]
	if !ok {
		return false
	}
	themeMu.Lock()
	defer themeMu.Unlock()
	if themeApplied && currentTheme == theme {
		return true
	}
	currentTheme = theme
	themeApplied = true
	ApplyTheme(theme)
	return true
}

// ApplyTheme applies the given theme to tview's global styles.
func ApplyTheme(theme *Theme) {
	tview.Styles.PrimitiveBackgroundColor = theme.PrimitiveBackgroundColor
	tview.Styles.ContrastBackgroundColor = theme.ContrastBackgroundColor
	tview.Styles.BorderColor = theme.BorderColor
	tview.Styles.PrimaryTextColor = theme.PrimaryTextColor
	tview.Styles.SecondaryTextColor = theme.SecondaryTextColor
	tview.Styles.InverseTextColor = theme.InverseTextColor
}

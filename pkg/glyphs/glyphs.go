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

// Package glyphs holds the set of characters a 7-segment display position
// can draw and the rules for mapping typed characters onto it.
package glyphs

import (
	"errors"
	"fmt"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/width"
)

const (
	// SlotCount is the number of editable character positions on the display.
	SlotCount = 5
	// FirstSlot is slot "a", the leftmost position.
	FirstSlot = 0
	// LastSlot is slot "e", the rightmost position.
	LastSlot = SlotCount - 1

	// Blank is the glyph used for an unlit position.
	Blank = ' '
)

var (
	// ErrUnmappable is returned for characters the display cannot draw.
	ErrUnmappable = errors.New("character cannot be shown on display")
	// ErrNotAllowedAtSlot is returned for a drawable glyph that the target
	// position does not accept.
	ErrNotAllowedAtSlot = errors.New("character not allowed at this position")
)

// Error describes a rejected character.
type Error struct {
	Err  error
	Char rune
	Slot int
}

func (e *Error) Error() string {
	return fmt.Sprintf("%q at slot %s: %v", e.Char, SlotName(e.Slot), e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// canonical lists every drawable glyph in display order.
var canonical = []rune{
	'A', 'C', 'E', 'F', 'G', 'H', 'I', 'J', 'L', 'P', 'S', 'U',
	'b', 'd', 'o',
	'0', '1', '2', '3', '4', '5', '6', '7', '8', '9',
	'-', '_', Blank,
}

var drawable = func() map[rune]struct{} {
	m := make(map[rune]struct{}, len(canonical))
	for _, r := range canonical {
		m[r] = struct{}{}
	}
	return m
}()

// lowerVariants are the letters the display can only draw in lowercase.
var lowerVariants = map[rune]rune{
	'B': 'b',
	'D': 'd',
	'O': 'o',
}

// Allowed returns the canonical glyphs in display order.
func Allowed() []rune {
	out := make([]rune, len(canonical))
	copy(out, canonical)
	return out
}

// IsGlyph reports whether r is a canonical glyph.
func IsGlyph(r rune) bool {
	_, ok := drawable[r]
	return ok
}

// Map normalizes r to its canonical glyph. Letters are case-insensitive,
// B, D and O become their lowercase 7-segment forms and every other letter
// is upper-cased.
func Map(r rune) (rune, bool) {
	m := r
	if unicode.IsLetter(r) {
		m = unicode.ToUpper(r)
		if lower, ok := lowerVariants[m]; ok {
			m = lower
		}
	}
	if !IsGlyph(m) {
		return 0, false
	}
	return m, true
}

// MapForSlot maps r for placement into the given slot. A dash cannot start
// the display, so it is refused in the first slot only.
func MapForSlot(r rune, slot int) (rune, error) {
	m, ok := Map(r)
	if !ok {
		return 0, &Error{Char: r, Slot: slot, Err: ErrUnmappable}
	}
	if m == '-' && slot == FirstSlot {
		return 0, &Error{Char: r, Slot: slot, Err: ErrNotAllowedAtSlot}
	}
	return m, nil
}

// Fold converts full-width forms (as produced by some input methods and
// clipboards) to their ASCII equivalents. Other text is returned unchanged.
func Fold(s string) string {
	folded, _, err := transform.String(width.Fold, s)
	if err != nil {
		return s
	}
	return folded
}

// SlotName returns the letter name of a slot index, "a" through "e".
func SlotName(slot int) string {
	if slot < FirstSlot || slot > LastSlot {
		return fmt.Sprintf("#%d", slot)
	}
	return string(rune('a' + slot))
}

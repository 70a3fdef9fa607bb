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

package entry

import (
	"testing"

	"github.com/ZaparooProject/gazctl/pkg/glyphs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fill(t *testing.T, b *Buffer, letters string) {
	t.Helper()
	for i, ch := range letters {
		if ch == '.' {
			continue
		}
		b.slots[i] = ch
	}
}

func TestNew_Empty(t *testing.T) {
	t.Parallel()

	b := New()
	assert.Equal(t, "     ", b.Letters())
	assert.Equal(t, 0, b.Focus())
	for i := range glyphs.SlotCount {
		assert.False(t, b.Filled(i))
	}
}

func TestInsert_EmptySlotPlacesAndAdvances(t *testing.T) {
	t.Parallel()

	b := New()
	res, err := b.Insert(0, 'a', false)
	require.NoError(t, err)

	assert.Equal(t, ActionPlaced, res.Action)
	assert.Equal(t, 0, res.Slot)
	assert.Equal(t, 1, res.Focus)
	assert.Equal(t, "A    ", b.Letters())
}

func TestInsert_LastSlotDoesNotAdvance(t *testing.T) {
	t.Parallel()

	b := New()
	res, err := b.Insert(4, '9', false)
	require.NoError(t, err)

	assert.Equal(t, ActionPlaced, res.Action)
	assert.Equal(t, 4, res.Focus)
	assert.Equal(t, "    9", b.Letters())
}

func TestInsert_SubstitutesLowercaseVariants(t *testing.T) {
	t.Parallel()

	b := New()
	for i, ch := range "BDOhc" {
		_, err := b.Insert(i, ch, false)
		require.NoError(t, err)
	}
	assert.Equal(t, "bdoHC", b.Letters())
}

func TestInsert_RoutesSecondCharacterToNextSlot(t *testing.T) {
	t.Parallel()

	b := New()
	_, err := b.Insert(1, 'H', false)
	require.NoError(t, err)

	// Typing again into the same filled slot goes to the next one.
	res, err := b.Insert(1, 'E', false)
	require.NoError(t, err)

	assert.Equal(t, ActionRouted, res.Action)
	assert.Equal(t, 2, res.Slot)
	assert.Equal(t, 2, res.Focus)
	assert.Equal(t, " HE  ", b.Letters())
}

func TestInsert_RouteOverwritesNextSlot(t *testing.T) {
	t.Parallel()

	b := New()
	fill(t, b, "AC...")

	res, err := b.Insert(0, 'L', false)
	require.NoError(t, err)

	assert.Equal(t, ActionRouted, res.Action)
	assert.Equal(t, "AL   ", b.Letters())
}

func TestInsert_FullLastSlotDropsCharacter(t *testing.T) {
	t.Parallel()

	b := New()
	fill(t, b, "....P")

	res, err := b.Insert(4, 'S', false)
	require.NoError(t, err)

	assert.Equal(t, ActionDropped, res.Action)
	assert.Equal(t, -1, res.Slot)
	assert.Equal(t, 4, res.Focus)
	assert.Equal(t, "    P", b.Letters())
}

func TestInsert_SelectionOverwritesInPlace(t *testing.T) {
	t.Parallel()

	b := New()
	fill(t, b, ".AC..")

	res, err := b.Insert(1, 'U', true)
	require.NoError(t, err)

	assert.Equal(t, ActionPlaced, res.Action)
	assert.Equal(t, 1, res.Slot)
	assert.Equal(t, 2, res.Focus)
	assert.Equal(t, " UC  ", b.Letters())
}

func TestInsert_Rejections(t *testing.T) {
	t.Parallel()

	tests := []struct {
		wantErr error
		name    string
		ch      rune
		slot    int
	}{
		{name: "undrawable letter", slot: 2, ch: 'K', wantErr: glyphs.ErrUnmappable},
		{name: "punctuation", slot: 0, ch: '!', wantErr: glyphs.ErrUnmappable},
		{name: "dash in first slot", slot: 0, ch: '-', wantErr: glyphs.ErrNotAllowedAtSlot},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			b := New()
			fill(t, b, "..8..")
			b.SetFocus(tt.slot)

			res, err := b.Insert(tt.slot, tt.ch, false)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, ActionNone, res.Action)
			assert.Equal(t, tt.slot, res.Focus)
			assert.Equal(t, "  8  ", b.Letters())
		})
	}
}

func TestInsert_DashAllowedAfterFirstSlot(t *testing.T) {
	t.Parallel()

	b := New()
	_, err := b.Insert(1, '-', false)
	require.NoError(t, err)
	assert.Equal(t, " -   ", b.Letters())
}

func TestInsert_OutOfRangeSlot(t *testing.T) {
	t.Parallel()

	b := New()
	_, err := b.Insert(5, 'A', false)
	require.Error(t, err)
	assert.Equal(t, "     ", b.Letters())
}

func TestDelete_FilledSlotClearsAndKeepsFocus(t *testing.T) {
	t.Parallel()

	b := New()
	fill(t, b, "AbC..")

	res, err := b.Delete(1)
	require.NoError(t, err)

	assert.Equal(t, ActionCleared, res.Action)
	assert.Equal(t, 1, res.Slot)
	assert.Equal(t, 1, res.Focus)
	assert.Equal(t, "A C  ", b.Letters())
}

func TestDelete_EmptySlotMovesFocusLeft(t *testing.T) {
	t.Parallel()

	b := New()
	fill(t, b, "AbC..")
	b.SetFocus(3)

	res, err := b.Delete(3)
	require.NoError(t, err)

	assert.Equal(t, ActionNone, res.Action)
	assert.Equal(t, -1, res.Slot)
	assert.Equal(t, 2, res.Focus)
	assert.Equal(t, "AbC  ", b.Letters(), "navigation must not alter content")
}

func TestDelete_EmptyFirstSlotStays(t *testing.T) {
	t.Parallel()

	b := New()
	res, err := b.Delete(0)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Focus)
}

func TestDelete_BackspaceTwiceClearsThenMoves(t *testing.T) {
	t.Parallel()

	b := New()
	fill(t, b, "12...")

	res, err := b.Delete(1)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Focus)

	res, err = b.Delete(1)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Focus)
	assert.Equal(t, "1    ", b.Letters())
}

func TestPaste(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		initial     string
		text        string
		wantLetters string
		start       int
		wantFocus   int
		wantPlaced  int
		wantSkipped int
	}{
		{
			name:        "dash lands after first slot",
			start:       0,
			text:        "AB-12",
			wantLetters: "Ab-12",
			wantFocus:   4,
			wantPlaced:  5,
		},
		{
			name:        "leading dash skipped in first slot",
			start:       0,
			text:        "-AB",
			wantLetters: "Ab   ",
			wantFocus:   1,
			wantPlaced:  2,
			wantSkipped: 1,
		},
		{
			name:        "invalid characters do not consume slots",
			start:       0,
			text:        "H!K?i",
			wantLetters: "HI   ",
			wantFocus:   1,
			wantPlaced:  2,
			wantSkipped: 3,
		},
		{
			name:        "overwrites existing content",
			initial:     "12345",
			start:       1,
			text:        "ab",
			wantLetters: "1Ab45",
			wantFocus:   2,
			wantPlaced:  2,
		},
		{
			name:        "stops when slots run out",
			start:       3,
			text:        "GAUGE",
			wantLetters: "   GA",
			wantFocus:   4,
			wantPlaced:  2,
		},
		{
			name:        "nothing placed keeps focus",
			initial:     "C....",
			start:       2,
			text:        "!?#",
			wantLetters: "C    ",
			wantFocus:   2,
			wantSkipped: 3,
		},
		{
			name:        "full width folded",
			start:       0,
			text:        "ＰＬ",
			wantLetters: "PL   ",
			wantFocus:   1,
			wantPlaced:  2,
		},
		{
			name:        "blank is a glyph",
			start:       0,
			text:        "A 1",
			wantLetters: "A 1  ",
			wantFocus:   2,
			wantPlaced:  3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			b := New()
			fill(t, b, tt.initial)

			res, err := b.Paste(tt.start, tt.text)
			require.NoError(t, err)

			assert.Equal(t, tt.wantLetters, b.Letters())
			assert.Equal(t, tt.wantFocus, res.Focus)
			assert.Equal(t, tt.wantFocus, b.Focus())
			assert.Equal(t, tt.wantPlaced, res.Placed)
			assert.Equal(t, tt.wantSkipped, res.Skipped)
			if tt.wantPlaced > 0 {
				assert.Equal(t, ActionPasted, res.Action)
			} else {
				assert.Equal(t, ActionNone, res.Action)
			}
		})
	}
}

func TestSetFocus_Clamps(t *testing.T) {
	t.Parallel()

	b := New()
	b.SetFocus(9)
	assert.Equal(t, 4, b.Focus())
	b.SetFocus(-3)
	assert.Equal(t, 0, b.Focus())
}

func TestClear(t *testing.T) {
	t.Parallel()

	b := New()
	fill(t, b, "HELLo")
	b.SetFocus(3)
	b.Clear()

	assert.Equal(t, "     ", b.Letters())
	assert.Equal(t, 0, b.Focus())
}

func TestAction_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "routed", ActionRouted.String())
	assert.Equal(t, "unknown", Action(99).String())
}

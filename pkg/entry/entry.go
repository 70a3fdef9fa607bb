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

// Package entry implements the five-slot letter buffer behind the letters
// display mode. It is driven by discrete input events and has no UI
// dependency: shells translate key presses into Insert, Delete and Paste
// calls and read Focus back to move their cursor.
package entry

import (
	"fmt"
	"strings"

	"github.com/ZaparooProject/gazctl/pkg/glyphs"
)

// empty marks a slot with no glyph. It renders as a blank.
const empty rune = 0

// Action describes what an event did to the buffer.
type Action int

const (
	// ActionNone means the event changed nothing but may have moved focus.
	ActionNone Action = iota
	// ActionPlaced means the glyph went into the target slot.
	ActionPlaced
	// ActionRouted means the target was full so the glyph went into the
	// following slot instead.
	ActionRouted
	// ActionDropped means the target was the full last slot and the glyph
	// was discarded.
	ActionDropped
	// ActionCleared means the target slot was emptied.
	ActionCleared
	// ActionPasted means one or more pasted glyphs were distributed.
	ActionPasted
)

func (a Action) String() string {
	switch a {
	case ActionNone:
		return "none"
	case ActionPlaced:
		return "placed"
	case ActionRouted:
		return "routed"
	case ActionDropped:
		return "dropped"
	case ActionCleared:
		return "cleared"
	case ActionPasted:
		return "pasted"
	default:
		return "unknown"
	}
}

// Result reports the effects of one event.
type Result struct {
	Action Action
	// Slot is the slot written or cleared, or -1 when nothing was.
	Slot int
	// Focus is the focused slot after the event.
	Focus int
	// Placed counts glyphs written by a paste.
	Placed int
	// Skipped counts pasted characters that could not be placed.
	Skipped int
}

// Buffer is the entry state: five slots and the focused slot index.
// The zero value is an empty buffer focused on slot a.
type Buffer struct {
	slots [glyphs.SlotCount]rune
	focus int
}

// New returns an empty buffer.
func New() *Buffer {
	return &Buffer{}
}

func checkSlot(slot int) error {
	if slot < glyphs.FirstSlot || slot > glyphs.LastSlot {
		return fmt.Errorf("slot %d out of range", slot)
	}
	return nil
}

func nextSlot(slot int) int {
	return min(slot+1, glyphs.LastSlot)
}

func prevSlot(slot int) int {
	return max(slot-1, glyphs.FirstSlot)
}

// Focus returns the focused slot index.
func (b *Buffer) Focus() int {
	return b.focus
}

// SetFocus moves focus without touching any slot. Out of range values are
// clamped.
func (b *Buffer) SetFocus(slot int) {
	b.focus = min(max(slot, glyphs.FirstSlot), glyphs.LastSlot)
}

// Slot returns the glyph in slot and whether the slot is filled.
func (b *Buffer) Slot(slot int) (rune, bool) {
	if checkSlot(slot) != nil || b.slots[slot] == empty {
		return glyphs.Blank, false
	}
	return b.slots[slot], true
}

// Filled reports whether slot holds a glyph.
func (b *Buffer) Filled(slot int) bool {
	_, ok := b.Slot(slot)
	return ok
}

// Clear empties every slot and focuses slot a.
func (b *Buffer) Clear() {
	b.slots = [glyphs.SlotCount]rune{}
	b.focus = glyphs.FirstSlot
}

// Letters returns the five display characters, blanks for empty slots.
func (b *Buffer) Letters() string {
	var sb strings.Builder
	sb.Grow(glyphs.SlotCount)
	for i := range b.slots {
		g, _ := b.Slot(i)
		sb.WriteRune(g)
	}
	return sb.String()
}

// Insert types ch into slot. selected reports whether the slot's current
// content is selected in the shell, which turns a routed keystroke into an
// in-place overwrite. A rejected character returns an error wrapping
// glyphs.ErrUnmappable or glyphs.ErrNotAllowedAtSlot and leaves the buffer
// untouched.
func (b *Buffer) Insert(slot int, ch rune, selected bool) (Result, error) {
	if err := checkSlot(slot); err != nil {
		return Result{Slot: -1, Focus: b.focus}, err
	}

	g, err := glyphs.MapForSlot(ch, slot)
	if err != nil {
		return Result{Slot: -1, Focus: b.focus}, fmt.Errorf("insert rejected: %w", err)
	}

	if b.slots[slot] == empty || selected {
		b.slots[slot] = g
		b.focus = nextSlot(slot)
		return Result{Action: ActionPlaced, Slot: slot, Focus: b.focus}, nil
	}

	if slot == glyphs.LastSlot {
		b.focus = slot
		return Result{Action: ActionDropped, Slot: -1, Focus: b.focus}, nil
	}

	next := slot + 1
	b.slots[next] = g
	b.focus = next
	return Result{Action: ActionRouted, Slot: next, Focus: b.focus}, nil
}

// Delete is a backspace in slot. A filled slot is cleared and keeps focus;
// on an empty slot it only moves focus one slot left.
func (b *Buffer) Delete(slot int) (Result, error) {
	if err := checkSlot(slot); err != nil {
		return Result{Slot: -1, Focus: b.focus}, err
	}

	if b.slots[slot] != empty {
		b.slots[slot] = empty
		b.focus = slot
		return Result{Action: ActionCleared, Slot: slot, Focus: b.focus}, nil
	}

	b.focus = prevSlot(slot)
	return Result{Action: ActionNone, Slot: -1, Focus: b.focus}, nil
}

// Paste distributes text over the slots starting at slot, overwriting
// existing content. Characters that cannot be placed in the slot they
// would land in are skipped and do not consume it. Focus ends on the last
// slot written, or stays on slot when nothing was written.
func (b *Buffer) Paste(slot int, text string) (Result, error) {
	if err := checkSlot(slot); err != nil {
		return Result{Slot: -1, Focus: b.focus}, err
	}

	res := Result{Action: ActionNone, Slot: -1}
	target := slot
	for _, ch := range glyphs.Fold(text) {
		if target > glyphs.LastSlot {
			break
		}
		g, err := glyphs.MapForSlot(ch, target)
		if err != nil {
			res.Skipped++
			continue
		}
		b.slots[target] = g
		res.Slot = target
		res.Placed++
		target++
	}

	if res.Placed > 0 {
		res.Action = ActionPasted
		b.focus = res.Slot
	} else {
		b.focus = slot
	}
	res.Focus = b.focus
	return res, nil
}

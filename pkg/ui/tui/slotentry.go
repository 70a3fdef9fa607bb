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
	"github.com/ZaparooProject/gazctl/pkg/entry"
	"github.com/ZaparooProject/gazctl/pkg/glyphs"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/rs/zerolog/log"
)

// Display positions of slots a..e on the seven character letters field.
// Positions 1 and 4 are always blank on the device.
var slotPositions = [glyphs.SlotCount]int{0, 2, 3, 5, 6}

const (
	displayPositions = 7
	slotCellWidth    = 4
	blockedCell      = '·'
	visibleBlank     = '␣'
)

// SlotEntry edits the five letters slots. Key presses are translated into
// entry.Buffer events; the buffer decides what ends up in each slot.
type SlotEntry struct {
	*tview.Box
	buf       *entry.Buffer
	clipboard func() (string, error)
	onChange  func(letters string)
	onSubmit  func(letters string)
	onReject  func(err error)
	done      func(key tcell.Key)
	// selected is set when focus moved onto a filled slot by navigation;
	// typing then overwrites the slot instead of routing to the next one.
	selected    bool
	bellPending bool
}

// NewSlotEntry creates an empty slot entry widget.
func NewSlotEntry() *SlotEntry {
	se := &SlotEntry{
		Box:       tview.NewBox(),
		buf:       entry.New(),
		clipboard: readClipboard,
	}
	se.SetBorder(true)
	SetBoxTitle(se, "Letters")
	return se
}

// SetChangedFunc is called with the letters after every change.
func (se *SlotEntry) SetChangedFunc(fn func(letters string)) *SlotEntry {
	se.onChange = fn
	return se
}

// SetSubmitFunc is called with the letters when Enter is pressed.
func (se *SlotEntry) SetSubmitFunc(fn func(letters string)) *SlotEntry {
	se.onSubmit = fn
	return se
}

// SetRejectFunc is called with the error of every rejected key.
func (se *SlotEntry) SetRejectFunc(fn func(err error)) *SlotEntry {
	se.onReject = fn
	return se
}

// SetDoneFunc is called with Tab, Backtab or Escape when focus should
// leave the widget.
func (se *SlotEntry) SetDoneFunc(fn func(key tcell.Key)) *SlotEntry {
	se.done = fn
	return se
}

// SetClipboard replaces the clipboard source used by Ctrl+V.
func (se *SlotEntry) SetClipboard(fn func() (string, error)) *SlotEntry {
	se.clipboard = fn
	return se
}

// Letters returns the five display characters.
func (se *SlotEntry) Letters() string {
	return se.buf.Letters()
}

// Cursor returns the focused slot index.
func (se *SlotEntry) Cursor() int {
	return se.buf.Focus()
}

// Selected reports whether the focused slot's content is selected.
func (se *SlotEntry) Selected() bool {
	return se.selected
}

// Clear empties all slots.
func (se *SlotEntry) Clear() {
	se.buf.Clear()
	se.selected = false
	se.changed()
}

func (se *SlotEntry) changed() {
	if se.onChange != nil {
		se.onChange(se.buf.Letters())
	}
}

func (se *SlotEntry) reject(err error) {
	se.bellPending = true
	log.Debug().Err(err).Msg("slot entry rejected input")
	if se.onReject != nil {
		se.onReject(err)
	}
}

func (se *SlotEntry) moveTo(slot int) {
	se.buf.SetFocus(slot)
	se.selected = se.buf.Filled(se.buf.Focus())
}

func (se *SlotEntry) insert(r rune) {
	_, err := se.buf.Insert(se.buf.Focus(), r, se.selected)
	if err != nil {
		se.reject(err)
		return
	}
	se.selected = false
	se.changed()
}

func (se *SlotEntry) paste(text string) {
	res, err := se.buf.Paste(se.buf.Focus(), text)
	if err != nil {
		se.reject(err)
		return
	}
	se.selected = false
	if res.Placed == 0 {
		se.bellPending = true
		return
	}
	se.changed()
}

func (se *SlotEntry) pasteClipboard() {
	if se.clipboard == nil {
		return
	}
	text, err := se.clipboard()
	if err != nil {
		log.Warn().Err(err).Msg("failed to read clipboard")
		se.bellPending = true
		return
	}
	se.paste(text)
}

func (se *SlotEntry) finish(key tcell.Key) {
	if se.done != nil {
		se.done(key)
	}
}

// Draw renders the seven display positions with the slot names below.
func (se *SlotEntry) Draw(screen tcell.Screen) {
	se.DrawForSubclass(screen, se)
	if se.bellPending {
		se.bellPending = false
		_ = screen.Beep()
	}

	x, y, width, height := se.GetInnerRect()
	if height < 1 || width < displayPositions*slotCellWidth-1 {
		return
	}
	theme := CurrentTheme()

	cellStyle := tcell.StyleDefault.
		Foreground(theme.PrimaryTextColor).
		Background(theme.FieldUnfocusedBg)
	focusStyle := tcell.StyleDefault.
		Foreground(tcell.GetColor(theme.HighlightFgName)).
		Background(tcell.GetColor(theme.HighlightBgName))
	labelStyle := tcell.StyleDefault.
		Foreground(theme.LabelColor).
		Background(theme.PrimitiveBackgroundColor)

	for pos := range displayPositions {
		cellX := x + pos*slotCellWidth
		slot := slotAt(pos)
		if slot < 0 {
			drawCell(screen, cellX, y, blockedCell, labelStyle)
			continue
		}

		r, filled := se.buf.Slot(slot)
		switch {
		case !filled:
			r = ' '
		case r == glyphs.Blank:
			r = visibleBlank
		}
		style := cellStyle
		if slot == se.buf.Focus() && se.HasFocus() {
			style = focusStyle
			if se.selected {
				style = style.Reverse(true)
			}
		}
		drawCell(screen, cellX, y, r, style)

		if height > 1 {
			tview.Print(screen, glyphs.SlotName(slot), cellX+1, y+1, 1, tview.AlignLeft, theme.LabelColor)
		}
	}
}

func slotAt(pos int) int {
	for slot, p := range slotPositions {
		if p == pos {
			return slot
		}
	}
	return -1
}

func drawCell(screen tcell.Screen, x, y int, r rune, style tcell.Style) {
	screen.SetContent(x, y, ' ', nil, style)
	screen.SetContent(x+1, y, r, nil, style)
	screen.SetContent(x+2, y, ' ', nil, style)
}

// InputHandler maps keys to entry events.
func (se *SlotEntry) InputHandler() func(event *tcell.EventKey, setFocus func(p tview.Primitive)) {
	return se.WrapInputHandler(func(event *tcell.EventKey, _ func(p tview.Primitive)) {
		cursor := se.buf.Focus()

		switch event.Key() {
		case tcell.KeyRune:
			se.insert(event.Rune())

		case tcell.KeyCtrlV:
			se.pasteClipboard()

		case tcell.KeyCtrlU:
			se.Clear()

		case tcell.KeyBackspace, tcell.KeyBackspace2, tcell.KeyDelete:
			res, err := se.buf.Delete(cursor)
			if err != nil {
				se.reject(err)
				return
			}
			se.selected = false
			if res.Action == entry.ActionCleared {
				se.changed()
			}

		case tcell.KeyLeft:
			se.moveTo(cursor - 1)

		case tcell.KeyRight:
			se.moveTo(cursor + 1)

		case tcell.KeyHome:
			se.moveTo(glyphs.FirstSlot)

		case tcell.KeyEnd:
			se.moveTo(glyphs.LastSlot)

		case tcell.KeyTab:
			if cursor == glyphs.LastSlot {
				se.finish(tcell.KeyTab)
				return
			}
			se.moveTo(cursor + 1)

		case tcell.KeyBacktab:
			if cursor == glyphs.FirstSlot {
				se.finish(tcell.KeyBacktab)
				return
			}
			se.moveTo(cursor - 1)

		case tcell.KeyEnter:
			if se.onSubmit != nil {
				se.onSubmit(se.buf.Letters())
			}

		case tcell.KeyEscape:
			se.finish(tcell.KeyEscape)

		default:
		}
	})
}

// PasteHandler distributes bracketed paste text over the slots.
func (se *SlotEntry) PasteHandler() func(text string, setFocus func(p tview.Primitive)) {
	return se.WrapPasteHandler(func(text string, _ func(p tview.Primitive)) {
		se.paste(text)
	})
}

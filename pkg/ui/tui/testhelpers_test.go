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
	"context"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/stretchr/testify/require"
)

// TestScreen wraps a SimulationScreen with helper methods for testing.
type TestScreen struct {
	tcell.SimulationScreen
	t *testing.T
}

// NewTestScreen creates and initializes a simulation screen for testing.
func NewTestScreen(t *testing.T, width, height int) *TestScreen {
	t.Helper()
	sim := tcell.NewSimulationScreen("UTF-8")
	require.NotNil(t, sim, "failed to create simulation screen")
	require.NoError(t, sim.Init(), "failed to initialize simulation screen")
	sim.SetSize(width, height)
	t.Cleanup(sim.Fini)
	return &TestScreen{SimulationScreen: sim, t: t}
}

// Render draws p at the given size and shows the result.
func (s *TestScreen) Render(p tview.Primitive, width, height int) {
	s.Clear()
	p.SetRect(0, 0, width, height)
	p.Draw(s)
	s.Show()
}

// GetLineContent returns the text content of a specific line.
func (s *TestScreen) GetLineContent(y int) string {
	cells, width, height := s.GetContents()
	if y < 0 || y >= height {
		return ""
	}

	var sb strings.Builder
	for x := range width {
		cell := cells[y*width+x]
		if len(cell.Runes) > 0 {
			sb.WriteRune(cell.Runes[0])
		} else {
			sb.WriteRune(' ')
		}
	}
	return strings.TrimRight(sb.String(), " ")
}

// GetCellStyle returns the style at a specific position.
func (s *TestScreen) GetCellStyle(x, y int) tcell.Style {
	cells, width, _ := s.GetContents()
	idx := y*width + x
	if idx < len(cells) {
		return cells[idx].Style
	}
	return tcell.StyleDefault
}

// key builds a key event.
func key(k tcell.Key) *tcell.EventKey {
	return tcell.NewEventKey(k, 0, tcell.ModNone)
}

// runeKey builds a typed character event.
func runeKey(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

// typeString feeds every rune of s to handler.
func typeString(handler func(*tcell.EventKey, func(tview.Primitive)), s string) {
	for _, r := range s {
		handler(runeKey(r), func(tview.Primitive) {})
	}
}

// textOf reads v while other goroutines may be writing to it.
func textOf(v *tview.TextView) string {
	v.Lock()
	defer v.Unlock()
	return v.GetText(true)
}

func loopLive(a *App) bool {
	a.loopMu.RLock()
	defer a.loopMu.RUnlock()
	return a.loopLive
}

// runApp runs a on a simulation screen until the test ends and waits for
// the first draw.
func runApp(t *testing.T, a *App) (cancel func(), errCh <-chan error) {
	t.Helper()
	a.SetScreen(tcell.NewSimulationScreen("UTF-8"))
	ctx, cancelRun := context.WithCancel(t.Context())
	ch := make(chan error, 1)
	go func() { ch <- a.Run(ctx) }()
	t.Cleanup(cancelRun)
	require.Eventually(t, func() bool { return loopLive(a) }, 2*time.Second, 5*time.Millisecond)
	return cancelRun, ch
}

func requireReturns(t *testing.T, errCh <-chan error) {
	t.Helper()
	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return")
	}
}

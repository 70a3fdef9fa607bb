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
	"errors"
	"fmt"
	"time"

	"github.com/ZaparooProject/gazctl/pkg/helpers/syncutil"
	"github.com/ZaparooProject/gazctl/pkg/sniffer"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/rs/zerolog/log"
)

// snifferPage shows live traffic from the sniffer port.
type snifferPage struct {
	app    *App
	layout *tview.Flex
	view   *tview.TextView
	help   *tview.TextView
	cancel context.CancelFunc
	done   chan struct{}
	sn     *sniffer.Sniffer
	port   string
	mu     syncutil.Mutex
	opts   sniffer.Options
}

func newSnifferPage(a *App) *snifferPage {
	sp := &snifferPage{app: a, opts: sniffer.DefaultOptions()}
	if a.cfg != nil {
		settings := a.cfg.SnifferSettings()
		sp.opts = sniffer.Options{Hex: settings.Hex, ASCII: settings.ASCII}
	}

	sp.view = tview.NewTextView().
		SetScrollable(true).
		SetMaxLines(2000)
	sp.view.SetBorder(true)
	SetBoxTitle(sp.view, "Sniffer (read only, 2400 8N1)")
	sp.view.ScrollToEnd()
	sp.view.SetInputCapture(sp.keys)

	sp.help = tview.NewTextView().SetDynamicColors(true)
	sp.refreshHelp()

	sp.layout = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(sp.view, 0, 1, true).
		AddItem(sp.help, 1, 0, false)
	return sp
}

func (sp *snifferPage) keys(event *tcell.EventKey) *tcell.EventKey {
	switch event.Key() {
	case tcell.KeyF5:
		if sp.running() {
			sp.halt()
		} else {
			sp.start()
		}
		return nil
	case tcell.KeyF6:
		sp.toggle(func(o *sniffer.Options) { o.Hex = !o.Hex })
		return nil
	case tcell.KeyF7:
		sp.toggle(func(o *sniffer.Options) { o.ASCII = !o.ASCII })
		return nil
	case tcell.KeyF8:
		sp.view.Clear()
		return nil
	default:
		return event
	}
}

func (sp *snifferPage) running() bool {
	sp.mu.Lock()
	defer sp.mu.Unlock()
	return sp.cancel != nil
}

func (sp *snifferPage) refreshHelp() {
	sp.mu.Lock()
	state, port, opts := "stopped", sp.port, sp.opts
	if sp.cancel != nil {
		state = "running on " + port
	}
	sp.mu.Unlock()

	sp.help.SetText(fmt.Sprintf(
		"[::b]F5[::-] start/stop (%s)  [::b]F6[::-] HEX %s  [::b]F7[::-] ASCII %s  "+
			"[::b]F8[::-] clear  [::b]F2[::-] back",
		tview.Escape(state), onOff(opts.Hex), onOff(opts.ASCII)))
}

func (sp *snifferPage) toggle(fn func(o *sniffer.Options)) {
	sp.mu.Lock()
	fn(&sp.opts)
	opts := sp.opts
	if sp.sn != nil {
		sp.sn.SetOptions(opts)
	}
	sp.mu.Unlock()

	if sp.app.cfg != nil {
		sp.app.cfg.SetSnifferViews(opts.Hex, opts.ASCII)
	}
	sp.refreshHelp()
}

// applyConfig takes the HEX and ASCII views from the config. Port and
// file changes apply from the next start.
func (sp *snifferPage) applyConfig() {
	if sp.app.cfg == nil {
		return
	}
	settings := sp.app.cfg.SnifferSettings()
	sp.mu.Lock()
	sp.opts = sniffer.Options{Hex: settings.Hex, ASCII: settings.ASCII}
	if sp.sn != nil {
		sp.sn.SetOptions(sp.opts)
	}
	sp.mu.Unlock()
	sp.refreshHelp()
}

func (sp *snifferPage) status(msg string) {
	_, _ = fmt.Fprintln(sp.view, sniffer.FormatLine(sp.app.clock.Now(), msg))
}

// start opens the sniffer port and begins polling in the background.
func (sp *snifferPage) start() {
	sp.mu.Lock()
	if sp.cancel != nil {
		sp.mu.Unlock()
		return
	}

	port := ""
	var settings sniffer.Config
	if cfg := sp.app.cfg; cfg != nil {
		port = cfg.SnifferPort()
		s := cfg.SnifferSettings()
		settings.ReadTimeout = s.ReadTimeout()
		settings.PollInterval = s.PollInterval()
		settings.ChunkSize = s.ChunkSize
		fileSinks, err := sniffer.OpenFileSinks(sp.app.fs, s.LogFile, s.CSVFile)
		if err != nil {
			sp.mu.Unlock()
			sp.status(fmt.Sprintf("File error: %v", err))
			return
		}
		settings.Sinks = fileSinks
	}
	if port == "" {
		sniffer.CloseSinks(settings.Sinks)
		sp.mu.Unlock()
		sp.status("No sniffer port configured")
		return
	}
	if port == sp.app.sendPort() {
		sniffer.CloseSinks(settings.Sinks)
		sp.mu.Unlock()
		sp.status(fmt.Sprintf("%s is open for sending; set [sniffer] port or -port to a second adapter", port))
		return
	}

	fileSinks := settings.Sinks
	settings.Sinks = append([]sniffer.Sink{viewSink{sp: sp}}, fileSinks...)
	settings.Path = port
	settings.Factory = sp.app.factory
	settings.Clock = sp.app.clock
	settings.Options = sp.opts

	sn := sniffer.New(settings)
	ctx, cancel := context.WithCancel(sp.app.ctx)
	done := make(chan struct{})
	sp.sn, sp.cancel, sp.done, sp.port = sn, cancel, done, port
	sp.mu.Unlock()
	sp.refreshHelp()

	go func() {
		defer close(done)
		err := sn.Run(ctx)
		sniffer.CloseSinks(fileSinks)
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("sniffer stopped")
		}

		sp.mu.Lock()
		if sp.done == done {
			sp.sn, sp.cancel = nil, nil
		}
		sp.mu.Unlock()
		cancel()
		sp.app.queue(sp.refreshHelp)
	}()
}

// halt cancels a running sniffer without waiting. It is safe on the UI
// goroutine; the sniffer's last lines arrive through the event loop.
func (sp *snifferPage) halt() {
	sp.mu.Lock()
	cancel := sp.cancel
	sp.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// stop cancels a running sniffer and waits for it to release the port.
// It must not be called on the UI goroutine while the event loop runs.
func (sp *snifferPage) stop() {
	sp.mu.Lock()
	cancel, done := sp.cancel, sp.done
	sp.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

// viewSink shows sniffer lines on the page from the sniffer goroutine.
type viewSink struct {
	sp *snifferPage
}

func (v viewSink) write(line string) {
	v.sp.app.queue(func() { _, _ = fmt.Fprintln(v.sp.view, line) })
}

func (v viewSink) WriteChunk(c sniffer.Chunk) error {
	v.write(c.Line())
	return nil
}

func (v viewSink) WriteStatus(at time.Time, msg string) error {
	v.write(sniffer.FormatLine(at, msg))
	return nil
}

func (viewSink) Close() error {
	return nil
}

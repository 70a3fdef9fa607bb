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

// Package tui is the interactive terminal front end: a letters entry
// widget with live frame preview, start number, race time and raw frame
// fields, and a sniffer page.
package tui

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/ZaparooProject/gazctl/pkg/config"
	"github.com/ZaparooProject/gazctl/pkg/frames"
	"github.com/ZaparooProject/gazctl/pkg/helpers/syncutil"
	"github.com/ZaparooProject/gazctl/pkg/serialport"
	"github.com/ZaparooProject/gazctl/pkg/sniffer"
	"github.com/gdamore/tcell/v2"
	"github.com/jonboulle/clockwork"
	"github.com/rivo/tview"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Send rate limit of the UI.
const (
	SendsPerSecond = 5
	SendBurst      = 3
)

const helpMain = "[::b]Tab[::-] next field  [::b]Enter[::-] send  [::b]Ctrl+V[::-] paste  " +
	"[::b]Ctrl+U[::-] clear  [::b]F3[::-] edit frame  [::b]F2[::-] sniffer  [::b]Esc[::-] quit"

// Options wires the TUI to its collaborators.
type Options struct {
	Config *config.Instance
	// Sender writes frames; nil reports frames on the status log only.
	Sender  Sender
	Fs      afero.Fs
	Factory serialport.Factory
	Clock   clockwork.Clock
	Version string
	// WatchConfig reloads the config file while the UI runs.
	WatchConfig bool
}

// App is the gazctl terminal UI.
type App struct {
	ctx       context.Context
	cfg       *config.Instance
	fs        afero.Fs
	factory   serialport.Factory
	sender    Sender
	clock     clockwork.Clock
	app       *tview.Application
	pages     *tview.Pages
	letters   *SlotEntry
	preview   *tview.TextView
	number    *tview.InputField
	timeField *tview.InputField
	raw       *tview.InputField
	status    *tview.TextView
	sniff     *snifferPage
	inflight  sync.WaitGroup
	sendMu    syncutil.Mutex
	limiter   *rate.Limiter
	quit      context.CancelFunc
	// loopLive is set from the first draw until shutdown starts. While it
	// is set, widget changes from other goroutines go through the event
	// loop; loopMu keeps shutdown from stranding a queued update.
	loopMu   syncutil.RWMutex
	loopLive bool
	loopDone bool
	drawn    atomic.Bool
	watchCfg bool
}

// NewApp builds the UI. ctx bounds every send and sniffer run.
//
//nolint:gocritic // options struct passed by value
func NewApp(ctx context.Context, opts Options) *App {
	if opts.Fs == nil {
		opts.Fs = afero.NewOsFs()
	}
	if opts.Factory == nil {
		opts.Factory = serialport.DefaultFactory
	}
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}

	a := &App{
		ctx:      ctx,
		cfg:      opts.Config,
		fs:       opts.Fs,
		factory:  opts.Factory,
		sender:   opts.Sender,
		clock:    opts.Clock,
		app:      tview.NewApplication(),
		pages:    tview.NewPages(),
		watchCfg: opts.WatchConfig && opts.Config != nil,
		limiter:  rate.NewLimiter(rate.Limit(SendsPerSecond), SendBurst),
	}
	if a.sender == nil {
		a.sender = localSender{report: func(msg string) { a.postf("", "%s", msg) }}
	}

	theme, mouse := ThemeDefault.Name, true
	if a.cfg != nil {
		theme, mouse = a.cfg.TUITheme(), a.cfg.TUIMouse()
	}
	if !SetCurrentTheme(theme) {
		log.Warn().Str("theme", theme).Msg("unknown theme, using default")
		SetCurrentTheme(ThemeDefault.Name)
	}
	a.buildMain(opts.Version)
	a.sniff = newSnifferPage(a)
	a.pages.AddPage(PageSniffer, a.sniff.layout, true, false)

	a.app.EnablePaste(true).EnableMouse(mouse)
	a.app.SetRoot(a.pages, true).SetFocus(a.letters)
	a.app.SetInputCapture(a.captureKeys)
	a.app.SetAfterDrawFunc(func(tcell.Screen) {
		if !a.drawn.Swap(true) {
			a.markLive()
		}
	})

	if opts.Sender == nil {
		a.infof("No serial port configured; frames are shown here only.")
	}
	return a
}

func (a *App) buildMain(version string) {
	a.letters = NewSlotEntry().
		SetChangedFunc(a.previewLetters).
		SetSubmitFunc(a.sendLetters).
		SetRejectFunc(func(err error) { a.errorf("%v", err) })
	a.letters.SetDoneFunc(a.navigate(a.letters))

	a.preview = tview.NewTextView().SetDynamicColors(true)
	a.preview.SetBorder(true)
	SetBoxTitle(a.preview, "Frame")

	a.number = tview.NewInputField().
		SetLabel("Start number ").
		SetFieldWidth(5).
		SetAcceptanceFunc(func(text string, ch rune) bool {
			return len(text) <= frames.StartNumberDigits && ch >= '0' && ch <= '9'
		})
	a.number.SetChangedFunc(a.previewNumber)
	a.number.SetDoneFunc(a.navigate(a.number))

	a.timeField = tview.NewInputField().
		SetLabel("Time (s.hh)  ").
		SetFieldWidth(8).
		SetAcceptanceFunc(func(_ string, ch rune) bool {
			return (ch >= '0' && ch <= '9') || ch == '.'
		})
	a.timeField.SetChangedFunc(a.previewTime)
	a.timeField.SetDoneFunc(a.navigate(a.timeField))

	a.raw = tview.NewInputField().
		SetLabel("Raw frame    ").
		SetFieldWidth(0)
	a.raw.SetChangedFunc(a.previewRaw)
	a.raw.SetDoneFunc(a.navigate(a.raw))

	a.status = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetMaxLines(500)
	a.status.SetBorder(true)
	SetBoxTitle(a.status, "Log")
	a.status.ScrollToEnd()

	help := tview.NewTextView().SetDynamicColors(true).SetText(helpMain)

	fields := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(a.number, 1, 0, false).
		AddItem(a.timeField, 1, 0, false).
		AddItem(a.raw, 1, 0, false)
	fields.SetBorder(true)
	SetBoxTitle(fields, "Number / Time / Raw")

	main := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(a.letters, 4, 0, true).
		AddItem(a.preview, 4, 0, false).
		AddItem(fields, 5, 0, false).
		AddItem(a.status, 0, 1, false).
		AddItem(help, 1, 0, false)
	main.SetBorder(true)
	SetBoxTitle(main, "gazctl "+version)

	a.pages.AddPage(PageMain, main, true, true)
	a.previewLetters(a.letters.Letters())
}

// focusOrder is the Tab cycle of the main page.
func (a *App) focusOrder() []tview.Primitive {
	return []tview.Primitive{a.letters, a.number, a.timeField, a.raw}
}

// navigate returns a done handler for p: Tab and Backtab cycle focus,
// Enter sends the field, Escape quits.
func (a *App) navigate(p tview.Primitive) func(key tcell.Key) {
	return func(key tcell.Key) {
		order := a.focusOrder()
		idx := 0
		for i, q := range order {
			if q == p {
				idx = i
			}
		}

		switch key {
		case tcell.KeyTab:
			a.app.SetFocus(order[(idx+1)%len(order)])
		case tcell.KeyBacktab:
			a.app.SetFocus(order[(idx-1+len(order))%len(order)])
		case tcell.KeyEnter:
			switch p {
			case a.number:
				a.sendNumber(a.number.GetText())
			case a.timeField:
				a.sendTime(a.timeField.GetText())
			case a.raw:
				a.sendRaw(a.raw.GetText())
			}
		case tcell.KeyEscape:
			a.stop()
		default:
		}
	}
}

func (a *App) captureKeys(event *tcell.EventKey) *tcell.EventKey {
	switch event.Key() {
	case tcell.KeyF2:
		if name, _ := a.pages.GetFrontPage(); name == PageSniffer {
			a.pages.SwitchToPage(PageMain)
			a.app.SetFocus(a.letters)
		} else {
			a.pages.SwitchToPage(PageSniffer)
			a.app.SetFocus(a.sniff.view)
		}
		return nil
	case tcell.KeyF3:
		a.editLettersFrame()
		return nil
	case tcell.KeyCtrlC:
		a.stop()
		return nil
	default:
		return event
	}
}

// editLettersFrame copies the letters frame into the raw field for manual
// editing.
func (a *App) editLettersFrame() {
	f, err := frames.Letters(a.letters.Letters())
	if err != nil {
		a.errorf("%v", err)
		return
	}
	a.raw.SetText(frames.NewPreview(f).ASCII)
	a.pages.SwitchToPage(PageMain)
	a.app.SetFocus(a.raw)
}

func (a *App) showPreview(f frames.Frame) {
	p := frames.NewPreview(f)
	a.preview.SetText(fmt.Sprintf("[::b]ASCII:[::-] %s\n[::b]HEX:[::-]   %s",
		tview.Escape(p.ASCII), p.Hex))
}

func (a *App) showPreviewError(err error) {
	a.preview.SetText(fmt.Sprintf("[%s]%s[-]",
		CurrentTheme().ErrorColorName, tview.Escape(err.Error())))
}

func (a *App) previewLetters(letters string) {
	f, err := frames.Letters(letters)
	if err != nil {
		a.showPreviewError(err)
		return
	}
	a.showPreview(f)
}

func (a *App) previewNumber(text string) {
	if text == "" {
		a.previewLetters(a.letters.Letters())
		return
	}
	seq, err := frames.StartNumberFromText(text)
	if err != nil {
		a.showPreviewError(err)
		return
	}
	a.showPreview(seq[0])
}

func (a *App) previewTime(text string) {
	if text == "" {
		a.previewLetters(a.letters.Letters())
		return
	}
	f, err := frames.TimeFromText(text)
	if err != nil {
		a.showPreviewError(err)
		return
	}
	a.showPreview(f)
}

func (a *App) previewRaw(text string) {
	if text == "" {
		a.previewLetters(a.letters.Letters())
		return
	}
	f, err := frames.ParseRaw(text)
	if err != nil {
		a.showPreviewError(err)
		return
	}
	a.showPreview(f)
}

// dispatch runs a send off the UI goroutine. Sends never overlap and are
// dropped when keys are repeated faster than the send rate. fn returns
// the status line to show on success.
func (a *App) dispatch(what string, fn func(ctx context.Context) (string, error)) {
	if !a.limiter.Allow() {
		a.errorf("Sending too fast, %s not sent", what)
		return
	}
	a.inflight.Add(1)
	go func() {
		defer a.inflight.Done()
		a.sendMu.Lock()
		defer a.sendMu.Unlock()
		msg, err := fn(a.ctx)
		if err != nil {
			log.Error().Err(err).Msgf("failed to send %s", what)
			a.postf(CurrentTheme().ErrorColorName, "Send %s failed: %v", what, err)
			return
		}
		a.postf(CurrentTheme().SuccessColorName, "%s", msg)
	}()
}

func (a *App) sendFrame(what string, f frames.Frame) {
	a.showPreview(f)
	a.dispatch(what, func(context.Context) (string, error) {
		if err := a.sender.Send(f); err != nil {
			return "", err
		}
		return fmt.Sprintf("Sent %s: %q", what, string(f)), nil
	})
}

func (a *App) sendLetters(letters string) {
	f, err := frames.Letters(letters)
	if err != nil {
		a.errorf("%v", err)
		return
	}
	a.sendFrame("letters", f)
}

func (a *App) sendTime(text string) {
	f, err := frames.TimeFromText(text)
	if err != nil {
		a.errorf("%v", err)
		return
	}
	a.sendFrame("time", f)
}

func (a *App) sendRaw(text string) {
	f, err := frames.ParseRaw(text)
	if err != nil {
		a.errorf("%v", err)
		return
	}
	a.sendFrame("raw frame", f)
}

func (a *App) sendNumber(text string) {
	seq, err := frames.StartNumberFromText(text)
	if err != nil {
		a.errorf("%v", err)
		return
	}
	a.showPreview(seq[0])
	a.dispatch("start number", func(ctx context.Context) (string, error) {
		report, err := a.sender.SendSequence(ctx, seq)
		if err != nil {
			return "", fmt.Errorf("%d of %d frames sent: %w", report.Sent(), len(seq), err)
		}
		return fmt.Sprintf("Sent start number: %q + 2 follow-up frames", string(seq[0])), nil
	})
}

func (a *App) markLive() {
	a.loopMu.Lock()
	defer a.loopMu.Unlock()
	if !a.loopDone {
		a.loopLive = true
	}
}

// markDone waits for queued updates still in flight, then makes queue run
// updates directly.
func (a *App) markDone() {
	a.loopMu.Lock()
	defer a.loopMu.Unlock()
	a.loopLive, a.loopDone = false, true
}

// queue applies a widget change from a goroutine other than the UI
// goroutine. It must never be called from the UI goroutine itself.
func (a *App) queue(fn func()) {
	a.loopMu.RLock()
	defer a.loopMu.RUnlock()
	if a.loopLive {
		a.app.QueueUpdateDraw(fn)
		return
	}
	fn()
}

// stop ends Run, or stops the application directly when Run is not
// managing it.
func (a *App) stop() {
	if a.quit != nil {
		a.quit()
		return
	}
	a.app.Stop()
}

func (a *App) logLine(color, msg string) {
	line := tview.Escape(sniffer.FormatLine(a.clock.Now(), msg))
	if color != "" {
		line = "[" + color + "]" + line + "[-]"
	}
	_, _ = fmt.Fprintln(a.status, line)
}

// postf writes a status line from a background goroutine.
func (a *App) postf(color, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	a.queue(func() { a.logLine(color, msg) })
}

func (a *App) infof(format string, args ...any) {
	a.logLine("", fmt.Sprintf(format, args...))
}

func (a *App) errorf(format string, args ...any) {
	a.logLine(CurrentTheme().ErrorColorName, fmt.Sprintf(format, args...))
}

// configReloaded runs on the config watcher goroutine.
func (a *App) configReloaded(err error) {
	a.queue(func() {
		if err != nil {
			a.errorf("Config reload failed: %v", err)
			return
		}
		a.sniff.applyConfig()
		a.infof("Config reloaded from %s", a.cfg.Path())
	})
}

// SetScreen runs the app on screen instead of the terminal.
func (a *App) SetScreen(screen tcell.Screen) {
	a.app.SetScreen(screen)
}

// Run shows the UI until the user quits or ctx is cancelled. In-flight
// sends and a running sniffer are finished before it returns.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if a.watchCfg {
		if err := a.cfg.Watch(ctx, a.configReloaded); err != nil {
			log.Warn().Err(err).Msg("config file will not be reloaded")
		}
	}

	a.quit = cancel
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer cancel()
		if err := a.app.Run(); err != nil {
			return fmt.Errorf("failed to run application: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		a.markDone()
		a.app.Stop()
		return nil
	})

	err := g.Wait()
	a.sniff.stop()
	a.inflight.Wait()
	return err
}

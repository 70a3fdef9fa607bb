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

package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/ZaparooProject/gazctl/pkg/config"
	"github.com/ZaparooProject/gazctl/pkg/frames"
	"github.com/ZaparooProject/gazctl/pkg/serialport"
	"github.com/ZaparooProject/gazctl/pkg/sniffer"
	"github.com/ZaparooProject/gazctl/pkg/transmitter"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// Env holds the collaborators of a command. Zero fields fall back to the
// real terminal, filesystem, serial ports and clock.
type Env struct {
	Out     io.Writer
	Fs      afero.Fs
	Factory serialport.Factory
	Clock   clockwork.Clock
}

func (e *Env) fill() {
	if e.Out == nil {
		e.Out = os.Stdout
	}
	if e.Fs == nil {
		e.Fs = afero.NewOsFs()
	}
	if e.Factory == nil {
		e.Factory = serialport.DefaultFactory
	}
	if e.Clock == nil {
		e.Clock = clockwork.NewRealClock()
	}
}

// Run executes a one-shot command. ctx stops a running sniffer and
// interrupts a start number sequence between frames.
//
//nolint:gocritic // env struct passed by value
func (f *Flags) Run(ctx context.Context, cmd Command, cfg *config.Instance, env Env) error {
	env.fill()

	switch cmd {
	case CommandTUI:
		return nil
	case CommandSniff:
		return runSniffer(ctx, cfg, env)
	case CommandReplay:
		return runReplay(*f.Replay, cfg, env)
	default:
	}

	what, fs, err := f.frames(cmd)
	if err != nil {
		return err
	}
	if *f.Preview {
		printPreview(env.Out, fs)
		return nil
	}
	return send(ctx, cfg, env, what, fs)
}

func (f *Flags) frames(cmd Command) (string, []frames.Frame, error) {
	switch cmd {
	case CommandLetters:
		letters, err := LettersFromText(*f.Letters)
		if err != nil {
			return "", nil, err
		}
		fr, err := frames.Letters(letters)
		if err != nil {
			return "", nil, fmt.Errorf("failed to encode letters: %w", err)
		}
		return "letters", []frames.Frame{fr}, nil
	case CommandNumber:
		seq, err := frames.StartNumberFromText(*f.Number)
		if err != nil {
			return "", nil, fmt.Errorf("failed to encode start number: %w", err)
		}
		return "start number", seq, nil
	case CommandTime:
		fr, err := frames.TimeFromText(*f.Time)
		if err != nil {
			return "", nil, fmt.Errorf("failed to encode time: %w", err)
		}
		return "time", []frames.Frame{fr}, nil
	case CommandRaw:
		fr, err := frames.ParseRaw(*f.Raw)
		if err != nil {
			return "", nil, fmt.Errorf("failed to parse raw frame: %w", err)
		}
		return "raw frame", []frames.Frame{fr}, nil
	default:
		return "", nil, fmt.Errorf("command %d sends no frames", cmd)
	}
}

func printPreview(w io.Writer, fs []frames.Frame) {
	for i, f := range fs {
		if len(fs) > 1 {
			_, _ = fmt.Fprintf(w, "Frame %d of %d\n", i+1, len(fs))
		}
		p := frames.NewPreview(f)
		_, _ = fmt.Fprintf(w, "ASCII: %s\nHEX:   %s\n", p.ASCII, p.Hex)
	}
}

//nolint:gocritic // env struct passed by value
func send(ctx context.Context, cfg *config.Instance, env Env, what string, fs []frames.Frame) error {
	port := cfg.SerialPort()
	if port == "" {
		return ErrNoPort
	}

	session, err := transmitter.Open(port, transmitter.Options{
		Factory:         env.Factory,
		Clock:           env.Clock,
		InterFrameDelay: cfg.InterFrameDelay(),
	})
	if err != nil {
		return fmt.Errorf("failed to open display port: %w", err)
	}
	defer func() {
		if err := session.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close display port")
		}
	}()

	if len(fs) == 1 {
		if err := session.Send(fs[0]); err != nil {
			return fmt.Errorf("failed to send %s: %w", what, err)
		}
	} else {
		report, err := session.SendSequence(ctx, fs)
		if err != nil {
			return fmt.Errorf("failed to send %s (%d of %d frames sent): %w",
				what, report.Sent(), len(fs), err)
		}
	}

	log.Info().Str("port", port).Msgf("sent %s", what)
	_, _ = fmt.Fprintf(env.Out, "Sent %s: %q\n", what, string(fs[0]))
	return nil
}

func snifferOptions(s config.Sniffer) sniffer.Options {
	return sniffer.Options{Hex: s.Hex, ASCII: s.ASCII}
}

//nolint:gocritic // env struct passed by value
func runSniffer(ctx context.Context, cfg *config.Instance, env Env) error {
	port := cfg.SnifferPort()
	if port == "" {
		return ErrNoPort
	}

	s := cfg.SnifferSettings()
	fileSinks, err := sniffer.OpenFileSinks(env.Fs, s.LogFile, s.CSVFile)
	if err != nil {
		return fmt.Errorf("failed to open capture files: %w", err)
	}
	defer sniffer.CloseSinks(fileSinks)

	sn := sniffer.New(sniffer.Config{
		Factory:      env.Factory,
		Clock:        env.Clock,
		Path:         port,
		Sinks:        append([]sniffer.Sink{sniffer.NewLineSink(env.Out)}, fileSinks...),
		ReadTimeout:  s.ReadTimeout(),
		PollInterval: s.PollInterval(),
		ChunkSize:    s.ChunkSize,
		Options:      snifferOptions(s),
	})
	if err := sn.Run(ctx); err != nil {
		return fmt.Errorf("sniffer stopped: %w", err)
	}
	return nil
}

//nolint:gocritic // env struct passed by value
func runReplay(path string, cfg *config.Instance, env Env) error {
	rows, err := sniffer.ReadCapture(env.Fs, path)
	if err != nil {
		return fmt.Errorf("failed to read capture: %w", err)
	}
	lines, err := sniffer.Replay(rows, snifferOptions(cfg.SnifferSettings()))
	if err != nil {
		return fmt.Errorf("failed to replay capture: %w", err)
	}
	for _, line := range lines {
		_, _ = fmt.Fprintln(env.Out, line)
	}
	return nil
}

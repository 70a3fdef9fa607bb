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

// Package cli holds the command line front end: flag definitions, config
// overrides and the one-shot send, preview and sniff commands.
package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/ZaparooProject/gazctl/pkg/config"
	"github.com/ZaparooProject/gazctl/pkg/entry"
	"github.com/ZaparooProject/gazctl/pkg/glyphs"
	"github.com/ZaparooProject/gazctl/pkg/serialport"
)

var (
	// ErrNoPort is returned when a command needs a serial port and none is
	// set by flag or config.
	ErrNoPort = errors.New("no serial port configured, use -port or set serial.port")
	// ErrConflictingCommands is returned when more than one command flag is
	// passed.
	ErrConflictingCommands = errors.New("only one of -letters, -number, -time, -raw, -sniff, -replay may be used")
)

// Command is the action selected by the flags.
type Command int

const (
	// CommandTUI starts the interactive UI.
	CommandTUI Command = iota
	CommandLetters
	CommandNumber
	CommandTime
	CommandRaw
	CommandSniff
	CommandReplay
)

type Flags struct {
	set       *flag.FlagSet
	Port      *string
	Letters   *string
	Number    *string
	Time      *string
	Raw       *string
	LogFile   *string
	CSV       *string
	Replay    *string
	Config    *string
	ListPorts *bool
	Preview   *bool
	Sniff     *bool
	Hex       *bool
	ASCII     *bool
	Debug     *bool
	Version   *bool
}

// SetupFlags defines all gazctl flags on fs.
func SetupFlags(fs *flag.FlagSet) *Flags {
	return &Flags{
		set: fs,
		Port: fs.String(
			"port",
			"",
			"serial device of the display, or of the sniffer with -sniff (overrides config)",
		),
		ListPorts: fs.Bool(
			"list-ports",
			false,
			"print available serial ports and exit",
		),
		Letters: fs.String(
			"letters",
			"",
			"send up to 5 display characters",
		),
		Number: fs.String(
			"number",
			"",
			"send a start number (0-999)",
		),
		Time: fs.String(
			"time",
			"",
			"send a race time as SSS.DD",
		),
		Raw: fs.String(
			"raw",
			"",
			"send a raw frame, as shown in a preview",
		),
		Preview: fs.Bool(
			"preview",
			false,
			"print the frames instead of sending them",
		),
		Sniff: fs.Bool(
			"sniff",
			false,
			"print traffic from the sniffer port until interrupted",
		),
		Replay: fs.String(
			"replay",
			"",
			"print the lines of a CSV capture",
		),
		Hex: fs.Bool(
			"hex",
			true,
			"show the HEX view of sniffed data",
		),
		ASCII: fs.Bool(
			"ascii",
			true,
			"show the ASCII view of sniffed data",
		),
		LogFile: fs.String(
			"log-file",
			"",
			"append sniffed lines to this file",
		),
		CSV: fs.String(
			"csv",
			"",
			"append sniffed chunks to this CSV file",
		),
		Config: fs.String(
			"config",
			"",
			"path to config file",
		),
		Debug: fs.Bool(
			"debug",
			false,
			"enable debug logging",
		),
		Version: fs.Bool(
			"version",
			false,
			"print version and exit",
		),
	}
}

// Parse parses args into the flag set.
func (f *Flags) Parse(args []string) error {
	if err := f.set.Parse(args); err != nil {
		return fmt.Errorf("failed to parse flags: %w", err)
	}
	return nil
}

func (f *Flags) isPassed(name string) bool {
	found := false
	f.set.Visit(func(fl *flag.Flag) {
		if fl.Name == name {
			found = true
		}
	})
	return found
}

// Command returns the command selected by the parsed flags.
func (f *Flags) Command() (Command, error) {
	selected := CommandTUI
	count := 0
	for _, c := range []struct {
		name string
		cmd  Command
	}{
		{"letters", CommandLetters},
		{"number", CommandNumber},
		{"time", CommandTime},
		{"raw", CommandRaw},
		{"replay", CommandReplay},
	} {
		if f.isPassed(c.name) {
			selected = c.cmd
			count++
		}
	}
	if *f.Sniff {
		selected = CommandSniff
		count++
	}
	if count > 1 {
		return CommandTUI, ErrConflictingCommands
	}
	return selected, nil
}

// Pre actions the flags that need no config or logging. It reports
// whether the program should exit.
func (f *Flags) Pre(w io.Writer, version string, list func() ([]serialport.Info, error)) (bool, error) {
	switch {
	case *f.Version:
		_, _ = fmt.Fprintf(w, "gazctl v%s\n", version)
		return true, nil
	case *f.ListPorts:
		ports, err := list()
		if err != nil {
			return true, fmt.Errorf("failed to list ports: %w", err)
		}
		if len(ports) == 0 {
			_, _ = fmt.Fprintln(w, "No serial ports found")
			return true, nil
		}
		for _, p := range ports {
			_, _ = fmt.Fprintln(w, p.String())
		}
		return true, nil
	default:
		return false, nil
	}
}

// Apply copies flag overrides into cfg. Only flags passed on the command
// line override config values.
func (f *Flags) Apply(cfg *config.Instance) {
	if *f.Port != "" {
		cfg.SetSerialPort(*f.Port)
		if *f.Sniff {
			cfg.SetSnifferPort(*f.Port)
		}
	}
	if *f.Debug {
		cfg.SetDebugLogging(true)
	}
	if f.isPassed("hex") || f.isPassed("ascii") {
		s := cfg.SnifferSettings()
		hex, ascii := s.Hex, s.ASCII
		if f.isPassed("hex") {
			hex = *f.Hex
		}
		if f.isPassed("ascii") {
			ascii = *f.ASCII
		}
		cfg.SetSnifferViews(hex, ascii)
	}
	if *f.LogFile != "" {
		cfg.SetSnifferLogFile(*f.LogFile)
	}
	if *f.CSV != "" {
		cfg.SetSnifferCSVFile(*f.CSV)
	}
}

// LettersFromText types text into an empty entry buffer one slot at a
// time and returns the resulting letters. Every character must be
// accepted by its slot.
func LettersFromText(text string) (string, error) {
	runes := []rune(glyphs.Fold(text))
	if len(runes) > glyphs.SlotCount {
		return "", fmt.Errorf("letters %q: at most %d characters", text, glyphs.SlotCount)
	}

	buf := entry.New()
	for slot, r := range runes {
		if _, err := buf.Insert(slot, r, false); err != nil {
			return "", fmt.Errorf("letters %q: %w", text, err)
		}
	}
	return buf.Letters(), nil
}

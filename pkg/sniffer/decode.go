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

// Package sniffer renders raw serial traffic as timestamped hex/ASCII log
// lines and runs the read-only polling loop that captures it.
package sniffer

import (
	"strings"
	"time"

	"github.com/ZaparooProject/gazctl/pkg/frames"
)

// TimestampLayout is the millisecond-precision capture timestamp.
const TimestampLayout = "2006-01-02 15:04:05.000"

// Markers substituted for line endings in the ASCII view.
const (
	MarkerCR = "<CR>"
	MarkerLF = "<LF>"
)

// Options selects the views rendered for each chunk.
type Options struct {
	Hex   bool
	ASCII bool
}

// DefaultOptions renders both views.
func DefaultOptions() Options {
	return Options{Hex: true, ASCII: true}
}

// Chunk is one rendered read. Chunk boundaries are whatever the read
// returned; they need not line up with frames.
type Chunk struct {
	CapturedAt time.Time
	Raw        []byte
	Hex        string
	ASCII      string
	Options    Options
}

// Decode renders data with opts. It keeps no state between calls.
func Decode(data []byte, opts Options, capturedAt time.Time) Chunk {
	c := Chunk{
		CapturedAt: capturedAt,
		Raw:        append([]byte(nil), data...),
		Options:    opts,
	}
	if opts.Hex {
		c.Hex = frames.HexString(data)
	}
	if opts.ASCII {
		c.ASCII = RenderASCII(data)
	}
	return c
}

// RenderASCII shows printable bytes as-is, CR and LF as markers and
// everything else as '.'.
func RenderASCII(data []byte) string {
	var sb strings.Builder
	sb.Grow(len(data))
	for _, b := range data {
		switch {
		case b == '\r':
			sb.WriteString(MarkerCR)
		case b == '\n':
			sb.WriteString(MarkerLF)
		case b >= 0x20 && b <= 0x7e:
			sb.WriteByte(b)
		default:
			sb.WriteByte('.')
		}
	}
	return sb.String()
}

// Body is the line without its timestamp.
func (c Chunk) Body() string {
	parts := make([]string, 0, 2)
	if c.Options.Hex {
		parts = append(parts, "HEX: "+c.Hex)
	}
	if c.Options.ASCII {
		parts = append(parts, `ASCII: "`+c.ASCII+`"`)
	}
	return strings.Join(parts, "  ")
}

// Line is the full log line for the chunk.
func (c Chunk) Line() string {
	return FormatLine(c.CapturedAt, c.Body())
}

// FormatTimestamp renders t with millisecond precision.
func FormatTimestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}

// FormatLine prefixes text with the timestamp and two spaces. Status
// messages use the same layout as chunks.
func FormatLine(t time.Time, text string) string {
	if text == "" {
		return FormatTimestamp(t)
	}
	return FormatTimestamp(t) + "  " + text
}

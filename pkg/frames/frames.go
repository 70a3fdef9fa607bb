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

// Package frames builds the ASCII payloads understood by the GAZ display.
// Payloads never carry the trailing CR; the transmitter appends it.
package frames

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/ZaparooProject/gazctl/pkg/glyphs"
)

// Display protocol constants.
const (
	// Header is the fixed lead-in for letters frames and for times of 100
	// seconds or more.
	Header = "  0   .     "
	// HeaderShortTime is the lead-in for times under 100 seconds. The
	// display leaves the hundreds digit unused in that case.
	HeaderShortTime = "  0   .       "
	// Trailer closes every display frame.
	Trailer = " 00"

	// StartNumberPrefix starts a start-number frame.
	StartNumberPrefix = "A"

	// Terminator ends every transmission on the wire.
	Terminator = '\r'

	StartNumberDigits = 3
	MaxStartNumber    = 999
	MaxSeconds        = 999
	MaxHundredths     = 99
)

// Follow-up frames sent after a start number. Observed on the wire from the
// timing console; their meaning on the device is unknown.
var (
	StartNumberFollowUp1 = Frame(strings.Repeat(" ", 11))
	StartNumberFollowUp2 = Frame(strings.Repeat(" ", 15))
)

// Frame is one wire payload without its CR terminator.
type Frame string

// Bytes returns the payload plus the CR terminator as sent on the wire.
func (f Frame) Bytes() []byte {
	b := make([]byte, 0, len(f)+1)
	b = append(b, f...)
	return append(b, Terminator)
}

func (f Frame) String() string {
	return string(f)
}

// Letters builds a letters-mode frame from exactly five glyphs. Display
// positions 2 and 5 are always blank.
func Letters(letters string) (Frame, error) {
	rs := []rune(letters)
	if len(rs) != glyphs.SlotCount {
		return "", &ValidationError{
			Field:  FieldLetters,
			Value:  letters,
			Reason: fmt.Sprintf("need exactly %d characters", glyphs.SlotCount),
		}
	}
	for i, r := range rs {
		if !glyphs.IsGlyph(r) {
			return "", &ValidationError{
				Field:  FieldLetters,
				Value:  letters,
				Reason: fmt.Sprintf("%q in slot %s cannot be displayed", r, glyphs.SlotName(i)),
			}
		}
	}

	var sb strings.Builder
	sb.Grow(len(Header) + 10)
	sb.WriteString(Header)
	sb.WriteRune(rs[0])
	sb.WriteByte(' ')
	sb.WriteRune(rs[1])
	sb.WriteRune(rs[2])
	sb.WriteByte(' ')
	sb.WriteRune(rs[3])
	sb.WriteRune(rs[4])
	sb.WriteString(Trailer)
	return Frame(sb.String()), nil
}

// StartNumber builds the primary start-number frame "Axxx" padded with
// eight spaces.
func StartNumber(n int) (Frame, error) {
	if n < 0 || n > MaxStartNumber {
		return "", &ValidationError{
			Field:  FieldStartNumber,
			Value:  strconv.Itoa(n),
			Reason: fmt.Sprintf("must be 0..%d", MaxStartNumber),
		}
	}
	return Frame(fmt.Sprintf("%s%03d%s", StartNumberPrefix, n, strings.Repeat(" ", 8))), nil
}

// StartNumberSequence returns every frame of one "send number" operation
// in wire order: the number frame followed by the two blank follow-ups.
func StartNumberSequence(n int) ([]Frame, error) {
	f, err := StartNumber(n)
	if err != nil {
		return nil, err
	}
	return []Frame{f, StartNumberFollowUp1, StartNumberFollowUp2}, nil
}

// Time builds a race-clock frame. Under 100 seconds the seconds are
// space-padded to two characters behind the long header; from 100 seconds
// the hundreds digit gets its own position behind the short header.
func Time(seconds, hundredths int) (Frame, error) {
	if seconds < 0 || seconds > MaxSeconds {
		return "", &ValidationError{
			Field:  FieldSeconds,
			Value:  strconv.Itoa(seconds),
			Reason: fmt.Sprintf("must be 0..%d", MaxSeconds),
		}
	}
	if hundredths < 0 || hundredths > MaxHundredths {
		return "", &ValidationError{
			Field:  FieldHundredths,
			Value:  strconv.Itoa(hundredths),
			Reason: fmt.Sprintf("must be 0..%d", MaxHundredths),
		}
	}

	if seconds >= 100 {
		return Frame(fmt.Sprintf("%s%d %02d.%02d%s",
			Header, seconds/100, seconds%100, hundredths, Trailer)), nil
	}
	return Frame(fmt.Sprintf("%s%2d.%02d%s", HeaderShortTime, seconds, hundredths, Trailer)), nil
}

// ParseRaw converts an edited preview back into a payload. Visible blank
// markers become spaces and CR/LF markers are removed, so a preview can be
// pasted back verbatim.
func ParseRaw(text string) (Frame, error) {
	s := strings.ReplaceAll(text, VisibleBlank, " ")
	for _, marker := range []string{"<CR>", `\r`, `\n`} {
		s = strings.ReplaceAll(s, marker, "")
	}
	s = strings.TrimRight(s, "\r\n")

	if s == "" {
		return "", &ValidationError{Field: FieldRaw, Value: text, Reason: "frame is empty"}
	}
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return "", &ValidationError{Field: FieldRaw, Value: text, Reason: "frame must be ASCII"}
		}
	}
	return Frame(s), nil
}

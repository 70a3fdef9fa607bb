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

package frames

import (
	"fmt"
	"strconv"
	"strings"
)

// Input field names used in validation errors.
const (
	FieldLetters     = "letters"
	FieldStartNumber = "start number"
	FieldSeconds     = "seconds"
	FieldHundredths  = "hundredths"
	FieldTime        = "time"
	FieldRaw         = "raw frame"
)

// ValidationError reports user input that cannot be encoded. No frame is
// produced when it is returned.
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// ParseStartNumber parses a start number typed as 1 to 3 digits.
func ParseStartNumber(text string) (int, error) {
	s := strings.TrimSpace(text)
	if !allDigits(s) || len(s) > StartNumberDigits {
		return 0, &ValidationError{
			Field:  FieldStartNumber,
			Value:  text,
			Reason: "use 1 to 3 digits (0..999)",
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, &ValidationError{Field: FieldStartNumber, Value: text, Reason: err.Error()}
	}
	return n, nil
}

// ParseTime parses a time typed as SSS.DD. A single fraction digit counts
// tenths, so "6.2" is 6 seconds and 20 hundredths; two digits are taken as
// hundredths. A missing fraction is zero.
func ParseTime(text string) (seconds, hundredths int, err error) {
	s := strings.TrimSpace(text)
	left, right, hasFraction := strings.Cut(s, ".")

	if !allDigits(left) || len(left) > 3 {
		return 0, 0, &ValidationError{
			Field:  FieldTime,
			Value:  text,
			Reason: "use SSS.DD, e.g. 6.23, 33 or 123.4",
		}
	}
	seconds, err = strconv.Atoi(left)
	if err != nil {
		return 0, 0, &ValidationError{Field: FieldTime, Value: text, Reason: err.Error()}
	}

	if !hasFraction || right == "" {
		return seconds, 0, nil
	}
	if !allDigits(right) || len(right) > 2 {
		return 0, 0, &ValidationError{
			Field:  FieldTime,
			Value:  text,
			Reason: "fraction part max 2 digits",
		}
	}
	hundredths, err = strconv.Atoi(right)
	if err != nil {
		return 0, 0, &ValidationError{Field: FieldTime, Value: text, Reason: err.Error()}
	}
	if len(right) == 1 {
		hundredths *= 10
	}
	return seconds, hundredths, nil
}

// TimeFromText parses text with ParseTime and builds the frame.
func TimeFromText(text string) (Frame, error) {
	sec, hun, err := ParseTime(text)
	if err != nil {
		return "", err
	}
	return Time(sec, hun)
}

// StartNumberFromText parses text with ParseStartNumber and builds the
// full frame sequence.
func StartNumberFromText(text string) ([]Frame, error) {
	n, err := ParseStartNumber(text)
	if err != nil {
		return nil, err
	}
	return StartNumberSequence(n)
}

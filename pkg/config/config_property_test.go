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

package config

import (
	"testing"

	"pgregory.net/rapid"
)

// TestPropertyValidateRanges checks that Validate accepts exactly the
// documented ranges for the numeric settings.
func TestPropertyValidateRanges(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		vals := BaseDefaults
		vals.Serial.InterFrameDelayMs = rapid.IntRange(-100, 6000).Draw(t, "delay")
		vals.Sniffer.ChunkSize = rapid.IntRange(-10, 70000).Draw(t, "chunk")

		want := vals.Serial.InterFrameDelayMs >= 0 && vals.Serial.InterFrameDelayMs <= 5000 &&
			vals.Sniffer.ChunkSize >= 1 && vals.Sniffer.ChunkSize <= 65536

		err := Validate(&vals)
		if want && err != nil {
			t.Fatalf("valid values rejected: %v", err)
		}
		if !want && err == nil {
			t.Fatalf("invalid values accepted: delay=%d chunk=%d",
				vals.Serial.InterFrameDelayMs, vals.Sniffer.ChunkSize)
		}
	})
}

// TestPropertyDefaultsAreValid checks that the defaults survive
// validation no matter which booleans are toggled.
func TestPropertyDefaultsAreValid(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		vals := BaseDefaults
		vals.Sniffer.Hex = rapid.Bool().Draw(t, "hex")
		vals.Sniffer.ASCII = rapid.Bool().Draw(t, "ascii")
		vals.DebugLogging = rapid.Bool().Draw(t, "debug")
		if err := Validate(&vals); err != nil {
			t.Fatalf("defaults rejected: %v", err)
		}
	})
}

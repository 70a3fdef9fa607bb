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

package sniffer

import (
	"strings"
	"testing"

	"pgregory.net/rapid"
)

// TestPropertyDecodeIsPure checks that decoding the same bytes twice gives
// the same line.
func TestPropertyDecodeIsPure(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		data := rapid.SliceOf(rapid.Byte()).Draw(t, "data")
		opts := Options{
			Hex:   rapid.Bool().Draw(t, "hex"),
			ASCII: rapid.Bool().Draw(t, "ascii"),
		}

		first := Decode(data, opts, testTime).Line()
		second := Decode(data, opts, testTime).Line()
		if first != second {
			t.Fatalf("decode not deterministic: %q vs %q", first, second)
		}
	})
}

// TestPropertyHexLength checks that every byte gives exactly two hex
// digits.
func TestPropertyHexLength(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		data := rapid.SliceOfN(rapid.Byte(), 1, 300).Draw(t, "data")
		c := Decode(data, Options{Hex: true}, testTime)
		if len(c.Hex) != 3*len(data)-1 {
			t.Fatalf("hex %q has wrong length for %d bytes", c.Hex, len(data))
		}
		if strings.ToUpper(c.Hex) != c.Hex {
			t.Fatalf("hex %q is not uppercase", c.Hex)
		}
	})
}

// TestPropertyASCIIPrintable checks that the ASCII view only contains
// printable characters and that chunking does not change the rendering.
func TestPropertyASCIIPrintable(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		data := rapid.SliceOf(rapid.Byte()).Draw(t, "data")
		out := RenderASCII(data)
		for i := range len(out) {
			if out[i] < 0x20 || out[i] > 0x7e {
				t.Fatalf("non-printable byte %#x in %q", out[i], out)
			}
		}

		split := rapid.IntRange(0, len(data)).Draw(t, "split")
		joined := RenderASCII(data[:split]) + RenderASCII(data[split:])
		if joined != out {
			t.Fatalf("split rendering %q differs from %q", joined, out)
		}
	})
}

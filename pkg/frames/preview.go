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
	"strings"
)

// VisibleBlank stands in for a space in previews.
const VisibleBlank = "␣"

// Preview is a human readable view of a frame as it will go on the wire.
type Preview struct {
	ASCII string
	Hex   string
}

// NewPreview renders f with its CR terminator. Spaces are shown as
// VisibleBlank and the CR as a literal `\r`.
func NewPreview(f Frame) Preview {
	return Preview{
		ASCII: strings.ReplaceAll(string(f), " ", VisibleBlank) + `\r`,
		Hex:   HexString(f.Bytes()),
	}
}

// HexString formats bytes as uppercase two-digit hex separated by spaces.
func HexString(b []byte) string {
	return strings.TrimSpace(fmt.Sprintf("% X", b))
}

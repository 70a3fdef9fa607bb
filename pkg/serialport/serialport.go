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

// Package serialport wraps go.bug.st/serial behind a small interface so the
// transmitter and sniffer can be tested without hardware.
package serialport

import (
	"fmt"
	"io"
	"time"

	"go.bug.st/serial"
)

// Line settings of the display link: 2400 baud, 8N1.
const (
	BaudRate = 2400
	DataBits = 8
)

// Port is the subset of serial.Port used by gazctl.
type Port interface {
	io.ReadWriteCloser
	SetReadTimeout(t time.Duration) error
	Drain() error
	SetDTR(dtr bool) error
	SetRTS(rts bool) error
}

// Factory opens a serial port connection.
type Factory func(path string, mode *serial.Mode) (Port, error)

// DefaultFactory opens a real serial port.
func DefaultFactory(path string, mode *serial.Mode) (Port, error) {
	port, err := serial.Open(path, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port: %w", err)
	}
	return port, nil
}

// DisplayMode returns the 2400 8N1 mode the display and its sniffer use.
func DisplayMode() *serial.Mode {
	return &serial.Mode{
		BaudRate: BaudRate,
		DataBits: DataBits,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
}

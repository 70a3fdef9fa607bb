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

package serialport

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.bug.st/serial"
	"go.bug.st/serial/enumerator"
)

func TestDisplayMode(t *testing.T) {
	t.Parallel()

	mode := DisplayMode()
	assert.Equal(t, 2400, mode.BaudRate)
	assert.Equal(t, 8, mode.DataBits)
	assert.Equal(t, serial.NoParity, mode.Parity)
	assert.Equal(t, serial.OneStopBit, mode.StopBits)

	// Each call returns a fresh mode.
	mode.BaudRate = 9600
	assert.Equal(t, 2400, DisplayMode().BaudRate)
}

func TestDescribe(t *testing.T) {
	t.Parallel()

	tests := []struct {
		details *enumerator.PortDetails
		name    string
		want    string
	}{
		{
			name:    "native port",
			details: &enumerator.PortDetails{Name: "/dev/ttyS0"},
			want:    "",
		},
		{
			name: "usb adapter",
			details: &enumerator.PortDetails{
				Name: "/dev/ttyUSB0", IsUSB: true, VID: "067B", PID: "2303", Product: "USB-Serial Controller",
			},
			want: "USB-Serial Controller [067b:2303]",
		},
		{
			name:    "usb without product",
			details: &enumerator.PortDetails{Name: "COM3", IsUSB: true, VID: "1a86", PID: "7523"},
			want:    "[1a86:7523]",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, describe(tt.details))
		})
	}
}

func TestInfo_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "/dev/ttyS0", Info{Name: "/dev/ttyS0"}.String())
	assert.Equal(t, "COM3 [1a86:7523]", Info{Name: "COM3", Description: "[1a86:7523]"}.String())
}

func TestSortInfos(t *testing.T) {
	t.Parallel()

	infos := []Info{{Name: "/dev/ttyUSB1"}, {Name: "/dev/ttyACM0"}, {Name: "/dev/ttyUSB0"}}
	sortInfos(infos)
	assert.Equal(t, "/dev/ttyACM0", infos[0].Name)
	assert.Equal(t, "/dev/ttyUSB0", infos[1].Name)
	assert.Equal(t, "/dev/ttyUSB1", infos[2].Name)
}

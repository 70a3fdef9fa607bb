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
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
	"go.bug.st/serial"
	"go.bug.st/serial/enumerator"
)

// Info describes one serial device available on the system.
type Info struct {
	Name        string
	Description string
	IsUSB       bool
}

func (i Info) String() string {
	if i.Description == "" {
		return i.Name
	}
	return i.Name + " " + i.Description
}

func describe(d *enumerator.PortDetails) string {
	if !d.IsUSB {
		return ""
	}
	parts := make([]string, 0, 2)
	if d.Product != "" {
		parts = append(parts, d.Product)
	}
	if d.VID != "" || d.PID != "" {
		parts = append(parts, fmt.Sprintf("[%s:%s]", strings.ToLower(d.VID), strings.ToLower(d.PID)))
	}
	return strings.Join(parts, " ")
}

// List returns the serial devices on the system sorted by name. USB
// details are included where the platform reports them.
func List() ([]Info, error) {
	details, err := enumerator.GetDetailedPortsList()
	if err != nil {
		log.Debug().Err(err).Msg("detailed port list unavailable, falling back to names")
		names, err := serial.GetPortsList()
		if err != nil {
			return nil, fmt.Errorf("failed to get serial ports list: %w", err)
		}
		infos := make([]Info, 0, len(names))
		for _, name := range names {
			infos = append(infos, Info{Name: name})
		}
		sortInfos(infos)
		return infos, nil
	}

	infos := make([]Info, 0, len(details))
	for _, d := range details {
		infos = append(infos, Info{
			Name:        d.Name,
			Description: describe(d),
			IsUSB:       d.IsUSB,
		})
	}
	sortInfos(infos)
	return infos, nil
}

func sortInfos(infos []Info) {
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].Name < infos[j].Name
	})
}

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

package tui

import (
	"context"
	"fmt"

	"github.com/ZaparooProject/gazctl/pkg/frames"
	"github.com/ZaparooProject/gazctl/pkg/transmitter"
)

// Sender writes frames to the display. *transmitter.Session implements it.
type Sender interface {
	Send(f frames.Frame) error
	SendSequence(ctx context.Context, fs []frames.Frame) (transmitter.Report, error)
}

var _ Sender = (*transmitter.Session)(nil)

// localSender stands in when no port is configured. Frames are only
// reported, never written.
type localSender struct {
	report func(msg string)
}

func (l localSender) Send(f frames.Frame) error {
	l.report(fmt.Sprintf("[LOCAL] %q + CR", string(f)))
	return nil
}

func (l localSender) SendSequence(ctx context.Context, fs []frames.Frame) (transmitter.Report, error) {
	report := transmitter.Report{Outcomes: make([]transmitter.Outcome, 0, len(fs))}
	for _, f := range fs {
		if err := ctx.Err(); err != nil {
			return report, fmt.Errorf("sequence aborted: %w", err)
		}
		err := l.Send(f)
		report.Outcomes = append(report.Outcomes, transmitter.Outcome{
			Frame:     f,
			Attempted: true,
			Err:       err,
		})
	}
	return report, nil
}

// sendPort is the port held open by the sender, or empty for the local
// sender.
func (a *App) sendPort() string {
	if p, ok := a.sender.(interface{ Path() string }); ok {
		return p.Path()
	}
	return ""
}

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

// Package transmitter sends display frames over an explicitly opened
// serial session. Sends are fire-and-forget: nothing is read back from the
// display and a failed frame is never retried or rolled back.
package transmitter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ZaparooProject/gazctl/pkg/frames"
	"github.com/ZaparooProject/gazctl/pkg/helpers/syncutil"
	"github.com/ZaparooProject/gazctl/pkg/serialport"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DefaultInterFrameDelay separates the frames of a start-number send.
const DefaultInterFrameDelay = 80 * time.Millisecond

// ErrClosed is returned when sending on a closed session.
var ErrClosed = errors.New("session closed")

// TransportError reports a failed write of one frame.
type TransportError struct {
	Err   error
	Port  string
	Frame frames.Frame
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("send %q to %s: %v", string(e.Frame), e.Port, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Options configures a Session. Zero values select the defaults.
type Options struct {
	Factory         serialport.Factory
	Clock           clockwork.Clock
	InterFrameDelay time.Duration
}

// Session is an open serial connection to the display.
type Session struct {
	port   serialport.Port
	clock  clockwork.Clock
	logger zerolog.Logger
	path   string
	delay  time.Duration
	mu     syncutil.Mutex
}

// Open opens path at 2400 8N1 and returns a session owning the port.
// Callers must Close it.
func Open(path string, opts Options) (*Session, error) {
	if path == "" {
		return nil, errors.New("no serial port selected")
	}
	if opts.Factory == nil {
		opts.Factory = serialport.DefaultFactory
	}
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.InterFrameDelay <= 0 {
		opts.InterFrameDelay = DefaultInterFrameDelay
	}

	port, err := opts.Factory(path, serialport.DisplayMode())
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}

	id := uuid.NewString()
	s := &Session{
		port:   port,
		clock:  opts.Clock,
		logger: log.With().Str("session", id).Str("port", path).Logger(),
		path:   path,
		delay:  opts.InterFrameDelay,
	}
	s.logger.Info().Msgf("connected to %s (%d 8N1)", path, serialport.BaudRate)
	return s, nil
}

// Path returns the device path the session was opened on.
func (s *Session) Path() string {
	return s.path
}

// Close releases the port. Closing twice is a no-op.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.port == nil {
		return nil
	}
	err := s.port.Close()
	s.port = nil
	s.logger.Info().Msg("disconnected")
	if err != nil {
		return fmt.Errorf("failed to close %s: %w", s.path, err)
	}
	return nil
}

// Send writes one frame followed by CR.
func (s *Session) Send(f frames.Frame) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.port == nil {
		return &TransportError{Frame: f, Port: s.path, Err: ErrClosed}
	}

	if _, err := s.port.Write(f.Bytes()); err != nil {
		s.logger.Error().Err(err).Str("frame", string(f)).Msg("send failed")
		return &TransportError{Frame: f, Port: s.path, Err: err}
	}
	if err := s.port.Drain(); err != nil {
		s.logger.Debug().Err(err).Msg("drain after write failed")
	}

	s.logger.Info().Msgf("sent %q + CR", string(f))
	return nil
}

// Outcome is the result of one frame within a sequence.
type Outcome struct {
	Err    error
	SentAt time.Time
	Frame  frames.Frame
	// Attempted is false for frames skipped after an abort.
	Attempted bool
}

// Report lists the outcome of every frame of a sequence in wire order.
type Report struct {
	Outcomes []Outcome
}

// Sent counts the frames written successfully.
func (r Report) Sent() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Attempted && o.Err == nil {
			n++
		}
	}
	return n
}

// Complete reports whether every frame was written.
func (r Report) Complete() bool {
	return len(r.Outcomes) > 0 && r.Sent() == len(r.Outcomes)
}

// SendSequence writes fs in order with the inter-frame delay between
// them. If the first frame fails nothing else is sent. Later failures are
// reported individually and do not stop the following frames. Cancelling
// ctx during a delay skips the remaining frames. The returned error joins
// every failure.
func (s *Session) SendSequence(ctx context.Context, fs []frames.Frame) (Report, error) {
	report := Report{Outcomes: make([]Outcome, len(fs))}
	for i, f := range fs {
		report.Outcomes[i].Frame = f
	}

	var errs []error
	for i, f := range fs {
		if i > 0 {
			select {
			case <-ctx.Done():
				errs = append(errs, fmt.Errorf("sequence aborted after %d of %d frames: %w",
					i, len(fs), ctx.Err()))
				return report, errors.Join(errs...)
			case <-s.clock.After(s.delay):
			}
		}

		report.Outcomes[i].Attempted = true
		report.Outcomes[i].SentAt = s.clock.Now()
		err := s.Send(f)
		report.Outcomes[i].Err = err
		if err == nil {
			continue
		}
		errs = append(errs, err)
		if i == 0 {
			return report, errors.Join(errs...)
		}
	}
	return report, errors.Join(errs...)
}

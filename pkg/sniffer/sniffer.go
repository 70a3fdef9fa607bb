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
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ZaparooProject/gazctl/pkg/helpers/syncutil"
	"github.com/ZaparooProject/gazctl/pkg/serialport"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Polling defaults.
const (
	DefaultReadTimeout  = 100 * time.Millisecond
	DefaultPollInterval = 50 * time.Millisecond
	DefaultChunkSize    = 256
)

// ErrNoPort is returned when the sniffer has no device to open.
var ErrNoPort = errors.New("no serial port selected")

// ReadError reports a failure of the underlying serial port. The loop
// stops on the first one.
type ReadError struct {
	Err  error
	Port string
	Op   string
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Port, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// Config describes one sniffing session.
type Config struct {
	Factory      serialport.Factory
	Clock        clockwork.Clock
	Path         string
	Sinks        []Sink
	ReadTimeout  time.Duration
	PollInterval time.Duration
	ChunkSize    int
	Options      Options
}

// Sniffer listens to a serial port without ever writing to it.
type Sniffer struct {
	clock  clockwork.Clock
	logger zerolog.Logger
	cfg    Config
	mu     syncutil.RWMutex
	opts   Options
}

// New returns a sniffer for cfg, filling in defaults.
func New(cfg Config) *Sniffer {
	if cfg.Factory == nil {
		cfg.Factory = serialport.DefaultFactory
	}
	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewRealClock()
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = DefaultReadTimeout
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = DefaultChunkSize
	}
	return &Sniffer{
		cfg:   cfg,
		clock: cfg.Clock,
		opts:  cfg.Options,
		logger: log.With().
			Str("sniffer", uuid.NewString()).
			Str("port", cfg.Path).
			Logger(),
	}
}

// Options returns the current rendering options.
func (s *Sniffer) Options() Options {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.opts
}

// SetOptions changes the rendering options for subsequent chunks.
func (s *Sniffer) SetOptions(opts Options) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.opts = opts
}

// Status sends a timestamped status message to every sink.
func (s *Sniffer) Status(msg string) {
	now := s.clock.Now()
	for _, sink := range s.cfg.Sinks {
		if err := sink.WriteStatus(now, msg); err != nil {
			s.logger.Warn().Err(err).Msg("failed to write status line")
		}
	}
}

func (s *Sniffer) emit(c Chunk) {
	for _, sink := range s.cfg.Sinks {
		if err := sink.WriteChunk(c); err != nil {
			s.logger.Warn().Err(err).Msg("failed to write chunk")
		}
	}
}

type pathed interface {
	Path() string
}

// Run opens the port and polls it until ctx is cancelled or a read fails.
// Cancellation is checked between reads, never mid-chunk. The port is
// always closed before Run returns. A cancelled run returns nil.
func (s *Sniffer) Run(ctx context.Context) error {
	if s.cfg.Path == "" {
		return ErrNoPort
	}

	for _, sink := range s.cfg.Sinks {
		if p, ok := sink.(pathed); ok && p.Path() != "" {
			s.Status("Logging to file: " + p.Path())
		}
	}

	port, err := s.cfg.Factory(s.cfg.Path, serialport.DisplayMode())
	if err != nil {
		s.Status(fmt.Sprintf("Connection error: %v", err))
		return &ReadError{Op: "open", Port: s.cfg.Path, Err: err}
	}
	defer func() {
		if err := port.Close(); err != nil {
			s.logger.Warn().Err(err).Msg("failed to close port")
		}
		s.Status("Disconnected")
		s.logger.Info().Msg("sniffer stopped")
	}()

	if err := port.SetReadTimeout(s.cfg.ReadTimeout); err != nil {
		s.Status(fmt.Sprintf("Connection error: %v", err))
		return &ReadError{Op: "configure", Port: s.cfg.Path, Err: err}
	}
	// Read-only listener: keep the modem lines low.
	if err := port.SetDTR(false); err != nil {
		s.logger.Debug().Err(err).Msg("failed to lower DTR")
	}
	if err := port.SetRTS(false); err != nil {
		s.logger.Debug().Err(err).Msg("failed to lower RTS")
	}

	s.Status("Connected to " + s.cfg.Path)
	s.logger.Info().Msgf("sniffing %s (%d 8N1, read only)", s.cfg.Path, serialport.BaudRate)

	buf := make([]byte, s.cfg.ChunkSize)
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		n, err := port.Read(buf)
		if err != nil {
			s.Status(fmt.Sprintf("Read error: %v", err))
			return &ReadError{Op: "read", Port: s.cfg.Path, Err: err}
		}
		if n > 0 {
			s.emit(Decode(buf[:n], s.Options(), s.clock.Now()))
		}

		select {
		case <-ctx.Done():
			return nil
		case <-s.clock.After(s.cfg.PollInterval):
		}
	}
}

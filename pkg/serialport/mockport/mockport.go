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

// Package mockport provides an in-memory serialport.Port for tests.
package mockport

import (
	"bytes"
	"errors"
	"time"

	"github.com/ZaparooProject/gazctl/pkg/helpers/syncutil"
	"github.com/ZaparooProject/gazctl/pkg/serialport"
	"go.bug.st/serial"
)

// ErrClosed is returned by operations on a closed mock port.
var ErrClosed = errors.New("port closed")

// Port is a mock serial port. Reads return the queued Chunks one per call,
// then (0, nil) after a short delay, like a serial read timing out.
// Writes are recorded in order.
type Port struct {
	ReadError    error
	WriteError   error
	CloseError   error
	TimeoutError error
	// WriteErrors, when set, supplies the error for each successive write.
	WriteErrors []error
	ReadFunc    func(p []byte) (n int, err error)
	Chunks      [][]byte
	writes      [][]byte
	ReadTimeout time.Duration
	IdleDelay   time.Duration
	mu          syncutil.Mutex
	writeIndex  int
	Closed      bool
	DTR         bool
	RTS         bool
	Drained     int
}

var _ serialport.Port = (*Port)(nil)

// New returns a mock port with DTR and RTS asserted, as a freshly opened
// port would have them.
func New() *Port {
	return &Port{DTR: true, RTS: true, IdleDelay: 5 * time.Millisecond}
}

// Factory returns a serialport.Factory that always hands out p and records
// the requested path and mode.
func (p *Port) Factory(gotPath *string, gotMode **serial.Mode) serialport.Factory {
	return func(path string, mode *serial.Mode) (serialport.Port, error) {
		if gotPath != nil {
			*gotPath = path
		}
		if gotMode != nil {
			*gotMode = mode
		}
		return p, nil
	}
}

// FailingFactory returns a factory that always fails with err.
func FailingFactory(err error) serialport.Factory {
	return func(string, *serial.Mode) (serialport.Port, error) {
		return nil, err
	}
}

func (p *Port) Read(b []byte) (int, error) {
	p.mu.Lock()
	if p.Closed {
		p.mu.Unlock()
		return 0, ErrClosed
	}
	if p.ReadFunc != nil {
		fn := p.ReadFunc
		p.mu.Unlock()
		return fn(b)
	}
	if len(p.Chunks) > 0 {
		chunk := p.Chunks[0]
		n := copy(b, chunk)
		if n < len(chunk) {
			p.Chunks[0] = chunk[n:]
		} else {
			p.Chunks = p.Chunks[1:]
		}
		p.mu.Unlock()
		return n, nil
	}
	readErr := p.ReadError
	idle := p.IdleDelay
	p.mu.Unlock()

	if readErr != nil {
		return 0, readErr
	}
	time.Sleep(idle)
	return 0, nil
}

func (p *Port) Write(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Closed {
		return 0, ErrClosed
	}

	err := p.WriteError
	if p.writeIndex < len(p.WriteErrors) {
		err = p.WriteErrors[p.writeIndex]
	}
	p.writeIndex++
	if err != nil {
		return 0, err
	}

	p.writes = append(p.writes, bytes.Clone(b))
	return len(b), nil
}

func (p *Port) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Closed = true
	return p.CloseError
}

func (p *Port) SetReadTimeout(t time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ReadTimeout = t
	return p.TimeoutError
}

func (p *Port) Drain() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Drained++
	return nil
}

func (p *Port) SetDTR(dtr bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.DTR = dtr
	return nil
}

func (p *Port) SetRTS(rts bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.RTS = rts
	return nil
}

// Writes returns a copy of every successful write in order.
func (p *Port) Writes() [][]byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([][]byte, len(p.writes))
	copy(out, p.writes)
	return out
}

// IsClosed reports whether Close was called.
func (p *Port) IsClosed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.Closed
}

// Lines reports the DTR and RTS states.
func (p *Port) Lines() (dtr, rts bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.DTR, p.RTS
}

// Enqueue appends chunks to be returned by later reads.
func (p *Port) Enqueue(chunks ...[]byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Chunks = append(p.Chunks, chunks...)
}

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
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/ZaparooProject/gazctl/pkg/helpers/syncutil"
	"github.com/gocarina/gocsv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// Sink receives every rendered chunk and status message.
type Sink interface {
	WriteChunk(c Chunk) error
	WriteStatus(at time.Time, msg string) error
	Close() error
}

// LineSink writes one log line per chunk or status message.
type LineSink struct {
	w      io.Writer
	closer io.Closer
	path   string
	mu     syncutil.Mutex
}

// NewLineSink writes lines to w. It does not close w.
func NewLineSink(w io.Writer) *LineSink {
	return &LineSink{w: w}
}

// OpenFileSink appends lines to the file at path, creating it if needed.
// Existing content is kept.
func OpenFileSink(fs afero.Fs, path string) (*LineSink, error) {
	f, err := fs.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", path, err)
	}
	return &LineSink{w: f, closer: f, path: path}, nil
}

// Path is the file path, or empty for writer sinks.
func (s *LineSink) Path() string {
	return s.path
}

func (s *LineSink) writeLine(line string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.w == nil {
		return os.ErrClosed
	}
	_, err := io.WriteString(s.w, line+"\n")
	if err != nil {
		return fmt.Errorf("failed to write log line: %w", err)
	}
	return nil
}

func (s *LineSink) WriteChunk(c Chunk) error {
	return s.writeLine(c.Line())
}

func (s *LineSink) WriteStatus(at time.Time, msg string) error {
	return s.writeLine(FormatLine(at, msg))
}

func (s *LineSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.w = nil
	if s.closer == nil {
		return nil
	}
	err := s.closer.Close()
	s.closer = nil
	if err != nil {
		return fmt.Errorf("failed to close log file: %w", err)
	}
	return nil
}

// CaptureRow is one chunk in a CSV capture. Both views are always stored
// regardless of the display options.
type CaptureRow struct {
	Timestamp string `csv:"timestamp"`
	Length    int    `csv:"length"`
	Hex       string `csv:"hex"`
	ASCII     string `csv:"ascii"`
}

// CSVSink appends chunks to a CSV capture file. Status messages are not
// recorded.
type CSVSink struct {
	f    afero.File
	path string
	mu   syncutil.Mutex
}

// OpenCSVSink appends to the capture at path, writing the header when the
// file is new or empty.
func OpenCSVSink(fs afero.Fs, path string) (*CSVSink, error) {
	f, err := fs.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open capture file %s: %w", path, err)
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to stat capture file %s: %w", path, err)
	}
	if info.Size() == 0 {
		if err := gocsv.Marshal(&[]CaptureRow{}, f); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("failed to write capture header: %w", err)
		}
	}

	return &CSVSink{f: f, path: path}, nil
}

// Path is the capture file path.
func (s *CSVSink) Path() string {
	return s.path
}

func (s *CSVSink) WriteChunk(c Chunk) error {
	row := CaptureRow{
		Timestamp: FormatTimestamp(c.CapturedAt),
		Length:    len(c.Raw),
		Hex:       Decode(c.Raw, Options{Hex: true}, c.CapturedAt).Hex,
		ASCII:     RenderASCII(c.Raw),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.f == nil {
		return os.ErrClosed
	}
	if err := gocsv.MarshalWithoutHeaders(&[]CaptureRow{row}, s.f); err != nil {
		return fmt.Errorf("failed to write capture row: %w", err)
	}
	return nil
}

func (*CSVSink) WriteStatus(time.Time, string) error {
	return nil
}

func (s *CSVSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.f == nil {
		return nil
	}
	err := s.f.Close()
	s.f = nil
	if err != nil {
		return fmt.Errorf("failed to close capture file: %w", err)
	}
	return nil
}

// ReadCapture loads every row of a CSV capture.
func ReadCapture(fs afero.Fs, path string) ([]CaptureRow, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open capture file %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	var rows []CaptureRow
	if err := gocsv.Unmarshal(f, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse capture file %s: %w", path, err)
	}
	return rows, nil
}

// Replay renders the rows of a capture as log lines with opts. Rows whose
// hex column cannot be parsed are returned as an error.
func Replay(rows []CaptureRow, opts Options) ([]string, error) {
	lines := make([]string, 0, len(rows))
	for i, row := range rows {
		ts, err := time.ParseInLocation(TimestampLayout, row.Timestamp, time.Local)
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid timestamp %q: %w", i+1, row.Timestamp, err)
		}
		data, err := parseHex(row.Hex)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		lines = append(lines, Decode(data, opts, ts).Line())
	}
	return lines, nil
}

func parseHex(s string) ([]byte, error) {
	data, err := hex.DecodeString(strings.ReplaceAll(s, " ", ""))
	if err != nil {
		return nil, fmt.Errorf("invalid hex %q: %w", s, err)
	}
	return data, nil
}

// OpenFileSinks opens the optional text log and CSV capture. Empty paths
// are skipped. On error every sink opened so far is closed.
func OpenFileSinks(fs afero.Fs, logFile, csvFile string) ([]Sink, error) {
	var sinks []Sink
	if logFile != "" {
		s, err := OpenFileSink(fs, logFile)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, s)
	}
	if csvFile != "" {
		s, err := OpenCSVSink(fs, csvFile)
		if err != nil {
			CloseSinks(sinks)
			return nil, err
		}
		sinks = append(sinks, s)
	}
	return sinks, nil
}

// CloseSinks closes every sink, logging failures.
func CloseSinks(sinks []Sink) {
	for _, s := range sinks {
		if err := s.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close sniffer sink")
		}
	}
}

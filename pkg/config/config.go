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

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ZaparooProject/gazctl/pkg/helpers/syncutil"
	"github.com/adrg/xdg"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

const (
	SchemaVersion = 1
	AppName       = "gazctl"
	CfgEnv        = "GAZCTL_CFG"
	CfgFile       = "config.toml"
)

// AppVersion is set at build time.
var AppVersion = "DEVELOPMENT"

var ErrSchemaMismatch = errors.New("schema version mismatch")

type Values struct {
	Serial       Serial    `toml:"serial"`
	Telemetry    Telemetry `toml:"telemetry"`
	TUI          TUI       `toml:"tui"`
	Sniffer      Sniffer   `toml:"sniffer"`
	ConfigSchema int       `toml:"config_schema"`
	DebugLogging bool      `toml:"debug_logging"`
}

type Serial struct {
	Port              string `toml:"port,omitempty"`
	InterFrameDelayMs int    `toml:"inter_frame_delay_ms" validate:"gte=0,lte=5000"`
}

type Sniffer struct {
	// Port defaults to the serial port when empty.
	Port           string `toml:"port,omitempty"`
	LogFile        string `toml:"log_file,omitempty"`
	CSVFile        string `toml:"csv_file,omitempty"`
	ReadTimeoutMs  int    `toml:"read_timeout_ms" validate:"gte=1,lte=10000"`
	PollIntervalMs int    `toml:"poll_interval_ms" validate:"gte=1,lte=10000"`
	ChunkSize      int    `toml:"chunk_size" validate:"gte=1,lte=65536"`
	Hex            bool   `toml:"hex"`
	ASCII          bool   `toml:"ascii"`
}

type Telemetry struct {
	DSN            string `toml:"dsn,omitempty" validate:"omitempty,url"`
	ErrorReporting bool   `toml:"error_reporting"`
}

// TUI holds the terminal UI preferences.
type TUI struct {
	Theme string `toml:"theme" validate:"oneof=default high_contrast"`
	Mouse bool   `toml:"mouse"`
}

var BaseDefaults = Values{
	ConfigSchema: SchemaVersion,
	Serial: Serial{
		InterFrameDelayMs: 80,
	},
	Sniffer: Sniffer{
		Hex:            true,
		ASCII:          true,
		ReadTimeoutMs:  100,
		PollIntervalMs: 50,
		ChunkSize:      256,
	},
	TUI: TUI{
		Theme: "default",
		Mouse: true,
	},
}

// Instance holds the loaded configuration. The file is only ever read;
// setters change the in-memory values for the current run and are
// re-applied on top of every reload.
type Instance struct {
	fs        afero.Fs
	cfgPath   string
	overrides []func(v *Values)
	vals      Values
	defaults  Values
	loaded    bool
	mu        syncutil.RWMutex
}

// DefaultPath returns the config path from CfgEnv, or the XDG config
// location.
func DefaultPath() string {
	if p := os.Getenv(CfgEnv); p != "" {
		return p
	}
	return filepath.Join(xdg.ConfigHome, AppName, CfgFile)
}

// NewConfig loads cfgPath (DefaultPath when empty) from fs on top of
// defaults. A missing file is not an error.
//
//nolint:gocritic // config struct copied for immutability
func NewConfig(fs afero.Fs, cfgPath string, defaults Values) (*Instance, error) {
	if cfgPath == "" {
		cfgPath = DefaultPath()
	}
	log.Debug().Msgf("config path: %s", cfgPath)

	cfg := &Instance{
		fs:       fs,
		cfgPath:  cfgPath,
		vals:     defaults,
		defaults: defaults,
	}
	if err := cfg.Load(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Instance) Load() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cfgPath == "" {
		return errors.New("config path not set")
	}

	data, err := afero.ReadFile(c.fs, c.cfgPath)
	if errors.Is(err, os.ErrNotExist) {
		log.Info().Msgf("no config file at %s, using defaults", c.cfgPath)
		c.vals = c.defaults
		c.applyOverrides()
		c.loaded = false
		return nil
	} else if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	// Fields missing from the file keep their defaults.
	newVals := c.defaults
	if err := toml.Unmarshal(data, &newVals); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if newVals.ConfigSchema != SchemaVersion {
		log.Error().Msgf(
			"schema version mismatch: got %d, expecting %d",
			newVals.ConfigSchema,
			SchemaVersion,
		)
		return ErrSchemaMismatch
	}

	if err := Validate(&newVals); err != nil {
		return err
	}

	c.vals = newVals
	c.applyOverrides()
	c.loaded = true
	log.Info().Msgf("loaded config from %s", c.cfgPath)
	return nil
}

func (c *Instance) applyOverrides() {
	for _, fn := range c.overrides {
		fn(&c.vals)
	}
}

// override applies fn now and after every reload. Callers hold c.mu.
func (c *Instance) override(fn func(v *Values)) {
	c.overrides = append(c.overrides, fn)
	fn(&c.vals)
}

// Path is the config file location, whether or not it exists.
func (c *Instance) Path() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cfgPath
}

// Loaded reports whether values came from a file rather than defaults.
func (c *Instance) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

func (c *Instance) DebugLogging() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.DebugLogging
}

func (c *Instance) SetDebugLogging(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.override(func(v *Values) { v.DebugLogging = enabled })
	if enabled {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

func (c *Instance) SerialPort() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Serial.Port
}

func (c *Instance) SetSerialPort(port string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.override(func(v *Values) { v.Serial.Port = port })
}

func (c *Instance) InterFrameDelay() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return time.Duration(c.vals.Serial.InterFrameDelayMs) * time.Millisecond
}

// SnifferSettings returns a copy of the sniffer section.
func (c *Instance) SnifferSettings() Sniffer {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Sniffer
}

// SnifferPort is the port to listen on, falling back to the display port.
func (c *Instance) SnifferPort() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Sniffer.Port != "" {
		return c.vals.Sniffer.Port
	}
	return c.vals.Serial.Port
}

func (c *Instance) SetSnifferPort(port string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.override(func(v *Values) { v.Sniffer.Port = port })
}

func (c *Instance) SetSnifferViews(hex, ascii bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.override(func(v *Values) {
		v.Sniffer.Hex = hex
		v.Sniffer.ASCII = ascii
	})
}

func (c *Instance) SetSnifferLogFile(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.override(func(v *Values) { v.Sniffer.LogFile = path })
}

func (c *Instance) SetSnifferCSVFile(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.override(func(v *Values) { v.Sniffer.CSVFile = path })
}

func (s Sniffer) ReadTimeout() time.Duration {
	return time.Duration(s.ReadTimeoutMs) * time.Millisecond
}

func (s Sniffer) PollInterval() time.Duration {
	return time.Duration(s.PollIntervalMs) * time.Millisecond
}

// ErrorReporting reports whether crash reports may be sent. It requires
// both the opt-in and a DSN.
func (c *Instance) ErrorReporting() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Telemetry.ErrorReporting && c.vals.Telemetry.DSN != ""
}

func (c *Instance) TelemetryDSN() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Telemetry.DSN
}

func (c *Instance) TUITheme() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.TUI.Theme
}

func (c *Instance) TUIMouse() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.TUI.Mouse
}

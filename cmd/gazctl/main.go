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

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/ZaparooProject/gazctl/internal/telemetry"
	"github.com/ZaparooProject/gazctl/pkg/cli"
	"github.com/ZaparooProject/gazctl/pkg/config"
	"github.com/ZaparooProject/gazctl/pkg/helpers"
	"github.com/ZaparooProject/gazctl/pkg/serialport"
	"github.com/ZaparooProject/gazctl/pkg/transmitter"
	"github.com/ZaparooProject/gazctl/pkg/ui/tui"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

func main() {
	if err := run(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func run() error {
	flags := cli.SetupFlags(flag.CommandLine)
	if err := flags.Parse(os.Args[1:]); err != nil {
		return err
	}

	exit, err := flags.Pre(os.Stdout, config.AppVersion, serialport.List)
	if exit || err != nil {
		return err
	}

	cmd, err := flags.Command()
	if err != nil {
		return err
	}

	var logWriters []io.Writer
	if cmd != cli.CommandTUI {
		logWriters = []io.Writer{os.Stderr}
	}
	if err := helpers.InitLogging(helpers.DataDir(), *flags.Debug, logWriters); err != nil {
		return fmt.Errorf("error initializing logging: %w", err)
	}

	cfg, err := config.NewConfig(afero.NewOsFs(), *flags.Config, config.BaseDefaults)
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}
	flags.Apply(cfg)
	if cfg.DebugLogging() {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	if err := telemetry.Init(telemetry.Options{
		Enabled:    cfg.ErrorReporting(),
		DSN:        cfg.TelemetryDSN(),
		AppVersion: config.AppVersion,
		SessionID:  uuid.NewString(),
	}); err != nil {
		log.Warn().Err(err).Msg("failed to initialize error reporting")
	}
	defer telemetry.Close()

	defer func() {
		if err := recover(); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "Panic: %s\n", err)
			log.Fatal().Msgf("panic: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().Str("version", config.AppVersion).Str("config", cfg.Path()).Msg("gazctl started")
	if !cfg.Loaded() {
		log.Info().Msgf("no config file at %s, using defaults", cfg.Path())
	}

	if cmd != cli.CommandTUI {
		return flags.Run(ctx, cmd, cfg, cli.Env{})
	}
	return runTUI(ctx, cfg)
}

func runTUI(ctx context.Context, cfg *config.Instance) error {
	opts := tui.Options{
		Config:      cfg,
		Version:     config.AppVersion,
		WatchConfig: true,
	}

	if port := cfg.SerialPort(); port != "" {
		session, err := transmitter.Open(port, transmitter.Options{
			InterFrameDelay: cfg.InterFrameDelay(),
		})
		if err != nil {
			log.Error().Err(err).Msg("error opening display port")
			return fmt.Errorf("error opening display port: %w", err)
		}
		defer func() {
			if err := session.Close(); err != nil {
				log.Warn().Err(err).Msg("error closing display port")
			}
		}()
		opts.Sender = session
	}

	if err := tui.NewApp(ctx, opts).Run(ctx); err != nil {
		log.Error().Err(err).Msg("error running UI")
		return fmt.Errorf("error running UI: %w", err)
	}
	return nil
}

// GameWarden
// Copyright (c) 2026 The GameWarden Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of GameWarden.
//
// GameWarden is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// GameWarden is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with GameWarden.  If not, see <http://www.gnu.org/licenses/>.

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/GameWardenProject/gamewarden/pkg/config"
	"github.com/GameWardenProject/gamewarden/pkg/database/statsdb"
	"github.com/GameWardenProject/gamewarden/pkg/helpers"
	"github.com/GameWardenProject/gamewarden/pkg/notifications"
	"github.com/GameWardenProject/gamewarden/pkg/service"
	"github.com/GameWardenProject/gamewarden/pkg/tamper"
	"github.com/GameWardenProject/gamewarden/pkg/tracker"
	"github.com/GameWardenProject/gamewarden/pkg/tracker/locator"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

const appVersion = "1.0.0"

// calibrationSamples is the number of probe runs used to build the
// execution-timing baseline at startup.
const calibrationSamples = 32

type flags struct {
	SessionDuration  *string
	ConfigPath       *string
	DataDir          *string
	ScanInterval     *int
	WarningThreshold *float64
	Warn             *bool
	MonitorOnly      *bool
	RampageMode      *bool
	RearmWarnDaily   *bool
	Version          *bool
}

// setupFlags defines the CLI surface.
func setupFlags() *flags {
	return &flags{
		SessionDuration: flag.String(
			"session-duration",
			"",
			"daily play-time budget (\"1h 30m 10s\" or \"01:30:10\")",
		),
		ConfigPath: flag.String(
			"config",
			"",
			"path to the config file (default: XDG config dir)",
		),
		DataDir: flag.String(
			"db",
			"",
			"directory for the statistics database and log file (default: XDG data dir)",
		),
		ScanInterval: flag.Int(
			"scan-interval",
			15,
			"seconds between process scans",
		),
		Warn: flag.Bool(
			"warn",
			false,
			"send a warning notification when the session nears its end",
		),
		WarningThreshold: flag.Float64(
			"warning-threshold",
			90.0,
			"percentage of session played before warning (0-100)",
		),
		MonitorOnly: flag.Bool(
			"monitor-only",
			false,
			"track play time without killing games",
		),
		RampageMode: flag.Bool(
			"rampage-mode",
			false,
			"kill all tracked games every tick once tampering is detected",
		),
		RearmWarnDaily: flag.Bool(
			"rearm-warning-daily",
			false,
			"allow the near-end warning to fire again after day rollover",
		),
		Version: flag.Bool(
			"version",
			false,
			"print version and exit",
		),
	}
}

func main() {
	if err := run(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

//nolint:gocyclo // top-level wiring is long but linear
func run() error {
	fl := setupFlags()
	flag.Parse()

	if *fl.Version {
		fmt.Println("GameWarden v" + appVersion)
		return nil
	}

	dataDir := helpers.DataDir()
	if *fl.DataDir != "" {
		dataDir = *fl.DataDir
	}

	if err := helpers.InitLogging(dataDir, []io.Writer{os.Stderr}); err != nil {
		return fmt.Errorf("init logging: %w", err)
	}

	if *fl.ConfigPath != "" {
		// NewConfig honors the env override for the full file path.
		if err := os.Setenv(config.CfgEnv, *fl.ConfigPath); err != nil {
			return fmt.Errorf("set config path: %w", err)
		}
	}

	var cfg *config.Instance
	err := tamper.WithTimingGuard("config load", 0, func() error {
		var cfgErr error
		cfg, cfgErr = config.NewConfig(helpers.ConfigDir(), config.BaseDefaults)
		return cfgErr
	})
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if cfg.DebugLogging() {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	if *fl.ScanInterval < 1 {
		return fmt.Errorf("scan interval must be at least 1 second, got %d", *fl.ScanInterval)
	}
	if *fl.WarningThreshold < 0 || *fl.WarningThreshold > 100 {
		return fmt.Errorf("%w: got %v", service.ErrInvalidThreshold, *fl.WarningThreshold)
	}

	// Startup parse/validation failures are fatal before the loop starts.
	var budget time.Duration
	if *fl.SessionDuration != "" {
		budget, err = helpers.ParseDurationSpec(*fl.SessionDuration)
		if err != nil {
			return err
		}
		log.Info().
			Str("budget", helpers.FormatDuration(budget)).
			Msg("session duration enabled")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		log.Warn().Err(err).Msg("could not resolve home directory")
		home = ""
	}

	clock := clockwork.NewRealClock()
	registry := locator.Resolve(afero.NewOsFs(), home, cfg)
	log.Info().Int("games", registry.GameCount()).Msg("game registry resolved")

	tr := tracker.New(registry, tracker.NewSystemEnumerator(clock), tracker.SystemKiller{})

	var notifier notifications.Notifier
	notifier, err = notifications.NewDBusNotifier()
	if err != nil {
		log.Warn().Err(err).Msg("desktop notifications unavailable, logging instead")
		notifier = notifications.LogNotifier{}
	}

	guard := tamper.Calibrate(calibrationSamples)
	log.Debug().Dur("baseline", guard.Baseline()).Msg("timing guard calibrated")

	sched := service.NewScheduler(time.Duration(*fl.ScanInterval)*time.Second, tr, clock)
	sched.SetTimingGuard(guard)
	sched.Add(service.NewGamesLogger())

	if *fl.SessionDuration != "" {
		session, sessErr := tracker.NewSession(budget, clock)
		if sessErr != nil {
			return sessErr
		}
		tr.SetSession(session)

		if !*fl.MonitorOnly {
			sched.Add(service.NewSessionEndKiller(notifier))
		}

		if *fl.Warn {
			warner, warnErr := service.NewWarnNearEnd(
				notifier, *fl.WarningThreshold, budget, *fl.RearmWarnDaily)
			if warnErr != nil {
				return warnErr
			}
			log.Info().
				Float64("threshold", *fl.WarningThreshold).
				Str("warnAfter", helpers.FormatDuration(warner.WarnAfter())).
				Msg("near-end warning enabled")
			sched.Add(warner)
		}
	}

	sched.Add(service.NewClockTamperCheck())
	sched.Add(service.NewExecTamperCheck(guard))

	db, err := statsdb.Open(context.Background(), dataDir)
	if err != nil {
		log.Warn().Err(err).Msg("will not save statistics to database")
	} else {
		defer func() {
			if closeErr := db.Close(); closeErr != nil {
				log.Warn().Err(closeErr).Msg("failed to close statistics database")
			}
		}()

		if played, dbErr := db.TimePlayedOn(clock.Now()); dbErr == nil {
			log.Info().
				Str("played", helpers.FormatDuration(played)).
				Msg("time already played today")
		}

		sched.Add(service.NewPersister(db))
	}

	return superviseLoop(sched, *fl.RampageMode)
}

// superviseLoop restarts the scheduler on tamper detections, arming rampage
// mode on the first one when requested. Any other error is fatal.
func superviseLoop(sched *service.Scheduler, rampageMode bool) error {
	rampageArmed := false

	for {
		err := sched.Start()

		switch {
		case errors.Is(err, tamper.ErrClockTamper):
			log.Warn().Err(err).Msg(
				"clock tampering detected - someone changed the local time, restarting scheduler")
		case errors.Is(err, tamper.ErrExecutionTamper):
			log.Warn().Err(err).Msg(
				"execution tampering detected - monitoring loop was stalled, restarting scheduler")
		default:
			return err
		}

		if rampageMode && !rampageArmed {
			rampageArmed = true
			sched.Add(service.NewRampageMode())
			log.Warn().Msg("rampage mode armed: tracked games will be killed every tick")
		}
	}
}

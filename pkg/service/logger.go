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

package service

import (
	"time"

	"github.com/GameWardenProject/gamewarden/pkg/helpers"
	"github.com/GameWardenProject/gamewarden/pkg/tracker"
	"github.com/rs/zerolog/log"
)

// GamesLogger logs every tracked game and its cumulative run time once per
// tick. It never fails.
type GamesLogger struct{}

// NewGamesLogger creates the logging subtask.
func NewGamesLogger() *GamesLogger {
	return &GamesLogger{}
}

// Execute implements Subtask.
func (*GamesLogger) Execute(tr *tracker.Tracker) error {
	tracked := tr.Tracked()
	if len(tracked) == 0 {
		log.Info().Msg("logger: no games have been found yet")
		return nil
	}

	for _, tg := range tracked {
		runTime := time.Duration(tg.Process.RunTime) * time.Second
		log.Info().
			Int32("pid", tg.Process.PID).
			Str("game", tg.Game).
			Str("runTime", helpers.FormatDuration(runTime)).
			Msg("logger: game running")
	}

	log.Info().
		Str("total", helpers.FormatDuration(tr.TotalTimePlayed())).
		Msg("logger: total time played")
	return nil
}

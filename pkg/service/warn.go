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
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/GameWardenProject/gamewarden/pkg/helpers"
	"github.com/GameWardenProject/gamewarden/pkg/notifications"
	"github.com/GameWardenProject/gamewarden/pkg/tracker"
	"github.com/rs/zerolog/log"
)

// ErrInvalidThreshold is returned when a warning threshold falls outside
// the [0, 100] percentage range.
var ErrInvalidThreshold = errors.New("threshold value must be between 0 and 100")

// WarnNearEnd sends exactly one notification the first time total play time
// reaches the configured percentage of the session budget.
//
// The warned latch resets when the session becomes absent. By default a day
// rollover does NOT re-arm it (the session stays present throughout); set
// rearmDaily to warn once per day instead.
type WarnNearEnd struct {
	notifier   notifications.Notifier
	lastStart  time.Time
	threshold  float64
	warnAfter  time.Duration
	warned     bool
	rearmDaily bool
}

// NewWarnNearEnd creates the warning subtask. threshold is a percentage of
// the session budget in [0, 100].
func NewWarnNearEnd(
	notifier notifications.Notifier,
	threshold float64,
	budget time.Duration,
	rearmDaily bool,
) (*WarnNearEnd, error) {
	if threshold < 0 || threshold > 100 {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidThreshold, threshold)
	}

	warnAfterSeconds := math.Floor(threshold / 100 * budget.Seconds())
	return &WarnNearEnd{
		notifier:   notifier,
		threshold:  threshold,
		warnAfter:  time.Duration(warnAfterSeconds) * time.Second,
		rearmDaily: rearmDaily,
	}, nil
}

// WarnAfter returns the play time at which the warning fires.
func (w *WarnNearEnd) WarnAfter() time.Duration {
	return w.warnAfter
}

// Execute implements Subtask.
func (w *WarnNearEnd) Execute(tr *tracker.Tracker) error {
	session := tr.Session()
	if session == nil {
		w.warned = false
		return nil
	}

	if w.rearmDaily && !session.StartTime().Equal(w.lastStart) {
		w.lastStart = session.StartTime()
		w.warned = false
	}

	if w.warned || session.Ended() {
		return nil
	}

	played := tr.TotalTimePlayed()
	if played < w.warnAfter {
		return nil
	}

	w.warned = true
	log.Info().
		Float64("threshold", w.threshold).
		Str("played", helpers.FormatDuration(played)).
		Msg("warn: warning threshold reached")

	body := fmt.Sprintf("%v%% of gaming session played (%s)",
		w.threshold, helpers.FormatDuration(w.warnAfter))
	if err := w.notifier.Notify("WARNING", body); err != nil {
		return fmt.Errorf("session warning notification: %w", err)
	}
	return nil
}

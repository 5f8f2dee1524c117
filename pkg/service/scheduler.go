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

// Package service runs the fixed-interval monitoring loop: refresh the
// tracker once per tick, then run every registered subtask in order
// against the shared tracker state.
package service

import (
	"time"

	"github.com/GameWardenProject/gamewarden/pkg/tamper"
	"github.com/GameWardenProject/gamewarden/pkg/tracker"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// Subtask is one independently pluggable behavior invoked once per tick
// with mutable access to the tracker state. A returned error aborts the
// remaining subtasks for that tick and surfaces from Scheduler.Start.
type Subtask interface {
	Execute(tr *tracker.Tracker) error
}

// Scheduler sequences the per-tick pipeline at a fixed interval.
type Scheduler struct {
	clock    clockwork.Clock
	tracker  *tracker.Tracker
	guard    *tamper.TimingGuard
	subtasks []Subtask
	interval time.Duration
}

// NewScheduler creates a scheduler ticking every interval.
func NewScheduler(interval time.Duration, tr *tracker.Tracker, clock clockwork.Clock) *Scheduler {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Scheduler{
		interval: interval,
		tracker:  tr,
		clock:    clock,
	}
}

// SetTimingGuard wraps the tracker refresh in an execution timing guard so
// a stalled refresh surfaces as an execution-tampering error.
func (s *Scheduler) SetTimingGuard(guard *tamper.TimingGuard) {
	s.guard = guard
}

// Add registers a subtask. Subtasks execute in registration order.
func (s *Scheduler) Add(st Subtask) *Scheduler {
	s.subtasks = append(s.subtasks, st)
	return s
}

// Tracker returns the shared tracker state.
func (s *Scheduler) Tracker() *tracker.Tracker {
	return s.tracker
}

// Tick runs one refresh-then-subtasks iteration.
func (s *Scheduler) Tick() error {
	refresh := s.tracker.Refresh
	if s.guard != nil {
		refresh = func() error {
			return tamper.WithTimingGuard("tracker refresh", tamper.DefaultGuardThreshold, s.tracker.Refresh)
		}
	}

	if err := refresh(); err != nil {
		return err
	}

	for _, st := range s.subtasks {
		if err := st.Execute(s.tracker); err != nil {
			return err
		}
	}
	return nil
}

// Start runs ticks forever, sleeping out the remainder of the interval
// after each one. It returns only when a tick fails; the caller decides
// whether to restart the loop or exit.
func (s *Scheduler) Start() error {
	log.Info().
		Dur("interval", s.interval).
		Int("subtasks", len(s.subtasks)).
		Msg("scheduler: monitoring loop started")

	for {
		start := s.clock.Now()

		if err := s.Tick(); err != nil {
			return err
		}

		if remainder := s.interval - s.clock.Since(start); remainder > 0 {
			s.clock.Sleep(remainder)
		}
	}
}

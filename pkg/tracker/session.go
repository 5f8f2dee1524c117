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

package tracker

import (
	"errors"
	"time"

	"github.com/jonboulle/clockwork"
)

// ErrCalculateEndOfDay is returned when no valid midnight strictly after
// the session start can be computed.
var ErrCalculateEndOfDay = errors.New("could not calculate when tomorrow is")

// Session is the daily play-time budget tracker. It is created once at
// startup when a budget is configured and lives until process exit,
// restarting itself on day rollover.
type Session struct {
	clock     clockwork.Clock
	startTime time.Time
	endOfDay  time.Time
	budget    time.Duration
	ended     bool
}

// NewSession creates a session starting now with the given budget.
func NewSession(budget time.Duration, clock clockwork.Clock) (*Session, error) {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	s := &Session{clock: clock, budget: budget}
	if err := s.Restart(); err != nil {
		return nil, err
	}
	return s, nil
}

// calculateEndOfDay returns the midnight strictly after day.
func calculateEndOfDay(day time.Time) (time.Time, error) {
	next := day.AddDate(0, 0, 1)
	midnight := time.Date(next.Year(), next.Month(), next.Day(), 0, 0, 0, 0, day.Location())
	if !midnight.After(day) {
		return time.Time{}, ErrCalculateEndOfDay
	}
	return midnight, nil
}

// Restart resets the session for a new day: new start time, new end-of-day
// instant, ended flag cleared.
func (s *Session) Restart() error {
	start := s.clock.Now()
	endOfDay, err := calculateEndOfDay(start)
	if err != nil {
		return err
	}

	s.startTime = start
	s.endOfDay = endOfDay
	s.ended = false
	return nil
}

// DayEnded reports whether now is at or past the stored end-of-day instant.
func (s *Session) DayEnded() bool {
	return !s.clock.Now().Before(s.endOfDay)
}

// ShouldEnd reports whether the played duration has reached the budget.
func (s *Session) ShouldEnd(played time.Duration) bool {
	return played >= s.budget
}

// End marks the session ended. The flag is monotonic until Restart.
func (s *Session) End() {
	s.ended = true
}

// Ended reports whether the budget has been exhausted for the current day.
func (s *Session) Ended() bool {
	return s.ended
}

// StartTime returns when the current day's session began.
func (s *Session) StartTime() time.Time {
	return s.startTime
}

// EndOfDay returns the wall-clock instant the current day rolls over.
func (s *Session) EndOfDay() time.Time {
	return s.endOfDay
}

// Budget returns the configured daily play-time budget.
func (s *Session) Budget() time.Duration {
	return s.budget
}

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

// Package tamper holds heuristic detectors for attempts to defeat the
// play-time budget: setting the wall clock forward, or stalling the
// monitoring process itself. Neither is cryptographically rigorous; they
// catch casual tampering, not a determined attacker.
package tamper

import (
	"errors"
	"time"
)

// ErrClockTamper is returned when the wall clock has outrun the monotonic
// clock, indicating the local time was changed during the run.
var ErrClockTamper = errors.New("clock tampering detected")

// ClockDetector compares wall-clock elapsed time against monotonic elapsed
// time since a baseline captured at construction. It latches on first
// detection and is inert afterward; only a process restart re-arms it.
type ClockDetector struct {
	nowWall     func() time.Time
	elapsedMono func() time.Duration
	wallStart   time.Time
	detected    bool
}

// NewClockDetector captures the wall/monotonic baseline pair now.
func NewClockDetector() *ClockDetector {
	monoStart := time.Now()
	return newClockDetector(
		time.Now,
		func() time.Duration { return time.Since(monoStart) },
	)
}

func newClockDetector(nowWall func() time.Time, elapsedMono func() time.Duration) *ClockDetector {
	return &ClockDetector{
		nowWall: nowWall,
		// Round(0) strips the monotonic reading so Sub compares wall time.
		wallStart:   nowWall().Round(0),
		elapsedMono: elapsedMono,
	}
}

// Check returns ErrClockTamper the first time wall-clock elapsed time
// exceeds monotonic elapsed time, and nil forever after.
func (d *ClockDetector) Check() error {
	if d.detected {
		return nil
	}

	// Whole-second comparison tolerates scheduler jitter and NTP slew.
	wallSeconds := int64(d.nowWall().Round(0).Sub(d.wallStart).Seconds())
	monoSeconds := int64(d.elapsedMono().Seconds())

	if wallSeconds > monoSeconds {
		d.detected = true
		return ErrClockTamper
	}
	return nil
}

// Detected reports whether the latch has fired.
func (d *ClockDetector) Detected() bool {
	return d.detected
}

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
	"github.com/GameWardenProject/gamewarden/pkg/tamper"
	"github.com/GameWardenProject/gamewarden/pkg/tracker"
)

// ClockTamperCheck surfaces clock tampering from its detector once per
// process lifetime; the detector latches after the first report.
type ClockTamperCheck struct {
	detector *tamper.ClockDetector
}

// NewClockTamperCheck creates the subtask around a fresh detector baseline.
func NewClockTamperCheck() *ClockTamperCheck {
	return &ClockTamperCheck{detector: tamper.NewClockDetector()}
}

// Execute implements Subtask.
func (c *ClockTamperCheck) Execute(_ *tracker.Tracker) error {
	return c.detector.Check()
}

// ExecTamperCheck re-measures the fixed-cost probe every tick against the
// startup baseline.
type ExecTamperCheck struct {
	guard *tamper.TimingGuard
}

// NewExecTamperCheck creates the subtask around a calibrated guard.
func NewExecTamperCheck(guard *tamper.TimingGuard) *ExecTamperCheck {
	return &ExecTamperCheck{guard: guard}
}

// Execute implements Subtask.
func (e *ExecTamperCheck) Execute(_ *tracker.Tracker) error {
	return e.guard.Check()
}

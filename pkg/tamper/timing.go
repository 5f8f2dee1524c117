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

package tamper

import (
	"errors"
	"fmt"
	"hash/fnv"
	"time"
)

// ErrExecutionTamper is returned when a fixed-cost operation runs
// measurably slower than its startup baseline, hinting at a debugger or
// freeze-based attempt to stall the monitoring loop.
var ErrExecutionTamper = errors.New("execution tampering detected")

// DefaultGuardThreshold is the elapsed time after which a guarded
// operation is considered stalled, independent of the calibrated baseline.
const DefaultGuardThreshold = 1 * time.Second

// slackFactor scales the calibrated baseline before comparison. The probe
// is microseconds-scale; anything two orders of magnitude slower means the
// process was stopped mid-probe.
const slackFactor = 100

// probeSize is the input size of the fixed-cost probe operation.
const probeSize = 64 * 1024

// TimingGuard measures a fixed, side-effect-free micro-operation against a
// baseline computed once at startup.
type TimingGuard struct {
	baseline  time.Duration
	threshold time.Duration
}

// Calibrate samples the probe operation n times and derives the tamper
// threshold from the average elapsed time.
func Calibrate(samples int) *TimingGuard {
	if samples < 1 {
		samples = 1
	}

	var total time.Duration
	for range samples {
		start := time.Now()
		probe()
		total += time.Since(start)
	}

	baseline := total / time.Duration(samples)
	threshold := baseline * slackFactor
	if threshold < time.Millisecond {
		threshold = time.Millisecond
	}

	return &TimingGuard{baseline: baseline, threshold: threshold}
}

// Baseline returns the average probe duration measured at calibration.
func (g *TimingGuard) Baseline() time.Duration {
	return g.baseline
}

// Check re-measures the probe operation and returns ErrExecutionTamper if
// it exceeded the calibrated threshold.
func (g *TimingGuard) Check() error {
	start := time.Now()
	probe()
	elapsed := time.Since(start)

	if elapsed > g.threshold {
		return fmt.Errorf("%w: probe took %s against a %s threshold",
			ErrExecutionTamper, elapsed, g.threshold)
	}
	return nil
}

// probe is the fixed-cost operation: hashing a fixed-size buffer. It has no
// side effects and its cost does not depend on tracker state.
func probe() {
	h := fnv.New64a()
	var buf [256]byte
	for i := range buf {
		buf[i] = byte(i)
	}
	for range probeSize / len(buf) {
		_, _ = h.Write(buf[:])
	}
	_ = h.Sum64()
}

// WithTimingGuard runs op and converts an execution slower than threshold
// into ErrExecutionTamper, preserving op's own error otherwise.
func WithTimingGuard(name string, threshold time.Duration, op func() error) error {
	if threshold <= 0 {
		threshold = DefaultGuardThreshold
	}

	start := time.Now()
	err := op()
	elapsed := time.Since(start)

	if elapsed > threshold {
		return fmt.Errorf("%w: %s took %s against a %s threshold",
			ErrExecutionTamper, name, elapsed, threshold)
	}
	return err
}

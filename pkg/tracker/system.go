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
	"fmt"

	"github.com/GameWardenProject/gamewarden/pkg/tracker/proctree"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v4/process"
)

// SystemEnumerator captures process snapshots from the running OS.
type SystemEnumerator struct {
	clock clockwork.Clock
}

// NewSystemEnumerator creates an enumerator using the given clock to derive
// per-process run times from start times.
func NewSystemEnumerator(clock clockwork.Clock) *SystemEnumerator {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &SystemEnumerator{clock: clock}
}

// Snapshot lists every visible OS process. Processes that exit while being
// read are skipped, never an error.
func (e *SystemEnumerator) Snapshot() ([]proctree.Sample, error) {
	procs, err := process.Processes()
	if err != nil {
		return nil, fmt.Errorf("list processes: %w", err)
	}

	now := e.clock.Now().Unix()
	samples := make([]proctree.Sample, 0, len(procs))

	for _, p := range procs {
		name, err := p.Name()
		if err != nil {
			continue
		}
		createdMs, err := p.CreateTime()
		if err != nil {
			continue
		}

		// Cmdline and parent are best-effort: a kernel thread has neither.
		cmd, _ := p.CmdlineSlice()
		ppid, _ := p.Ppid()

		startTime := createdMs / 1000
		runTime := now - startTime
		if runTime < 0 {
			runTime = 0
		}

		samples = append(samples, proctree.Sample{
			Process: proctree.Process{
				PID:       p.Pid,
				Name:      name,
				Cmd:       cmd,
				RunTime:   runTime,
				StartTime: startTime,
			},
			PPID: ppid,
		})
	}

	return samples, nil
}

// SystemKiller terminates OS processes.
type SystemKiller struct{}

// Kill sends SIGTERM to the process. Kill is fire-and-forget: it does not
// wait for the process to exit, and a process that resists termination is
// simply seen and re-killed on the next tick. A process that is already
// gone counts as an accepted request.
func (SystemKiller) Kill(pid int32) (bool, error) {
	proc, err := process.NewProcess(pid)
	if err != nil {
		// Already gone.
		return true, nil
	}

	if err := proc.Terminate(); err != nil {
		log.Warn().Err(err).Int32("pid", pid).Msg("tracker: failed to terminate process")
		return false, fmt.Errorf("terminate process %d: %w", pid, err)
	}

	log.Debug().Int32("pid", pid).Msg("tracker: sent SIGTERM to process")
	return true, nil
}

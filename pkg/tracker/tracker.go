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

// Package tracker accumulates per-game play time across repeated process
// snapshots and maintains the optional daily budget session.
package tracker

import (
	"fmt"
	"sort"
	"time"

	"github.com/GameWardenProject/gamewarden/pkg/tracker/locator"
	"github.com/GameWardenProject/gamewarden/pkg/tracker/proctree"
	"github.com/rs/zerolog/log"
)

// Enumerator captures one snapshot of all OS processes.
type Enumerator interface {
	Snapshot() ([]proctree.Sample, error)
}

// Killer requests OS-level termination of a process. The bool result is
// true when the request was accepted, including when the process is already
// gone.
type Killer interface {
	Kill(pid int32) (bool, error)
}

// TrackedGame is one (game identifier, process) pair currently attributed
// play time.
type TrackedGame struct {
	Game    string
	Process proctree.Process
}

// Tracker is the shared per-tick state: the latest snapshot tree, the set
// of processes attributed to each game, and the optional budget session.
// All mutation happens synchronously inside one scheduler tick.
type Tracker struct {
	enum     Enumerator
	killer   Killer
	registry *locator.Registry
	snapshot *proctree.Tree
	games    map[string]map[proctree.Identity]proctree.Process
	session  *Session
}

// New creates a tracker over the given game registry and process
// capabilities.
func New(registry *locator.Registry, enum Enumerator, killer Killer) *Tracker {
	return &Tracker{
		enum:     enum,
		killer:   killer,
		registry: registry,
		snapshot: proctree.Build(nil),
		games:    make(map[string]map[proctree.Identity]proctree.Process),
	}
}

// SetSession attaches a daily budget session. Without one the tracker runs
// in monitor-only accounting mode.
func (t *Tracker) SetSession(s *Session) {
	t.session = s
}

// Session returns the attached budget session, or nil.
func (t *Tracker) Session() *Session {
	return t.session
}

// Refresh is the per-tick state transition: rebuild the snapshot tree,
// match games, refresh tracked run times, and advance the session state
// machine (day rollover, then budget-exceeded).
func (t *Tracker) Refresh() error {
	samples, err := t.enum.Snapshot()
	if err != nil {
		return fmt.Errorf("capture process snapshot: %w", err)
	}
	t.snapshot = proctree.Build(samples)

	for _, pid := range t.snapshot.RootPIDs() {
		game, proc, ok := t.registry.FindGame(t.snapshot.Subtree(pid))
		if !ok {
			continue
		}

		set := t.games[game]
		if set == nil {
			set = make(map[proctree.Identity]proctree.Process)
			t.games[game] = set
		}

		// Identity-keyed replace: a repeat sighting of the same logical
		// process overwrites the stale record, refreshing its run time
		// without double counting.
		set[proc.Identity()] = proc
	}

	if t.session == nil {
		return nil
	}

	if t.session.DayEnded() {
		log.Info().Msg("tracker: day rolled over, restarting gaming session")
		// The budget check waits until the next tick; run times carry
		// over across the rollover, and ending the fresh session in the
		// same breath as restarting it would defeat the reset.
		return t.session.Restart()
	}

	if !t.session.Ended() && t.TrackedCount() > 0 && t.session.ShouldEnd(t.TotalTimePlayed()) {
		log.Info().
			Dur("budget", t.session.Budget()).
			Dur("played", t.TotalTimePlayed()).
			Msg("tracker: daily play-time budget exhausted")
		t.session.End()
	}

	return nil
}

// TotalTimePlayed sums the latest observed run time of every tracked
// process across every game. It is recomputed fresh from the tracked sets
// each call, so a restarted game process naturally resets its contribution.
func (t *Tracker) TotalTimePlayed() time.Duration {
	var totalSeconds int64
	for _, set := range t.games {
		for _, proc := range set {
			totalSeconds += proc.RunTime
		}
	}
	return time.Duration(totalSeconds) * time.Second
}

// TrackedCount returns the number of (game, process) pairs being tracked.
func (t *Tracker) TrackedCount() int {
	n := 0
	for _, set := range t.games {
		n += len(set)
	}
	return n
}

// Tracked returns every tracked (game, process) pair, ordered by game name
// then PID for deterministic iteration by subtasks.
func (t *Tracker) Tracked() []TrackedGame {
	names := make([]string, 0, len(t.games))
	for name := range t.games {
		names = append(names, name)
	}
	sort.Strings(names)

	tracked := make([]TrackedGame, 0, t.TrackedCount())
	for _, name := range names {
		procs := make([]proctree.Process, 0, len(t.games[name]))
		for _, proc := range t.games[name] {
			procs = append(procs, proc)
		}
		sort.Slice(procs, func(i, j int) bool { return procs[i].PID < procs[j].PID })

		for _, proc := range procs {
			tracked = append(tracked, TrackedGame{Game: name, Process: proc})
		}
	}
	return tracked
}

// Snapshot returns the tree built by the most recent Refresh.
func (t *Tracker) Snapshot() *proctree.Tree {
	return t.snapshot
}

// Kill requests termination of a tracked game process.
func (t *Tracker) Kill(proc *proctree.Process) (bool, error) {
	return t.killer.Kill(proc.PID)
}

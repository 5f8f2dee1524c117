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

package service_test

import (
	"errors"
	"testing"
	"time"

	"github.com/GameWardenProject/gamewarden/pkg/database"
	"github.com/GameWardenProject/gamewarden/pkg/service"
	"github.com/GameWardenProject/gamewarden/pkg/tracker"
	"github.com/GameWardenProject/gamewarden/pkg/tracker/proctree"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionEndKillerIdleWithoutSession(t *testing.T) {
	t.Parallel()

	killer := &fakeKiller{}
	enum := &fakeEnumerator{samples: []proctree.Sample{gameSample(100, "factorio", 30)}}
	tr := newTestTracker(enum, killer)
	require.NoError(t, tr.Refresh())

	notifier := &fakeNotifier{}
	subtask := service.NewSessionEndKiller(notifier)

	require.NoError(t, subtask.Execute(tr))
	assert.Empty(t, notifier.notices)
	assert.Empty(t, killer.killed)
}

func TestSessionEndKillerKillsAllWhenEnded(t *testing.T) {
	t.Parallel()

	killer := &fakeKiller{}
	enum := &fakeEnumerator{samples: []proctree.Sample{
		gameSample(100, "factorio", 30),
		gameSample(200, "factorio", 10),
	}}
	tr := newTestTracker(enum, killer)

	clock := clockwork.NewFakeClockAt(time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC))
	session, err := tracker.NewSession(time.Hour, clock)
	require.NoError(t, err)
	tr.SetSession(session)
	require.NoError(t, tr.Refresh())
	session.End()

	notifier := &fakeNotifier{}
	subtask := service.NewSessionEndKiller(notifier)

	require.NoError(t, subtask.Execute(tr))
	require.Len(t, notifier.notices, 1)
	assert.Equal(t, []int32{100, 200}, killer.killed)
}

func TestSessionEndKillerPropagatesNotifyError(t *testing.T) {
	t.Parallel()

	killer := &fakeKiller{}
	tr := newTestTracker(&fakeEnumerator{}, killer)

	clock := clockwork.NewFakeClockAt(time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC))
	session, err := tracker.NewSession(time.Hour, clock)
	require.NoError(t, err)
	tr.SetSession(session)
	session.End()

	boom := errors.New("bus gone")
	subtask := service.NewSessionEndKiller(&fakeNotifier{err: boom})

	require.ErrorIs(t, subtask.Execute(tr), boom)
	assert.Empty(t, killer.killed)
}

func TestWarnNearEndThresholdValidation(t *testing.T) {
	t.Parallel()

	_, err := service.NewWarnNearEnd(&fakeNotifier{}, -1, time.Hour, false)
	require.ErrorIs(t, err, service.ErrInvalidThreshold)

	_, err = service.NewWarnNearEnd(&fakeNotifier{}, 100.5, time.Hour, false)
	require.ErrorIs(t, err, service.ErrInvalidThreshold)

	warner, err := service.NewWarnNearEnd(&fakeNotifier{}, 90, time.Hour, false)
	require.NoError(t, err)
	assert.Equal(t, 54*time.Minute, warner.WarnAfter())
}

func TestWarnNearEndFiresOnceAtThreshold(t *testing.T) {
	t.Parallel()

	enum := &fakeEnumerator{samples: []proctree.Sample{gameSample(100, "factorio", 4)}}
	tr := newTestTracker(enum, &fakeKiller{})

	clock := clockwork.NewFakeClockAt(time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC))
	session, err := tracker.NewSession(10*time.Second, clock)
	require.NoError(t, err)
	tr.SetSession(session)

	notifier := &fakeNotifier{}
	warner, err := service.NewWarnNearEnd(notifier, 50, 10*time.Second, false)
	require.NoError(t, err)

	// Below threshold (4s of a 5s warn point): silent.
	require.NoError(t, tr.Refresh())
	require.NoError(t, warner.Execute(tr))
	assert.Empty(t, notifier.notices)

	// At the threshold exactly: warn fires.
	enum.samples = []proctree.Sample{gameSample(100, "factorio", 5)}
	require.NoError(t, tr.Refresh())
	require.NoError(t, warner.Execute(tr))
	require.Len(t, notifier.notices, 1)
	assert.Contains(t, notifier.notices[0], "50% of gaming session played")

	// Past the threshold: already warned, stay silent.
	enum.samples = []proctree.Sample{gameSample(100, "factorio", 7)}
	require.NoError(t, tr.Refresh())
	require.NoError(t, warner.Execute(tr))
	assert.Len(t, notifier.notices, 1)
}

func TestWarnNearEndSilentAfterSessionEnd(t *testing.T) {
	t.Parallel()

	enum := &fakeEnumerator{samples: []proctree.Sample{gameSample(100, "factorio", 50)}}
	tr := newTestTracker(enum, &fakeKiller{})

	clock := clockwork.NewFakeClockAt(time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC))
	session, err := tracker.NewSession(10*time.Second, clock)
	require.NoError(t, err)
	tr.SetSession(session)
	require.NoError(t, tr.Refresh())
	require.True(t, session.Ended())

	notifier := &fakeNotifier{}
	warner, err := service.NewWarnNearEnd(notifier, 50, 10*time.Second, false)
	require.NoError(t, err)

	require.NoError(t, warner.Execute(tr))
	assert.Empty(t, notifier.notices, "no near-end warning after the session already ended")
}

func TestWarnNearEndRearmsDaily(t *testing.T) {
	t.Parallel()

	enum := &fakeEnumerator{samples: []proctree.Sample{gameSample(100, "factorio", 5)}}
	tr := newTestTracker(enum, &fakeKiller{})

	start := time.Date(2025, 6, 15, 23, 0, 0, 0, time.UTC)
	clock := clockwork.NewFakeClockAt(start)
	session, err := tracker.NewSession(time.Hour, clock)
	require.NoError(t, err)
	tr.SetSession(session)
	require.NoError(t, tr.Refresh())

	notifier := &fakeNotifier{}
	warner, err := service.NewWarnNearEnd(notifier, 0, time.Hour, true)
	require.NoError(t, err)

	// Zero threshold warns immediately.
	require.NoError(t, warner.Execute(tr))
	require.Len(t, notifier.notices, 1)
	require.NoError(t, warner.Execute(tr))
	require.Len(t, notifier.notices, 1)

	// Day rollover restarts the session with a new start time, re-arming
	// the warning.
	clock.Advance(2 * time.Hour)
	require.NoError(t, tr.Refresh())
	require.NoError(t, warner.Execute(tr))
	assert.Len(t, notifier.notices, 2)
}

func TestRampageModeKillsRegardlessOfSession(t *testing.T) {
	t.Parallel()

	killer := &fakeKiller{}
	enum := &fakeEnumerator{samples: []proctree.Sample{gameSample(100, "factorio", 1)}}
	tr := newTestTracker(enum, killer)
	require.NoError(t, tr.Refresh())

	require.NoError(t, service.NewRampageMode().Execute(tr))
	assert.Equal(t, []int32{100}, killer.killed)
}

type fakeStatsDB struct {
	upserts []database.PlaySession
	err     error
}

func (f *fakeStatsDB) UpsertPlaySession(ps *database.PlaySession) error {
	if f.err != nil {
		return f.err
	}
	f.upserts = append(f.upserts, *ps)
	return nil
}

func (*fakeStatsDB) TimePlayedOn(_ time.Time) (time.Duration, error) { return 0, nil }
func (*fakeStatsDB) Close() error                                    { return nil }

func TestPersisterUpsertsTrackedGames(t *testing.T) {
	t.Parallel()

	enum := &fakeEnumerator{samples: []proctree.Sample{gameSample(100, "factorio", 30)}}
	tr := newTestTracker(enum, &fakeKiller{})
	require.NoError(t, tr.Refresh())

	db := &fakeStatsDB{}
	require.NoError(t, service.NewPersister(db).Execute(tr))

	require.Len(t, db.upserts, 1)
	ps := db.upserts[0]
	assert.Equal(t, int32(100), ps.PID)
	assert.Equal(t, "factorio", ps.Name)
	assert.Equal(t, "factorio", ps.GameName)
	assert.Equal(t, int64(30), ps.RunTime)
	assert.Equal(t, time.Unix(1000, 0), ps.StartTime)
}

func TestPersisterPropagatesStoreError(t *testing.T) {
	t.Parallel()

	enum := &fakeEnumerator{samples: []proctree.Sample{gameSample(100, "factorio", 30)}}
	tr := newTestTracker(enum, &fakeKiller{})
	require.NoError(t, tr.Refresh())

	boom := errors.New("disk full")
	require.ErrorIs(t, service.NewPersister(&fakeStatsDB{err: boom}).Execute(tr), boom)
}

// TestBudgetEnforcementScenario drives the full pipeline through one warning
// and one enforcement tick.
func TestBudgetEnforcementScenario(t *testing.T) {
	t.Parallel()

	killer := &fakeKiller{}
	enum := &fakeEnumerator{samples: []proctree.Sample{gameSample(100, "factorio", 5)}}
	tr := newTestTracker(enum, killer)

	clock := clockwork.NewFakeClockAt(time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC))
	session, err := tracker.NewSession(10*time.Second, clock)
	require.NoError(t, err)
	tr.SetSession(session)

	notifier := &fakeNotifier{}
	warner, err := service.NewWarnNearEnd(notifier, 50, 10*time.Second, false)
	require.NoError(t, err)

	sched := service.NewScheduler(time.Second, tr, clock)
	sched.Add(service.NewGamesLogger())
	sched.Add(service.NewSessionEndKiller(notifier))
	sched.Add(warner)

	// Tick 1: 5s of 10s played. Warning fires, session stays alive.
	require.NoError(t, sched.Tick())
	assert.False(t, session.Ended())
	assert.Empty(t, killer.killed)
	require.Len(t, notifier.notices, 1)
	assert.Contains(t, notifier.notices[0], "50% of gaming session played")

	// Tick 2: 11s played. Session ends, game is killed, no second warning.
	enum.samples = []proctree.Sample{gameSample(100, "factorio", 11)}
	require.NoError(t, sched.Tick())
	assert.True(t, session.Ended())
	assert.Equal(t, []int32{100}, killer.killed)
	require.Len(t, notifier.notices, 2)
	assert.Contains(t, notifier.notices[1], "Play time's over")
}

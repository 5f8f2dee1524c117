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

package proctree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample(pid, ppid int32, name string, cmd ...string) Sample {
	return Sample{
		Process: Process{
			PID:       pid,
			Name:      name,
			Cmd:       cmd,
			RunTime:   0,
			StartTime: 1000,
		},
		PPID: ppid,
	}
}

func TestBuildAttachesChildrenToPresentParents(t *testing.T) {
	t.Parallel()

	samples := []Sample{
		sample(100, 1, "steam"),
		sample(200, 100, "reaper"),
		sample(300, 200, "mygame", "/games/mygame", "--fullscreen"),
	}

	tree := Build(samples)

	require.Equal(t, 3, tree.Len())
	assert.Equal(t, []int32{100}, tree.RootPIDs())

	// The grandchild must be reachable from the root subtree.
	proc, ok := tree.FindUnder(100, "mygame")
	require.True(t, ok)
	assert.Equal(t, int32(300), proc.PID)
}

func TestBuildIsOrderIndependent(t *testing.T) {
	t.Parallel()

	samples := []Sample{
		sample(10, 1, "session"),
		sample(20, 10, "launcher"),
		sample(30, 20, "game-a"),
		sample(40, 10, "game-b"),
	}

	permutations := [][]int{
		{0, 1, 2, 3},
		{3, 2, 1, 0},
		{2, 0, 3, 1},
		{1, 3, 0, 2},
	}

	for _, perm := range permutations {
		shuffled := make([]Sample, 0, len(samples))
		for _, i := range perm {
			shuffled = append(shuffled, samples[i])
		}

		tree := Build(shuffled)
		require.Equal(t, []int32{10}, tree.RootPIDs())

		for _, name := range []string{"launcher", "game-a", "game-b"} {
			_, ok := tree.FindUnder(10, name)
			assert.True(t, ok, "process %q not reachable from its root", name)
		}

		// game-a hangs off the launcher specifically, not the root directly.
		proc, ok := tree.FindUnder(20, "game-a")
		require.True(t, ok)
		assert.Equal(t, int32(30), proc.PID)
	}
}

func TestBuildTreatsInitChildrenAsRoots(t *testing.T) {
	t.Parallel()

	samples := []Sample{
		sample(1, 0, "init"),
		sample(50, 1, "daemon-a"),
		sample(60, 1, "daemon-b"),
	}

	tree := Build(samples)

	// Everything under init stays a root, including init itself.
	assert.Equal(t, []int32{1, 50, 60}, tree.RootPIDs())
}

func TestBuildInsertsOrphansAsRoots(t *testing.T) {
	t.Parallel()

	samples := []Sample{
		sample(500, 499, "orphan"), // parent 499 not in snapshot
		sample(600, 500, "child-of-orphan"),
	}

	tree := Build(samples)

	require.Equal(t, []int32{500}, tree.RootPIDs())

	proc, ok := tree.Find("child-of-orphan")
	require.True(t, ok)
	assert.Equal(t, int32(600), proc.PID)
}

func TestFindMatchesNameAndCmdline(t *testing.T) {
	t.Parallel()

	samples := []Sample{
		sample(100, 1, "bash", "bash", "-c", "/opt/games/mygame --windowed"),
	}

	tree := Build(samples)

	proc, ok := tree.Find("mygame")
	require.True(t, ok)
	assert.Equal(t, int32(100), proc.PID)

	_, ok = tree.Find("MYGAME")
	assert.False(t, ok, "substring match is case-sensitive")
}

func TestFindVisitsRootsInAscendingPIDOrder(t *testing.T) {
	t.Parallel()

	samples := []Sample{
		sample(300, 1, "game", "game", "--copy=b"),
		sample(200, 1, "game", "game", "--copy=a"),
	}

	tree := Build(samples)

	proc, ok := tree.Find("game")
	require.True(t, ok)
	assert.Equal(t, int32(200), proc.PID)
}

func TestIdentityIgnoresRunTime(t *testing.T) {
	t.Parallel()

	a := Process{PID: 42, Name: "game", Cmd: []string{"game"}, RunTime: 10}
	b := Process{PID: 42, Name: "game", Cmd: []string{"game"}, RunTime: 9999}

	assert.Equal(t, a.Identity(), b.Identity())

	set := map[Identity]Process{}
	set[a.Identity()] = a
	set[b.Identity()] = b

	require.Len(t, set, 1)
	assert.Equal(t, int64(9999), set[b.Identity()].RunTime)
}

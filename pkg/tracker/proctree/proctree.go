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

// Package proctree builds a parent/child snapshot tree from a flat list of
// OS processes and supports depth-first substring search over process names
// and command lines.
package proctree

import (
	"fmt"
	"sort"
	"strings"
)

// InitPID is the PID of the system init process. Processes parented
// directly under init are treated as roots to avoid collapsing the whole
// snapshot into a single subtree.
const InitPID = 1

// Process is the identity snapshot of one OS process at capture time.
//
// Identity for accounting purposes is (PID, Name, Cmd) - run time is
// deliberately excluded so that repeated snapshots of the same logical
// process compare equal while carrying updated run-time values.
type Process struct {
	Name      string
	Cmd       []string
	RunTime   int64 // seconds, as reported by the OS
	StartTime int64 // epoch seconds
	PID       int32
}

// Identity is the comparable accounting key of a Process.
type Identity struct {
	Name string
	Cmd  string
	PID  int32
}

// Cmdline returns the full command line joined by spaces.
func (p *Process) Cmdline() string {
	return strings.Join(p.Cmd, " ")
}

// Identity returns the accounting key of this process.
func (p *Process) Identity() Identity {
	return Identity{PID: p.PID, Name: p.Name, Cmd: p.Cmdline()}
}

// Matches reports whether the process name or joined command line contains
// the given substring (case-sensitive).
func (p *Process) Matches(substr string) bool {
	return strings.Contains(p.Name, substr) || strings.Contains(p.Cmdline(), substr)
}

// Sample is one raw process entry fed into Build.
type Sample struct {
	Process
	PPID int32
}

type node struct {
	proc     Process
	children []int32 // ascending PID
}

// Tree is an immutable snapshot of the process hierarchy, rebuilt wholesale
// on every scheduler tick. Nodes live in a PID-keyed arena so parent
// attachment is an index lookup rather than a recursive walk.
type Tree struct {
	nodes map[int32]*node
	roots []int32 // ascending PID
}

// Build constructs a Tree from a flat process list. The final structure is
// independent of input ordering: a process becomes a child of its parent
// whenever the parent appears anywhere in the same list, and a root
// otherwise. Parents equal to init (or unresolvable) always produce roots.
func Build(samples []Sample) *Tree {
	t := &Tree{nodes: make(map[int32]*node, len(samples))}

	for i := range samples {
		s := &samples[i]
		t.nodes[s.PID] = &node{proc: s.Process}
	}

	for i := range samples {
		s := &samples[i]
		parent, ok := t.nodes[s.PPID]
		if !ok || s.PPID == s.PID || s.PPID <= InitPID {
			t.roots = append(t.roots, s.PID)
			continue
		}
		parent.children = append(parent.children, s.PID)
	}

	sort.Slice(t.roots, func(i, j int) bool { return t.roots[i] < t.roots[j] })
	for _, n := range t.nodes {
		sort.Slice(n.children, func(i, j int) bool { return n.children[i] < n.children[j] })
	}

	return t
}

// Len returns the number of processes in the snapshot.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// RootPIDs returns the PIDs of all root processes in ascending order.
func (t *Tree) RootPIDs() []int32 {
	pids := make([]int32, len(t.roots))
	copy(pids, t.roots)
	return pids
}

// Get returns the process with the given PID, if present in the snapshot.
func (t *Tree) Get(pid int32) (Process, bool) {
	n, ok := t.nodes[pid]
	if !ok {
		return Process{}, false
	}
	return n.proc, true
}

// Find searches every root and its descendants depth-first and returns the
// first process whose name or command line contains substr. Roots are
// visited in ascending PID order.
func (t *Tree) Find(substr string) (Process, bool) {
	for _, pid := range t.roots {
		if proc, ok := t.findIn(pid, substr); ok {
			return proc, true
		}
	}
	return Process{}, false
}

// Subtree is a search view scoped to one root process and its descendants.
type Subtree struct {
	tree *Tree
	root int32
}

// Subtree returns a view over the subtree rooted at pid.
func (t *Tree) Subtree(pid int32) *Subtree {
	return &Subtree{tree: t, root: pid}
}

// Find searches the subtree depth-first for the first process whose name or
// command line contains substr.
func (s *Subtree) Find(substr string) (Process, bool) {
	return s.tree.FindUnder(s.root, substr)
}

// FindUnder searches only the subtree rooted at the given PID.
func (t *Tree) FindUnder(pid int32, substr string) (Process, bool) {
	if _, ok := t.nodes[pid]; !ok {
		return Process{}, false
	}
	return t.findIn(pid, substr)
}

func (t *Tree) findIn(pid int32, substr string) (Process, bool) {
	n := t.nodes[pid]
	if n.proc.Matches(substr) {
		return n.proc, true
	}
	for _, child := range n.children {
		if proc, ok := t.findIn(child, substr); ok {
			return proc, true
		}
	}
	return Process{}, false
}

// String renders the tree with one indented line per process, for debug
// logging.
func (t *Tree) String() string {
	var sb strings.Builder
	for _, pid := range t.roots {
		t.writeIndented(&sb, pid, 0)
	}
	return sb.String()
}

func (t *Tree) writeIndented(sb *strings.Builder, pid int32, level int) {
	n := t.nodes[pid]
	fmt.Fprintf(sb, "%s|__<%d> %s\n", strings.Repeat(" ", level), pid, n.proc.Cmdline())
	for _, child := range n.children {
		t.writeIndented(sb, child, level+1)
	}
}

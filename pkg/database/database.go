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

// Package database holds the record types and interfaces shared with the
// concrete SQLite implementation in statsdb.
package database

import "time"

// PlaySession is one persisted (process, game) play-time row. Rows are
// keyed by (PID, Name, Cmd, StartTime); a repeat upsert of the same key
// updates RunTime rather than adding a row, mirroring the in-memory
// identity model.
type PlaySession struct {
	StartTime time.Time
	Name      string
	Cmd       string
	GameName  string
	RunTime   int64 // seconds
	PID       int32
}

// StatsDBI is the persistence capability consumed by the Persister subtask.
type StatsDBI interface {
	UpsertPlaySession(ps *PlaySession) error
	TimePlayedOn(date time.Time) (time.Duration, error)
	Close() error
}

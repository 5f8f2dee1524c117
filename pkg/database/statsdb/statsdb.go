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

// Package statsdb persists play-time statistics to a local SQLite database.
package statsdb

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/GameWardenProject/gamewarden/pkg/database"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// ErrNullSQL is returned when the StatsDB is not connected.
var ErrNullSQL = errors.New("StatsDB is not connected")

// StatsDBFile is the database filename inside the data directory.
const StatsDBFile = "statistics.db"

const sqliteConnParams = "?_journal_mode=WAL&_synchronous=FULL&_busy_timeout=5000"

// StatsDB is the SQLite-backed statistics store.
type StatsDB struct {
	sql    *sql.DB
	ctx    context.Context
	dbPath string
}

// Open opens (creating and migrating if needed) the statistics database in
// dataDir.
func Open(ctx context.Context, dataDir string) (*StatsDB, error) {
	db := &StatsDB{
		ctx:    ctx,
		dbPath: filepath.Join(dataDir, StatsDBFile),
	}

	if err := os.MkdirAll(filepath.Dir(db.dbPath), 0o750); err != nil {
		return nil, fmt.Errorf("failed to create directory for database: %w", err)
	}

	sqlInstance, err := sql.Open("sqlite3", db.dbPath+sqliteConnParams)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.sql = sqlInstance

	if err := db.MigrateUp(); err != nil {
		return nil, err
	}

	return db, nil
}

// MigrateUp applies any pending schema migrations.
func (db *StatsDB) MigrateUp() error {
	if db.sql == nil {
		return ErrNullSQL
	}
	return database.MigrateUp(db.sql, migrationFiles, "migrations")
}

// Path returns the database file path.
func (db *StatsDB) Path() string {
	return db.dbPath
}

// UpsertPlaySession inserts a play session row, or updates its RunTime when
// a row with the same (PID, Name, Cmd, StartTime) key already exists.
func (db *StatsDB) UpsertPlaySession(ps *database.PlaySession) error {
	if db.sql == nil {
		return ErrNullSQL
	}
	return sqlUpsertPlaySession(db.ctx, db.sql, ps)
}

// TimePlayedOn sums the persisted run time of every session whose start
// time falls on the given calendar date.
func (db *StatsDB) TimePlayedOn(date time.Time) (time.Duration, error) {
	if db.sql == nil {
		return 0, ErrNullSQL
	}
	return sqlTimePlayedOn(db.ctx, db.sql, date)
}

// Close closes the underlying connection.
func (db *StatsDB) Close() error {
	if db.sql == nil {
		return nil
	}
	if err := db.sql.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	db.sql = nil
	return nil
}

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

package statsdb

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/GameWardenProject/gamewarden/pkg/database"
	"github.com/rs/zerolog/log"
)

func sqlUpsertPlaySession(ctx context.Context, db *sql.DB, ps *database.PlaySession) error {
	stmt, err := db.PrepareContext(ctx, `
		INSERT INTO PlaySessions (PID, Name, Cmd, GameName, RunTime, StartTime)
		VALUES (?, ?, ?, ?, ?, DATETIME(?, 'unixepoch'))
		ON CONFLICT (PID, Name, Cmd, StartTime)
		DO UPDATE SET RunTime = excluded.RunTime;
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare play session upsert statement: %w", err)
	}
	defer func() {
		if closeErr := stmt.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close sql statement")
		}
	}()

	_, err = stmt.ExecContext(ctx,
		ps.PID,
		ps.Name,
		ps.Cmd,
		ps.GameName,
		ps.RunTime,
		ps.StartTime.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert play session: %w", err)
	}
	return nil
}

func sqlTimePlayedOn(ctx context.Context, db *sql.DB, date time.Time) (time.Duration, error) {
	stmt, err := db.PrepareContext(ctx, `
		SELECT COALESCE(SUM(RunTime), 0)
		FROM PlaySessions
		WHERE DATE(StartTime) = DATE(?);
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare time played query: %w", err)
	}
	defer func() {
		if closeErr := stmt.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close sql statement")
		}
	}()

	var totalSeconds int64
	row := stmt.QueryRowContext(ctx, date.Format("2006-01-02"))
	if err := row.Scan(&totalSeconds); err != nil {
		return 0, fmt.Errorf("failed to scan time played total: %w", err)
	}

	return time.Duration(totalSeconds) * time.Second, nil
}

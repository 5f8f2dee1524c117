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
	"errors"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/GameWardenProject/gamewarden/pkg/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpsertBindsIdentityColumns(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	start := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	mock.ExpectPrepare("INSERT INTO PlaySessions").
		ExpectExec().
		WithArgs(int32(100), "factorio", "/usr/bin/factorio", "factorio", int64(30), start.Unix()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	ps := &database.PlaySession{
		PID:       100,
		Name:      "factorio",
		Cmd:       "/usr/bin/factorio",
		GameName:  "factorio",
		RunTime:   30,
		StartTime: start,
	}
	require.NoError(t, sqlUpsertPlaySession(context.Background(), db, ps))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertWrapsExecError(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	boom := errors.New("locked")
	mock.ExpectPrepare("INSERT INTO PlaySessions").
		ExpectExec().
		WillReturnError(boom)

	ps := &database.PlaySession{PID: 1, Name: "x", StartTime: time.Now()}
	require.ErrorIs(t, sqlUpsertPlaySession(context.Background(), db, ps), boom)
}

func TestTimePlayedOnQueriesByCalendarDate(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectPrepare(`SELECT COALESCE\(SUM\(RunTime\), 0\)`).
		ExpectQuery().
		WithArgs("2025-06-15").
		WillReturnRows(sqlmock.NewRows([]string{"total"}).AddRow(int64(90)))

	played, err := sqlTimePlayedOn(
		context.Background(), db, time.Date(2025, 6, 15, 23, 59, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, played)
	assert.NoError(t, mock.ExpectationsWereMet())
}

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

package service

import (
	"fmt"
	"time"

	"github.com/GameWardenProject/gamewarden/pkg/database"
	"github.com/GameWardenProject/gamewarden/pkg/tracker"
)

// Persister upserts every tracked (process, game) pair into the statistics
// store once per tick. A repeat upsert of the same process identity updates
// its run time rather than adding a row.
type Persister struct {
	db database.StatsDBI
}

// NewPersister creates the persistence subtask.
func NewPersister(db database.StatsDBI) *Persister {
	return &Persister{db: db}
}

// Execute implements Subtask.
func (p *Persister) Execute(tr *tracker.Tracker) error {
	for _, tg := range tr.Tracked() {
		ps := database.PlaySession{
			PID:       tg.Process.PID,
			Name:      tg.Process.Name,
			Cmd:       tg.Process.Cmdline(),
			GameName:  tg.Game,
			RunTime:   tg.Process.RunTime,
			StartTime: time.Unix(tg.Process.StartTime, 0),
		}
		if err := p.db.UpsertPlaySession(&ps); err != nil {
			return fmt.Errorf("persist play session for pid %d: %w", tg.Process.PID, err)
		}
	}
	return nil
}

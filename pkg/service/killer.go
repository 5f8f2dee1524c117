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

	"github.com/GameWardenProject/gamewarden/pkg/notifications"
	"github.com/GameWardenProject/gamewarden/pkg/tracker"
	"github.com/rs/zerolog/log"
)

// SessionEndKiller terminates every tracked game process once the daily
// session has ended. It is only registered when enforcement was requested
// (not monitor-only mode).
type SessionEndKiller struct {
	notifier notifications.Notifier
}

// NewSessionEndKiller creates the enforcement subtask.
func NewSessionEndKiller(notifier notifications.Notifier) *SessionEndKiller {
	return &SessionEndKiller{notifier: notifier}
}

// Execute implements Subtask.
func (k *SessionEndKiller) Execute(tr *tracker.Tracker) error {
	session := tr.Session()
	if session == nil || !session.Ended() {
		return nil
	}

	if err := k.notifier.Notify("WARNING", "Play time's over buddy! Go touch grass :-)"); err != nil {
		return fmt.Errorf("session end notification: %w", err)
	}

	for _, tg := range tr.Tracked() {
		accepted, err := tr.Kill(&tg.Process)
		if err != nil {
			return fmt.Errorf("kill game process %d: %w", tg.Process.PID, err)
		}
		log.Info().
			Int32("pid", tg.Process.PID).
			Str("game", tg.Game).
			Bool("accepted", accepted).
			Msg("killer: terminated game at session end")
	}
	return nil
}

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

	"github.com/GameWardenProject/gamewarden/pkg/tracker"
	"github.com/rs/zerolog/log"
)

// RampageMode unconditionally kills every tracked game process every tick,
// regardless of session state. It is registered as an escalation response
// once tampering has been detected.
type RampageMode struct{}

// NewRampageMode creates the escalation subtask.
func NewRampageMode() *RampageMode {
	return &RampageMode{}
}

// Execute implements Subtask.
func (*RampageMode) Execute(tr *tracker.Tracker) error {
	for _, tg := range tr.Tracked() {
		accepted, err := tr.Kill(&tg.Process)
		if err != nil {
			return fmt.Errorf("rampage kill of pid %d: %w", tg.Process.PID, err)
		}
		log.Warn().
			Int32("pid", tg.Process.PID).
			Str("game", tg.Game).
			Bool("accepted", accepted).
			Msg("rampage: killed tracked game")
	}
	return nil
}

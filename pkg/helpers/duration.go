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

package helpers

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

// ErrInvalidDurationSpec is returned when a session duration string matches
// neither the unit form ("1h 30m 10s") nor the colon form ("01:30:10").
var ErrInvalidDurationSpec = errors.New("could not parse session duration")

const (
	unitFormPattern  = `^(\d+[hHmMsS]\s?)+$`
	unitTokenPattern = `(\d+)([hHmMsS])`
	colonFormPattern = `^(\d+):(\d+):(\d+)$`
)

// ParseDurationSpec parses a user-supplied session duration.
//
// Two forms are accepted: a repeated-unit form like "1h 30m 10s", where
// duplicate units accumulate ("1h 1h" is two hours), and a colon form
// like "01:30:10" (hours:minutes:seconds). Anything else returns
// ErrInvalidDurationSpec.
func ParseDurationSpec(spec string) (time.Duration, error) {
	switch {
	case GlobalRegexCache.MustCompile(unitFormPattern).MatchString(spec):
		return parseUnitForm(spec)
	case GlobalRegexCache.MustCompile(colonFormPattern).MatchString(spec):
		return parseColonForm(spec)
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidDurationSpec, spec)
	}
}

func parseUnitForm(spec string) (time.Duration, error) {
	var hours, minutes, seconds int64

	tokens := GlobalRegexCache.MustCompile(unitTokenPattern).FindAllStringSubmatch(spec, -1)
	for _, token := range tokens {
		value, err := strconv.ParseInt(token[1], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("parse duration component %q: %w", token[1], err)
		}

		switch token[2] {
		case "h", "H":
			hours += value
		case "m", "M":
			minutes += value
		case "s", "S":
			seconds += value
		}
	}

	return hmsDuration(hours, minutes, seconds), nil
}

func parseColonForm(spec string) (time.Duration, error) {
	parts := GlobalRegexCache.MustCompile(colonFormPattern).FindStringSubmatch(spec)

	values := make([]int64, 3)
	for i, part := range parts[1:] {
		value, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("parse duration component %q: %w", part, err)
		}
		values[i] = value
	}

	return hmsDuration(values[0], values[1], values[2]), nil
}

func hmsDuration(hours, minutes, seconds int64) time.Duration {
	totalSeconds := hours*60*60 + minutes*60 + seconds
	return time.Duration(totalSeconds) * time.Second
}

// FormatDuration renders a duration as a human-readable play time summary,
// e.g. "0 days 2 hour(s) 30 minute(s) 0 second(s)".
func FormatDuration(d time.Duration) string {
	totalSeconds := int64(d.Seconds())
	days := totalSeconds / (24 * 60 * 60)
	hours := totalSeconds/(60*60) - days*24
	minutes := totalSeconds/60 - totalSeconds/(60*60)*60
	seconds := totalSeconds - totalSeconds/60*60

	return fmt.Sprintf("%d days %d hour(s) %d minute(s) %d second(s)",
		days, hours, minutes, seconds)
}

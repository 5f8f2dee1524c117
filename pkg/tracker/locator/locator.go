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

// Package locator resolves configured platform search locations into the
// concrete list of installed game identifiers used for process matching.
package locator

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/GameWardenProject/gamewarden/pkg/config"
	"github.com/GameWardenProject/gamewarden/pkg/tracker/proctree"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// Platform is one monitored platform with its resolved game identifiers.
type Platform struct {
	Name  string
	Games []string
}

// Registry holds every platform's resolved game list in platform name
// order. It is resolved once at startup and immutable afterward.
type Registry struct {
	platforms []Platform
}

// Finder is the process lookup surface the registry matches against. A
// snapshot tree (or one of its subtrees) satisfies it.
type Finder interface {
	Find(substr string) (proctree.Process, bool)
}

// NewRegistry builds a registry from already-resolved platforms, keeping
// the given order.
func NewRegistry(platforms ...Platform) *Registry {
	return &Registry{platforms: platforms}
}

// Resolve walks every configured platform's search locations on fsys and
// collects matching entry names as game identifiers. home may be empty when
// the home directory could not be resolved; home-relative paths are then
// skipped with a logged gap rather than failing.
func Resolve(fsys afero.Fs, home string, cfg *config.Instance) *Registry {
	reg := &Registry{}

	for _, name := range cfg.PlatformNames() {
		pl, ok := cfg.Platform(name)
		if !ok {
			continue
		}

		resolved := Platform{Name: name}

		if home == "" {
			if len(pl.HomePaths) > 0 {
				log.Warn().
					Str("platform", name).
					Strs("homePaths", pl.HomePaths).
					Msg("locator: could not find home directory, skipping home paths")
			}
		} else {
			for _, p := range pl.HomePaths {
				resolved.Games = append(resolved.Games,
					scanLocation(fsys, filepath.Join(home, p), &pl)...)
			}
		}

		for _, p := range pl.AbsolutePaths {
			resolved.Games = append(resolved.Games, scanLocation(fsys, p, &pl)...)
		}

		log.Info().
			Str("platform", name).
			Int("games", len(resolved.Games)).
			Msg("locator: resolved platform games")

		reg.platforms = append(reg.platforms, resolved)
	}

	return reg
}

// scanLocation lists one directory's immediate entries, filtered by the
// platform's entity kind and ignore prefixes. An unreadable location is not
// an error, just an empty result.
func scanLocation(fsys afero.Fs, dir string, pl *config.PlatformLocator) []string {
	entries, err := afero.ReadDir(fsys, dir)
	if err != nil {
		log.Debug().Err(err).Str("dir", dir).Msg("locator: skipping unreadable location")
		return nil
	}

	var games []string
	for _, entry := range entries {
		if !entityMatches(pl.EntityType(), entry) {
			continue
		}
		if ignored(entry.Name(), pl.Ignore) {
			continue
		}
		games = append(games, entry.Name())
	}
	return games
}

func entityMatches(kind string, entry os.FileInfo) bool {
	switch kind {
	case config.EntityExecutable:
		return !entry.IsDir()
	case config.EntityDirectory:
		return entry.IsDir()
	default:
		return true
	}
}

func ignored(name string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}

// Platforms returns the resolved platforms in matching order.
func (r *Registry) Platforms() []Platform {
	return r.platforms
}

// GameCount returns the total number of resolved game identifiers.
func (r *Registry) GameCount() int {
	n := 0
	for i := range r.platforms {
		n += len(r.platforms[i].Games)
	}
	return n
}

// FindGame scans every platform's identifiers against f and returns the
// first match in platform-then-identifier order. The returned string is the
// matched game identifier.
func (r *Registry) FindGame(f Finder) (string, proctree.Process, bool) {
	for i := range r.platforms {
		for _, game := range r.platforms[i].Games {
			if proc, ok := f.Find(game); ok {
				return game, proc, true
			}
		}
	}
	return "", proctree.Process{}, false
}

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

// Package config loads and serves the user configuration: one locator entry
// per monitored game platform, plus daemon-wide settings.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/GameWardenProject/gamewarden/pkg/helpers/syncutil"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog/log"
)

const (
	SchemaVersion = 1
	CfgEnv        = "GAMEWARDEN_CFG"
	CfgFile       = "config.toml"
)

// Entity kinds accepted by a platform locator's search_entity_type field.
const (
	EntityExecutable = "EXECUTABLE"
	EntityDirectory  = "DIRECTORY"
	EntityBoth       = "BOTH"
)

// Values is the full on-disk configuration.
type Values struct {
	Platforms    map[string]PlatformLocator `toml:"platforms,omitempty"`
	ConfigSchema int                        `toml:"config_schema"`
	DebugLogging bool                       `toml:"debug_logging"`
}

// PlatformLocator describes where one platform's installed games live on
// disk and how directory entries are filtered into game identifiers.
type PlatformLocator struct {
	SearchEntityType string   `toml:"search_entity_type,omitempty"`
	HomePaths        []string `toml:"home_paths,omitempty,multiline"`
	AbsolutePaths    []string `toml:"absolute_paths,omitempty,multiline"`
	Ignore           []string `toml:"ignore,omitempty,multiline"`
}

// BaseDefaults is the configuration written to disk on first run.
var BaseDefaults = Values{
	ConfigSchema: SchemaVersion,
	Platforms: map[string]PlatformLocator{
		"steam": {
			HomePaths:        []string{".local/share/Steam/steamapps/common"},
			SearchEntityType: EntityDirectory,
			Ignore:           []string{"Steamworks", "Proton"},
		},
	},
}

// Instance is a live, concurrency-safe view of the configuration.
type Instance struct {
	cfgPath  string
	vals     Values
	defaults Values
	mu       syncutil.RWMutex
}

// NewConfig loads the configuration from configDir, creating it from
// defaults when missing. The GAMEWARDEN_CFG environment variable overrides
// the config file path.
//
//nolint:gocritic // config struct copied for immutability
func NewConfig(configDir string, defaults Values) (*Instance, error) {
	cfgPath := os.Getenv(CfgEnv)
	if cfgPath == "" {
		cfgPath = filepath.Join(configDir, CfgFile)
	}

	cfg := Instance{
		cfgPath:  cfgPath,
		vals:     defaults,
		defaults: defaults,
	}

	if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
		log.Info().Msg("saving new default config to disk")

		err := os.MkdirAll(filepath.Dir(cfgPath), 0o750)
		if err != nil {
			return nil, fmt.Errorf("failed to create config directory: %w", err)
		}

		if err := cfg.Save(); err != nil {
			return nil, err
		}
	}

	if err := cfg.Load(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Load reads config values from disk, layering file values over defaults.
func (c *Instance) Load() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cfgPath == "" {
		return errors.New("config path not set")
	}

	data, err := os.ReadFile(c.cfgPath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults, then unmarshal file values on top, so fields
	// missing from the file retain their default values.
	newVals := c.defaults
	err = toml.Unmarshal(data, &newVals)
	if err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if newVals.ConfigSchema != SchemaVersion {
		log.Error().Msgf(
			"schema version mismatch: got %d, expecting %d",
			newVals.ConfigSchema,
			SchemaVersion,
		)
		return errors.New("schema version mismatch")
	}

	c.vals = newVals
	return nil
}

// Save writes the current config values to disk.
func (c *Instance) Save() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.cfgPath == "" {
		return errors.New("config path not set")
	}

	data, err := toml.Marshal(c.vals)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(c.cfgPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Path returns the path of the loaded config file.
func (c *Instance) Path() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cfgPath
}

// DebugLogging returns true if debug logging is enabled.
func (c *Instance) DebugLogging() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.DebugLogging
}

// PlatformNames returns the configured platform names in sorted order, so
// game matching runs in a deterministic platform order every tick.
func (c *Instance) PlatformNames() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.vals.Platforms))
	for name := range c.vals.Platforms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Platform returns the locator settings for one platform.
func (c *Instance) Platform(name string) (PlatformLocator, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	p, ok := c.vals.Platforms[name]
	return p, ok
}

// EntityType returns the platform's entry filter, defaulting to BOTH.
func (p *PlatformLocator) EntityType() string {
	switch p.SearchEntityType {
	case EntityExecutable, EntityDirectory, EntityBoth:
		return p.SearchEntityType
	default:
		return EntityBoth
	}
}

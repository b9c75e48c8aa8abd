// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 UNICON Campus Hub

package config

import "strings"

// validate checks that the client view satisfies all runtime invariants
// before it is used at startup. Defaults are applied before validation, so
// failures indicate explicitly misconfigured values.
func (cfg *ClientConfig) validate() error {
	if cfg.Storage.DB.DSN == "" || strings.Contains(cfg.Storage.DB.DSN, "memory") {
		return ErrInvalidStorageConfigs
	}

	if cfg.API.BaseURL == "" || cfg.API.RequestTimeout <= 0 || cfg.API.HealthTimeout <= 0 {
		return ErrInvalidAPIConfigs
	}

	if cfg.Monitor.CheckInterval <= 0 || cfg.Monitor.ProbeInterval <= 0 {
		return ErrInvalidMonitorConfigs
	}

	if cfg.Shell.CacheVersion == "" || cfg.Shell.CacheDir == "" {
		return ErrInvalidShellConfigs
	}

	return nil
}

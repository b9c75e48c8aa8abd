// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 UNICON Campus Hub

package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container for the
// unicon-client application. It aggregates all sub-configurations and is
// populated by merging values from environment variables, command-line flags,
// and an optional JSON file.
//
// Struct tags:
//   - envPrefix — prefix applied to all nested env tag lookups (caarlos0/env).
//   - env       — direct environment variable name for scalar fields.
type StructuredConfig struct {
	// API holds settings for the remote UNICON hub API consumed by the
	// client: base URL, health endpoint, and timeouts.
	API API `envPrefix:"API_"`

	// Monitor holds timing settings for the connectivity monitor.
	Monitor Monitor `envPrefix:"MONITOR_"`

	// Storage holds configuration for the local durable store.
	Storage Storage `envPrefix:"STORAGE_"`

	// Shell holds configuration for the shell-asset cache and its local
	// gateway.
	Shell Shell `envPrefix:"SHELL_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and merged on top of the values
	// already loaded from environment variables and flags.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// API holds settings for the remote hub API.
type API struct {
	// BaseURL is the root URL of the UNICON hub deployment
	// (e.g. "https://hub.example.edu").
	// Env: API_BASE_URL
	BaseURL string `env:"BASE_URL"`

	// HealthPath is the path of the health endpoint used by the
	// connectivity monitor, relative to BaseURL.
	// Env: API_HEALTH_PATH
	HealthPath string `env:"HEALTH_PATH"`

	// RequestTimeout is the default timeout for ordinary outbound requests
	// (submits, replays, logins).
	// Env: API_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	// HealthTimeout is the hard abort timeout for health checks. The
	// reference behavior is 3 seconds.
	// Env: API_HEALTH_TIMEOUT
	HealthTimeout time.Duration `env:"HEALTH_TIMEOUT"`
}

// Monitor holds timing settings for the connectivity monitor.
type Monitor struct {
	// StartupDelay is waited before the initial silent health check so a
	// slow boot does not flash a false offline state. Reference: 2 seconds.
	// Env: MONITOR_STARTUP_DELAY
	StartupDelay time.Duration `env:"STARTUP_DELAY"`

	// CheckInterval is the period between silent background health checks.
	// Env: MONITOR_CHECK_INTERVAL
	CheckInterval time.Duration `env:"CHECK_INTERVAL"`

	// ProbeInterval is the period between link-state probes.
	// Env: MONITOR_PROBE_INTERVAL
	ProbeInterval time.Duration `env:"PROBE_INTERVAL"`
}

// Storage groups the configuration for the local durable store.
type Storage struct {
	// DB holds the local database connection settings.
	DB DB `envPrefix:"DB_"`
}

// DB holds connection settings for the local SQLite database backing the
// durable action queue and session store.
type DB struct {
	// DSN is the SQLite file path (e.g. "~/.unicon/client.db").
	// Env: STORAGE_DB_DSN
	DSN string `env:"DSN"`
}

// Shell holds configuration for the shell-asset cache and gateway.
type Shell struct {
	// CacheDir is the root directory under which versioned cache
	// generations are stored.
	// Env: SHELL_CACHE_DIR
	CacheDir string `env:"CACHE_DIR"`

	// CacheVersion is the cache generation tag embedded in the cache
	// directory name. Bumping it invalidates the whole cache on the next
	// activate.
	// Env: SHELL_CACHE_VERSION
	CacheVersion string `env:"CACHE_VERSION"`

	// GatewayAddress is the TCP address the local shell gateway listens on,
	// in "host:port" format.
	// Env: SHELL_GATEWAY_ADDRESS
	GatewayAddress string `env:"GATEWAY_ADDRESS"`

	// Assets is the fixed list of shell asset paths cached at install time.
	// Env: SHELL_ASSETS (comma-separated)
	Assets []string `env:"ASSETS"`
}

// GetStructuredConfig loads, merges, and validates the application
// configuration from all available sources in the following priority order
// (last source wins for non-zero fields):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
//
// Returns a fully populated *StructuredConfig or an error if any source
// fails to load.
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		build()
}

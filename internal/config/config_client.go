// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 UNICON Campus Hub

package config

import (
	"fmt"
	"time"
)

// Reference defaults. Health timing mirrors the hub web client: a 3 second
// hard abort on health checks and a 2 second quiet period at startup.
const (
	DefaultBaseURL        = "http://localhost:8080"
	DefaultHealthPath     = "/api/health"
	DefaultRequestTimeout = 15 * time.Second
	DefaultHealthTimeout  = 3 * time.Second
	DefaultStartupDelay   = 2 * time.Second
	DefaultCheckInterval  = 30 * time.Second
	DefaultProbeInterval  = 5 * time.Second
	DefaultDSN            = "unicon-client.db"
	DefaultCacheDir       = "shell-cache"
	DefaultCacheVersion   = "v3"
	DefaultGatewayAddress = "localhost:8971"
)

// DefaultShellAssets is the fixed shell asset list cached at install time:
// the root document, the main bundle, the stylesheet, the web manifest, and
// the offline fallback page (cached but never auto-served).
func DefaultShellAssets() []string {
	return []string{
		"/",
		"/static/js/main.js",
		"/static/css/main.css",
		"/manifest.json",
		"/offline.html",
	}
}

// ClientAPI holds network settings used by the client transport layer.
type ClientAPI struct {
	// BaseURL is the hub API root consumed by the adapter.
	BaseURL string
	// HealthPath is the health endpoint path relative to BaseURL.
	HealthPath string
	// RequestTimeout is the default timeout for outbound client requests.
	RequestTimeout time.Duration
	// HealthTimeout is the hard abort timeout for health checks.
	HealthTimeout time.Duration
}

// ClientMonitor holds connectivity monitor timing settings.
type ClientMonitor struct {
	StartupDelay  time.Duration
	CheckInterval time.Duration
	ProbeInterval time.Duration
}

// ClientDB contains local database connection settings for the client.
type ClientDB struct {
	// DSN is the SQLite file path used by the client.
	DSN string
}

// ClientStorage groups client storage backend settings.
type ClientStorage struct {
	// DB holds local database settings.
	DB ClientDB
}

// ClientShell groups shell-cache and gateway settings.
type ClientShell struct {
	CacheDir       string
	CacheVersion   string
	GatewayAddress string
	Assets         []string
}

// ClientConfig is the top-level client configuration assembled from
// [StructuredConfig] with defaults applied.
type ClientConfig struct {
	// API contains client transport addresses and timeouts.
	API ClientAPI
	// Monitor contains connectivity monitor timing settings.
	Monitor ClientMonitor
	// Storage contains client storage settings.
	Storage ClientStorage
	// Shell contains shell-cache settings.
	Shell ClientShell
}

// GetClientConfig builds and validates the client runtime view from the
// merged structured configuration.
//
// It loads the base config via [GetStructuredConfig], maps the fields
// relevant to the client runtime, fills unset values with reference
// defaults, and validates the resulting [ClientConfig].
func GetClientConfig() (*ClientConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	clientCfg := clientConfigFrom(cfg)
	if err := clientCfg.validate(); err != nil {
		return nil, fmt.Errorf("error validating client config: %w", err)
	}

	return clientCfg, nil
}

func clientConfigFrom(cfg *StructuredConfig) *ClientConfig {
	clientCfg := &ClientConfig{
		API: ClientAPI{
			BaseURL:        stringOr(cfg.API.BaseURL, DefaultBaseURL),
			HealthPath:     stringOr(cfg.API.HealthPath, DefaultHealthPath),
			RequestTimeout: durationOr(cfg.API.RequestTimeout, DefaultRequestTimeout),
			HealthTimeout:  durationOr(cfg.API.HealthTimeout, DefaultHealthTimeout),
		},
		Monitor: ClientMonitor{
			StartupDelay:  durationOr(cfg.Monitor.StartupDelay, DefaultStartupDelay),
			CheckInterval: durationOr(cfg.Monitor.CheckInterval, DefaultCheckInterval),
			ProbeInterval: durationOr(cfg.Monitor.ProbeInterval, DefaultProbeInterval),
		},
		Storage: ClientStorage{
			DB: ClientDB{
				DSN: stringOr(cfg.Storage.DB.DSN, DefaultDSN),
			},
		},
		Shell: ClientShell{
			CacheDir:       stringOr(cfg.Shell.CacheDir, DefaultCacheDir),
			CacheVersion:   stringOr(cfg.Shell.CacheVersion, DefaultCacheVersion),
			GatewayAddress: stringOr(cfg.Shell.GatewayAddress, DefaultGatewayAddress),
			Assets:         cfg.Shell.Assets,
		},
	}

	if len(clientCfg.Shell.Assets) == 0 {
		clientCfg.Shell.Assets = DefaultShellAssets()
	}

	return clientCfg
}

func stringOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func durationOr(v, fallback time.Duration) time.Duration {
	if v <= 0 {
		return fallback
	}
	return v
}

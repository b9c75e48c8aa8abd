package config

import "errors"

// Validation errors returned by [ClientConfig.validate] when required
// configuration groups are incomplete or invalid.
var (
	// ErrInvalidAPIConfigs indicates invalid hub API settings
	// (for example, missing base URL or non-positive timeouts).
	ErrInvalidAPIConfigs = errors.New("invalid api configuration")
	// ErrInvalidStorageConfigs indicates invalid client storage settings
	// (for example, empty DSN or unsupported in-memory DSN).
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidMonitorConfigs indicates invalid connectivity monitor
	// settings (for example, zero check or probe interval).
	ErrInvalidMonitorConfigs = errors.New("invalid monitor configuration")
	// ErrInvalidShellConfigs indicates invalid shell-cache settings
	// (for example, empty cache version or root directory).
	ErrInvalidShellConfigs = errors.New("invalid shell cache configuration")
)

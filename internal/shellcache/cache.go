// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 UNICON Campus Hub

// Package shellcache keeps a local copy of the campus hub's application
// shell so the client can render it without a network. Cached assets live in
// versioned generations on disk; bumping the configured version installs a
// fresh generation and activation deletes every other one, so stale shells
// cannot outlive a release.
package shellcache

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/unicon-campus/unicon-client/internal/config"
	"github.com/unicon-campus/unicon-client/internal/logger"
)

// Cache is one on-disk asset store rooted at CacheDir, scoped to a single
// version generation.
type Cache struct {
	root    string
	version string
	logger  *logger.Logger
}

func NewCache(cfg config.ClientShell, log *logger.Logger) *Cache {
	return &Cache{root: cfg.CacheDir, version: cfg.CacheVersion, logger: log}
}

// Version returns the generation this cache reads and writes.
func (c *Cache) Version() string {
	return c.version
}

// Install fetches every asset on the fixed shell list into the current
// generation. A single asset failing to download is logged and skipped; the
// shell should degrade, not refuse to install. Returns the number of assets
// stored.
func (c *Cache) Install(ctx context.Context, fetcher Fetcher, assets []string) int {
	installed := 0
	for _, asset := range assets {
		data, _, err := fetcher.Fetch(ctx, asset)
		if err != nil {
			c.logger.Warn().Err(err).
				Str("func", "shellcache.Cache.Install").
				Str("asset", asset).
				Msg("failed to fetch shell asset, skipping")
			continue
		}

		if err := c.Put(asset, data); err != nil {
			c.logger.Warn().Err(err).
				Str("func", "shellcache.Cache.Install").
				Str("asset", asset).
				Msg("failed to store shell asset, skipping")
			continue
		}
		installed++
	}

	c.logger.Info().
		Str("func", "shellcache.Cache.Install").
		Str("version", c.version).
		Int("installed", installed).
		Int("requested", len(assets)).
		Msg("shell generation installed")

	return installed
}

// Activate removes every generation except the current one. Called once the
// current generation is installed, mirroring a service worker's activate
// phase.
func (c *Cache) Activate() error {
	entries, err := os.ReadDir(c.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read cache root %s: %w", c.root, err)
	}

	for _, entry := range entries {
		if !entry.IsDir() || entry.Name() == c.version {
			continue
		}
		stale := filepath.Join(c.root, entry.Name())
		if err := os.RemoveAll(stale); err != nil {
			return fmt.Errorf("remove stale generation %s: %w", stale, err)
		}
		c.logger.Info().
			Str("func", "shellcache.Cache.Activate").
			Str("generation", entry.Name()).
			Msg("removed stale shell generation")
	}

	return nil
}

// Put stores one asset in the current generation, keyed by request URI.
func (c *Cache) Put(assetKey string, data []byte) error {
	file, err := c.assetFile(assetKey)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}
	if err := os.WriteFile(file, data, 0o644); err != nil {
		return fmt.Errorf("write cached asset: %w", err)
	}
	return nil
}

// Get returns the cached bytes for an asset, or ErrNotCached.
func (c *Cache) Get(assetKey string) ([]byte, error) {
	file, err := c.assetFile(assetKey)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(file)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotCached
		}
		return nil, fmt.Errorf("read cached asset: %w", err)
	}
	return data, nil
}

// assetFile maps a request URI to its file inside the current generation.
// The root document maps to index.html; a query string is escaped into the
// file name so the same path under different queries stays distinct. Paths
// that would escape the generation directory are rejected.
func (c *Cache) assetFile(assetKey string) (string, error) {
	assetPath, query, _ := strings.Cut(assetKey, "?")

	if assetPath == "" || !strings.HasPrefix(assetPath, "/") {
		return "", ErrBadAssetKey
	}

	clean := path.Clean(assetPath)
	if strings.Contains(clean, "..") {
		return "", ErrBadAssetKey
	}

	rel := strings.TrimPrefix(clean, "/")
	if rel == "" {
		rel = "index.html"
	}
	if query != "" {
		// PathEscape keeps the query inside a single path segment
		rel += url.PathEscape("?" + query)
	}

	return filepath.Join(c.root, c.version, filepath.FromSlash(rel)), nil
}

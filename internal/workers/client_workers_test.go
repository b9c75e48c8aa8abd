// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 UNICON Campus Hub

package workers

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/unicon-campus/unicon-client/internal/config"
	"github.com/unicon-campus/unicon-client/internal/logger"
	"github.com/unicon-campus/unicon-client/internal/shellcache"
)

type downFetcher struct{}

func (downFetcher) Fetch(_ context.Context, _ string) ([]byte, string, error) {
	return nil, "", errors.New("origin down")
}

func (downFetcher) Forward(_ context.Context, _, _ string, _ http.Header, _ []byte) (int, string, []byte, error) {
	return 0, "", nil, errors.New("origin down")
}

func TestShellWorker_RunSurvivesActivateFailure(t *testing.T) {
	// a cache root that is a plain file makes Activate fail; the worker
	// must log and keep serving rather than abandon the gateway
	root := filepath.Join(t.TempDir(), "cache-root")
	if err := os.WriteFile(root, []byte("not a directory"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := config.ClientShell{CacheDir: root, CacheVersion: "v3", GatewayAddress: "localhost:0"}
	cache := shellcache.NewCache(cfg, logger.Nop())
	gateway := shellcache.NewGateway(cache, downFetcher{}, cfg, logger.Nop())

	w := NewShellWorker(cache, downFetcher{}, gateway, []string{"/"}, logger.Nop())
	w.Run(context.Background())
	w.Stop()
}

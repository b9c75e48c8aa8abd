// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 UNICON Campus Hub

package workers

import (
	"context"
	"sync"

	"github.com/unicon-campus/unicon-client/internal/connectivity"
	"github.com/unicon-campus/unicon-client/internal/logger"
	"github.com/unicon-campus/unicon-client/internal/service"
	"github.com/unicon-campus/unicon-client/internal/shellcache"
)

// monitorWorker runs the connectivity monitor's background loop.
type monitorWorker struct {
	monitor *connectivity.Monitor
}

func NewMonitorWorker(monitor *connectivity.Monitor) Worker {
	return &monitorWorker{monitor: monitor}
}

func (w *monitorWorker) Run(ctx context.Context) { w.monitor.Start(ctx) }
func (w *monitorWorker) Stop()                   { w.monitor.Stop() }

// reconcilerWorker runs the queue reconciliation job.
type reconcilerWorker struct {
	reconciler service.Reconciler
}

func NewReconcilerWorker(reconciler service.Reconciler) Worker {
	return &reconcilerWorker{reconciler: reconciler}
}

func (w *reconcilerWorker) Run(ctx context.Context) { w.reconciler.Start(ctx) }
func (w *reconcilerWorker) Stop()                   { w.reconciler.Stop() }

// shellWorker installs the configured shell generation, activates it, and
// then serves it through the local gateway.
type shellWorker struct {
	cache   *shellcache.Cache
	fetcher shellcache.Fetcher
	gateway *shellcache.Gateway
	assets  []string
	logger  *logger.Logger

	wg sync.WaitGroup
}

func NewShellWorker(cache *shellcache.Cache, fetcher shellcache.Fetcher, gateway *shellcache.Gateway, assets []string, log *logger.Logger) Worker {
	return &shellWorker{cache: cache, fetcher: fetcher, gateway: gateway, assets: assets, logger: log}
}

func (w *shellWorker) Run(ctx context.Context) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()

		// install before serve so a fresh generation answers first requests;
		// install failures are per-asset and already logged
		w.cache.Install(ctx, w.fetcher, w.assets)
		if err := w.cache.Activate(); err != nil {
			// stale generations linger but the current one still serves
			w.logger.Error().Err(err).
				Str("func", "workers.shellWorker.Run").
				Msg("failed to activate shell generation")
		}

		w.gateway.RunServer()
	}()
}

func (w *shellWorker) Stop() {
	w.gateway.Shutdown()
	w.wg.Wait()
}

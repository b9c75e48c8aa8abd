package client

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"sync"
	"syscall"

	"github.com/unicon-campus/unicon-client/internal/adapter"
	"github.com/unicon-campus/unicon-client/internal/config"
	"github.com/unicon-campus/unicon-client/internal/connectivity"
	"github.com/unicon-campus/unicon-client/internal/logger"
	"github.com/unicon-campus/unicon-client/internal/service"
	"github.com/unicon-campus/unicon-client/internal/shellcache"
	"github.com/unicon-campus/unicon-client/internal/store"
	"github.com/unicon-campus/unicon-client/internal/tui"
	"github.com/unicon-campus/unicon-client/internal/workers"
	"github.com/unicon-campus/unicon-client/models"
)

type App struct {
	storages *store.ClientStorages
	services *service.ClientServices
	monitor  *connectivity.Monitor
	workers  *workers.Workers
	ui       *tui.TUI
	logger   *logger.Logger

	mu      sync.Mutex
	session models.Session
}

func NewApp(cfg *config.ClientConfig, log *logger.Logger) (*App, error) {
	storages, err := store.NewClientStorages(cfg.Storage, log)
	if err != nil {
		return nil, fmt.Errorf("create local storage: %w", err)
	}

	hub, err := adapter.NewHTTPHubClient(cfg.API, storages.Session, log)
	if err != nil {
		return nil, fmt.Errorf("create hub client: %w", err)
	}

	monitor := connectivity.NewMonitor(hub, connectivity.NewInterfaceProbe(), connectivity.Config{
		StartupDelay:  cfg.Monitor.StartupDelay,
		CheckInterval: cfg.Monitor.CheckInterval,
		ProbeInterval: cfg.Monitor.ProbeInterval,
	}, log)

	app := &App{storages: storages, monitor: monitor, logger: log}

	app.services = service.NewClientServices(storages, hub, monitor, app.currentUserID, log)

	cache := shellcache.NewCache(cfg.Shell, log)
	fetcher := shellcache.NewOriginFetcher(cfg.API)
	gateway := shellcache.NewGateway(cache, fetcher, cfg.Shell, log)

	app.workers = workers.NewWorkers(
		workers.NewMonitorWorker(monitor),
		workers.NewReconcilerWorker(app.services.Reconciler),
		workers.NewShellWorker(cache, fetcher, gateway, cfg.Shell.Assets, log),
	)

	ui, err := tui.New(app.services, monitor, log)
	if err != nil {
		return nil, fmt.Errorf("create ui: %w", err)
	}
	app.ui = ui

	return app, nil
}

// Run starts the workers and drives the UI until the user quits. Pending
// actions survive restarts: the queue is rehydrated from the local store
// before anything else happens.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
		syscall.SIGQUIT,
	)
	defer stop()

	a.services.Queue.Load(ctx)

	defer func() {
		if err := a.storages.Close(); err != nil {
			a.logger.Error().Err(err).Msg("close local storage")
		}
	}()

	a.workers.Run(ctx)
	defer a.workers.Stop()

	for {
		session, err := a.services.AuthService.Restore(ctx)
		if err != nil {
			if !errors.Is(err, service.ErrNoSession) {
				return fmt.Errorf("restore session: %w", err)
			}
			session, err = a.ui.LoginFlow(ctx)
			if err != nil {
				if errors.Is(err, tui.ErrUserQuit) {
					return nil
				}
				return err
			}
		}
		a.setSession(session)

		logout, err := a.ui.MainLoop(ctx, session)
		if err != nil {
			return err
		}
		if !logout {
			return nil
		}

		if err := a.services.AuthService.Logout(ctx); err != nil {
			a.logger.Warn().Err(err).Msg("logout")
		}
		a.setSession(models.Session{})
	}
}

func (a *App) setSession(session models.Session) {
	a.mu.Lock()
	a.session = session
	a.mu.Unlock()
}

func (a *App) currentUserID() int64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.session.UserID
}

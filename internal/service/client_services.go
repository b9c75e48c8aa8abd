package service

import (
	"github.com/unicon-campus/unicon-client/internal/adapter"
	"github.com/unicon-campus/unicon-client/internal/connectivity"
	"github.com/unicon-campus/unicon-client/internal/logger"
	"github.com/unicon-campus/unicon-client/internal/queue"
	"github.com/unicon-campus/unicon-client/internal/store"
)

type ClientServices struct {
	AuthService     AuthService
	ComposerService ComposerService
	Reconciler      Reconciler
	Queue           *queue.Manager
}

// NewClientServices wires the service layer together. userID supplies the
// current session's user id at call time so services constructed before
// login still attribute actions correctly afterwards.
func NewClientServices(storages *store.ClientStorages, hub adapter.HubClient, monitor *connectivity.Monitor, userID func() int64, log *logger.Logger) *ClientServices {
	q := queue.NewManager(storages.KV, log)

	return &ClientServices{
		AuthService:     NewClientAuthService(storages.Session, hub, log),
		ComposerService: NewClientComposerService(hub, q, monitor, userID, log),
		Reconciler:      NewReconciler(hub, q, monitor.Subscribe(), log),
		Queue:           q,
	}
}

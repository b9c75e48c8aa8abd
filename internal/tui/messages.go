package tui

import (
	"github.com/unicon-campus/unicon-client/internal/connectivity"
	"github.com/unicon-campus/unicon-client/internal/service"
	"github.com/unicon-campus/unicon-client/models"
)

// LoginResult finishes the authentication flow.
type LoginResult struct {
	Session models.Session
	Err     error
}

type submitDoneMsg struct {
	result service.SubmitResult
	err    error
}

type queueLoadedMsg struct {
	actions []models.QueuedAction
}

type connectivityMsg struct {
	change connectivity.StateChange
	closed bool
}

type retryDoneMsg struct {
	state models.ConnectivityState
}

type copiedMsg struct {
	err error
}

type clearStatusMsg struct{}

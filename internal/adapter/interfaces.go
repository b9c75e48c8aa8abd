// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 UNICON Campus Hub

// Package adapter provides transport-layer abstractions for communicating
// with a UNICON campus hub deployment.
//
// The primary abstraction is [HubClient], which decouples the service layer
// from the underlying protocol. The package ships an HTTP/REST
// implementation ([NewHTTPHubClient]) built on resty.
//
// Error values defined in errors.go are mapped from HTTP status codes by
// mapHTTPError so that callers can use [errors.Is] for transport-agnostic
// error handling (e.g. [ErrUnauthorized] for 401).
package adapter

import (
	"context"

	"github.com/unicon-campus/unicon-client/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/hub_client_mock.go -package=mock

// TokenSource supplies the bearer credential for authenticated requests.
// The adapter reads it at call time rather than caching it, so replays pick
// up a token refreshed by a concurrent login.
// [store.SessionRepository] satisfies this interface.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// HubClient defines transport-agnostic communication with the hub API.
// Implementations are responsible for serialisation, authentication header
// management, and mapping transport-level errors to the sentinel values
// defined in this package.
type HubClient interface {
	// Login authenticates the user against the hub's auth service and
	// returns the issued session (bearer token plus the user id parsed
	// from its subject claim). Returns an error if the request fails or
	// the server responds with a non-2xx status.
	Login(ctx context.Context, user models.User) (models.Session, error)

	// Health probes the hub's health endpoint. It returns nil only for an
	// exact HTTP 200 and aborts after the configured health timeout. The
	// request bypasses intermediary caches.
	Health(ctx context.Context) error

	// Replay re-issues a previously queued action against the hub's sync
	// endpoint. Success is any 2xx response; everything else is a replay
	// failure and the action must stay queued.
	Replay(ctx context.Context, action models.QueuedAction) error

	// CreatePost submits a community post live.
	CreatePost(ctx context.Context, payload models.ActionPayload) error

	// SendMessage delivers a direct message live.
	SendMessage(ctx context.Context, payload models.ActionPayload) error
}

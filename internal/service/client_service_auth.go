// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 UNICON Campus Hub

package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/golang-jwt/jwt/v5"

	"github.com/unicon-campus/unicon-client/internal/adapter"
	"github.com/unicon-campus/unicon-client/internal/logger"
	"github.com/unicon-campus/unicon-client/internal/store"
	"github.com/unicon-campus/unicon-client/models"
)

type clientAuthService struct {
	sessions store.SessionRepository
	hub      adapter.HubClient
	logger   *logger.Logger
}

func NewClientAuthService(sessions store.SessionRepository, hub adapter.HubClient, log *logger.Logger) AuthService {
	return &clientAuthService{sessions: sessions, hub: hub, logger: log}
}

func (a *clientAuthService) Login(ctx context.Context, user models.User) (models.Session, error) {
	if user.Login == "" || user.Password == "" {
		return models.Session{}, ErrInvalidCredentials
	}

	session, err := a.hub.Login(ctx, user)
	if err != nil {
		return models.Session{}, fmt.Errorf("%w: %v", ErrLoginOnServer, err)
	}

	if err := a.sessions.SaveToken(ctx, session.Token); err != nil {
		// the session is live regardless, later runs just re-login
		a.logger.Error().Err(err).
			Str("func", "clientAuthService.Login").
			Msg("failed to persist session token")
	}

	a.logger.Info().
		Str("func", "clientAuthService.Login").
		Int64("user_id", session.UserID).
		Msg("logged in")

	return session, nil
}

func (a *clientAuthService) Restore(ctx context.Context) (models.Session, error) {
	token, err := a.sessions.Token(ctx)
	if err != nil {
		if errors.Is(err, store.ErrLocalSessionNotFound) {
			return models.Session{}, ErrNoSession
		}
		return models.Session{}, fmt.Errorf("read stored token: %w", err)
	}

	session := models.Session{Token: token, UserID: subjectUserID(token)}

	a.logger.Info().
		Str("func", "clientAuthService.Restore").
		Int64("user_id", session.UserID).
		Msg("restored session from local store")

	return session, nil
}

func (a *clientAuthService) Logout(ctx context.Context) error {
	if err := a.sessions.DeleteToken(ctx); err != nil {
		return fmt.Errorf("delete stored token: %w", err)
	}
	return nil
}

// subjectUserID extracts the numeric subject claim without verifying the
// signature; the hub is the authority on token validity. Unparseable tokens
// yield zero.
func subjectUserID(token string) int64 {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return 0
	}
	subject, err := claims.GetSubject()
	if err != nil {
		return 0
	}
	userID, err := strconv.ParseInt(subject, 10, 64)
	if err != nil {
		return 0
	}
	return userID
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 UNICON Campus Hub

package service

import (
	"context"
	"strings"

	"github.com/unicon-campus/unicon-client/internal/adapter"
	"github.com/unicon-campus/unicon-client/internal/logger"
	"github.com/unicon-campus/unicon-client/models"
)

type clientComposerService struct {
	hub          adapter.HubClient
	queue        ActionQueue
	connectivity ConnectivitySource
	logger       *logger.Logger
	userID       func() int64
}

// NewClientComposerService wires the composer to the hub, the offline queue,
// and the connectivity monitor. userID supplies the author id of the current
// session at call time; zero means anonymous.
func NewClientComposerService(hub adapter.HubClient, q ActionQueue, conn ConnectivitySource, userID func() int64, log *logger.Logger) ComposerService {
	if userID == nil {
		userID = func() int64 { return 0 }
	}
	return &clientComposerService{hub: hub, queue: q, connectivity: conn, logger: log, userID: userID}
}

func (c *clientComposerService) SubmitPost(ctx context.Context, payload models.ActionPayload) (SubmitResult, error) {
	if strings.TrimSpace(payload.Body) == "" {
		return SubmitResult{}, ErrEmptyBody
	}

	return c.submit(ctx, models.ActionPost, payload, c.hub.CreatePost)
}

func (c *clientComposerService) SendMessage(ctx context.Context, payload models.ActionPayload) (SubmitResult, error) {
	if strings.TrimSpace(payload.Body) == "" {
		return SubmitResult{}, ErrEmptyBody
	}
	if payload.TargetID == "" {
		return SubmitResult{}, ErrMissingRecipient
	}

	return c.submit(ctx, models.ActionMessage, payload, c.hub.SendMessage)
}

func (c *clientComposerService) PendingCount() int {
	return c.queue.Len()
}

// submit attempts live delivery when the monitor believes we are online and
// queues the action otherwise. A failed live call also queues: composed
// content is never lost to a flaky connection.
func (c *clientComposerService) submit(ctx context.Context, actionType models.ActionType, payload models.ActionPayload, deliver func(context.Context, models.ActionPayload) error) (SubmitResult, error) {
	if c.connectivity.Online() {
		err := deliver(ctx, payload)
		if err == nil {
			c.logger.Info().
				Str("func", "clientComposerService.submit").
				Str("type", string(actionType)).
				Msg("delivered live")
			return SubmitResult{Delivered: true}, nil
		}

		c.logger.Warn().Err(err).
			Str("func", "clientComposerService.submit").
			Str("type", string(actionType)).
			Msg("live delivery failed, queueing for replay")
	}

	queued, err := c.queue.Enqueue(ctx, models.QueuedAction{
		Type:    actionType,
		Payload: payload,
		UserID:  c.userID(),
	})
	if err != nil {
		return SubmitResult{}, err
	}

	c.logger.Info().
		Str("func", "clientComposerService.submit").
		Str("type", string(actionType)).
		Str("action_id", queued.ID).
		Msg("queued for replay")

	return SubmitResult{Delivered: false, Action: queued}, nil
}

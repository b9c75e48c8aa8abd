// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 UNICON Campus Hub

package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/unicon-campus/unicon-client/internal/adapter"
	"github.com/unicon-campus/unicon-client/internal/connectivity"
	"github.com/unicon-campus/unicon-client/internal/logger"
)

type reconciler struct {
	hub     adapter.HubClient
	queue   ActionQueue
	updates <-chan connectivity.StateChange
	logger  *logger.Logger

	// drainMu serialises drains: a periodic check firing during a manual
	// retry must not replay the same action twice.
	drainMu sync.Mutex

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewReconciler creates a reconciler fed by a connectivity subscription.
// The job is idle until Start is called.
func NewReconciler(hub adapter.HubClient, q ActionQueue, updates <-chan connectivity.StateChange, log *logger.Logger) Reconciler {
	return &reconciler{hub: hub, queue: q, updates: updates, logger: log}
}

// Start implements Reconciler. It stops any previously running job, then
// launches a goroutine that drains the queue each time connectivity comes
// back. The goroutine exits when ctx is cancelled, Stop is called, or the
// subscription channel is closed.
func (r *reconciler) Start(ctx context.Context) {
	r.Stop()

	r.mu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.wg.Add(1)
	r.mu.Unlock()

	go func() {
		defer r.wg.Done()

		for {
			select {
			case <-jobCtx.Done():
				return
			case change, ok := <-r.updates:
				if !ok {
					return
				}
				if !change.Online {
					continue
				}
				if _, err := r.Drain(jobCtx); err != nil {
					r.logger.Warn().Err(err).
						Str("func", "reconciler.Start").
						Msg("drain aborted, remaining actions stay queued")
				}
			}
		}
	}()
}

// Stop implements Reconciler. Safe to call when the job is not running.
func (r *reconciler) Stop() {
	r.mu.Lock()
	cancel := r.cancel
	r.cancel = nil
	r.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	r.wg.Wait()
}

// Drain implements Reconciler. Pending actions are replayed oldest first and
// removed one by one as the hub accepts them. A failed replay stops the
// whole batch so ordering is preserved for the next attempt.
func (r *reconciler) Drain(ctx context.Context) (int, error) {
	r.drainMu.Lock()
	defer r.drainMu.Unlock()

	pending := r.queue.List()
	if len(pending) == 0 {
		return 0, nil
	}

	r.logger.Info().
		Str("func", "reconciler.Drain").
		Int("pending", len(pending)).
		Msg("replaying queued actions")

	replayed := 0
	for _, action := range pending {
		if err := ctx.Err(); err != nil {
			return replayed, err
		}

		if err := r.hub.Replay(ctx, action); err != nil {
			return replayed, fmt.Errorf("replay action %s: %w", action.ID, err)
		}

		r.queue.Dequeue(ctx, action.ID)
		replayed++

		r.logger.Info().
			Str("func", "reconciler.Drain").
			Str("action_id", action.ID).
			Str("type", string(action.Type)).
			Msg("action replayed and removed from queue")
	}

	return replayed, nil
}

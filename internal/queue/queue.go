// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 UNICON Campus Hub

// Package queue implements the durable offline action queue: an in-memory
// FIFO of actions that could not be completed live, mirrored on every
// mutation to the durable store so it survives restarts.
//
// The in-memory list is authoritative for the current session. Persistence
// failures are logged and swallowed: a full disk must not lose a draft the
// user just composed, and a malformed stored document must not crash the
// client — it degrades to an empty queue.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/unicon-campus/unicon-client/internal/logger"
	"github.com/unicon-campus/unicon-client/internal/store"
	"github.com/unicon-campus/unicon-client/models"
)

// Manager owns the pending action list. All methods are safe for concurrent
// use; mutations serialize on an internal mutex.
type Manager struct {
	kv     store.KVRepository
	logger *logger.Logger
	now    func() time.Time

	mu      sync.Mutex
	actions []models.QueuedAction
	lastID  int64
}

// NewManager constructs a Manager over the given durable store. The queue is
// empty until [Manager.Load] is called.
func NewManager(kv store.KVRepository, logger *logger.Logger) *Manager {
	return &Manager{
		kv:     kv,
		logger: logger,
		now:    time.Now,
	}
}

// Load replaces the in-memory list with whatever was last persisted under
// the offlineActions key. Absent or malformed data degrades to an empty
// queue; Load never returns an error to the caller.
func (m *Manager) Load(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	raw, err := m.kv.Get(ctx, store.KeyOfflineActions)
	if err != nil {
		if !errors.Is(err, store.ErrKeyNotFound) {
			m.logger.Err(err).
				Str("func", "queue.Manager.Load").
				Msg("failed to read queued actions from durable store")
		}
		m.actions = nil
		return
	}

	var actions []models.QueuedAction
	if err = json.Unmarshal([]byte(raw), &actions); err != nil {
		m.logger.Err(err).
			Str("func", "queue.Manager.Load").
			Msg("malformed queued actions document, degrading to empty queue")
		m.actions = nil
		return
	}

	m.actions = actions
	m.logger.Debug().
		Str("func", "queue.Manager.Load").
		Int("pending", len(actions)).
		Msg("loaded queued actions from durable store")
}

// Enqueue appends the action to the queue and persists the updated list.
// A missing ID or CreatedAt is assigned here; a missing Type is the one
// validation failure. The returned action carries the assigned fields.
func (m *Manager) Enqueue(ctx context.Context, action models.QueuedAction) (models.QueuedAction, error) {
	if err := action.Validate(); err != nil {
		return models.QueuedAction{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if action.CreatedAt.IsZero() {
		action.CreatedAt = m.now().UTC()
	}
	if action.ID == "" {
		action.ID = m.nextIDLocked()
	}

	m.actions = append(m.actions, action)
	m.persistLocked(ctx)

	m.logger.Debug().
		Str("func", "queue.Manager.Enqueue").
		Str("action_id", action.ID).
		Str("type", string(action.Type)).
		Int("pending", len(m.actions)).
		Msg("queued action for later replay")

	return action, nil
}

// Dequeue removes the action with the given id from the queue and the
// durable store. Removing an id that is not queued is a no-op.
func (m *Manager) Dequeue(ctx context.Context, id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, a := range m.actions {
		if a.ID == id {
			m.actions = append(m.actions[:i], m.actions[i+1:]...)
			m.persistLocked(ctx)
			return
		}
	}
}

// List returns a copy of the pending actions in FIFO order.
func (m *Manager) List() []models.QueuedAction {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]models.QueuedAction, len(m.actions))
	copy(out, m.actions)
	return out
}

// Len reports the number of pending actions, for the TUI's pending-count
// indicator.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.actions)
}

// persistLocked overwrites the durable document with the full current list.
// Callers must hold m.mu. Store failures are logged, never propagated: the
// in-memory list stays authoritative for this session.
func (m *Manager) persistLocked(ctx context.Context) {
	payload, err := json.Marshal(m.actions)
	if err != nil {
		m.logger.Err(err).
			Str("func", "queue.Manager.persistLocked").
			Msg("failed to marshal queued actions")
		return
	}

	if err = m.kv.Set(ctx, store.KeyOfflineActions, string(payload)); err != nil {
		m.logger.Err(err).
			Str("func", "queue.Manager.persistLocked").
			Msg("failed to persist queued actions, keeping in-memory list")
	}
}

// nextIDLocked returns a millisecond-epoch id matching the format the web
// client generates. The monotonic guard keeps ids unique when two enqueues
// land in the same millisecond.
func (m *Manager) nextIDLocked() string {
	ms := m.now().UnixMilli()
	if ms <= m.lastID {
		ms = m.lastID + 1
	}
	m.lastID = ms
	return strconv.FormatInt(ms, 10)
}

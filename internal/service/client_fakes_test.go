package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/unicon-campus/unicon-client/models"
)

// stubHub is a scriptable HubClient shared by the service tests.
type stubHub struct {
	mu sync.Mutex

	loginSession models.Session
	loginErr     error

	createPostErr  error
	sendMessageErr error
	posts          []models.ActionPayload
	messages       []models.ActionPayload

	replayErrs map[string]error
	replayed   []string
}

func (h *stubHub) Login(_ context.Context, _ models.User) (models.Session, error) {
	return h.loginSession, h.loginErr
}

func (h *stubHub) Health(_ context.Context) error { return nil }

func (h *stubHub) Replay(_ context.Context, action models.QueuedAction) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.replayed = append(h.replayed, action.ID)
	return h.replayErrs[action.ID]
}

func (h *stubHub) CreatePost(_ context.Context, payload models.ActionPayload) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.createPostErr != nil {
		return h.createPostErr
	}
	h.posts = append(h.posts, payload)
	return nil
}

func (h *stubHub) SendMessage(_ context.Context, payload models.ActionPayload) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.sendMessageErr != nil {
		return h.sendMessageErr
	}
	h.messages = append(h.messages, payload)
	return nil
}

func (h *stubHub) replayedIDs() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	ids := make([]string, len(h.replayed))
	copy(ids, h.replayed)
	return ids
}

// fakeQueue is an in-memory ActionQueue.
type fakeQueue struct {
	mu         sync.Mutex
	actions    []models.QueuedAction
	enqueueErr error
	nextID     int
}

func (q *fakeQueue) Enqueue(_ context.Context, action models.QueuedAction) (models.QueuedAction, error) {
	if err := action.Validate(); err != nil {
		return models.QueuedAction{}, err
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.enqueueErr != nil {
		return models.QueuedAction{}, q.enqueueErr
	}
	if action.ID == "" {
		q.nextID++
		action.ID = fmt.Sprintf("action-%d", q.nextID)
	}
	q.actions = append(q.actions, action)
	return action, nil
}

func (q *fakeQueue) Dequeue(_ context.Context, id string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i, action := range q.actions {
		if action.ID == id {
			q.actions = append(q.actions[:i], q.actions[i+1:]...)
			return
		}
	}
}

func (q *fakeQueue) List() []models.QueuedAction {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]models.QueuedAction, len(q.actions))
	copy(out, q.actions)
	return out
}

func (q *fakeQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.actions)
}

// stubConnectivity reports a fixed belief.
type stubConnectivity struct{ online bool }

func (c *stubConnectivity) Online() bool { return c.online }

package service

import (
	"context"

	"github.com/unicon-campus/unicon-client/models"
)

// ConnectivitySource reports the client's current belief about hub
// reachability. [connectivity.Monitor] satisfies this interface.
type ConnectivitySource interface {
	Online() bool
}

// ActionQueue is the durable FIFO of actions awaiting replay.
// [queue.Manager] satisfies this interface.
type ActionQueue interface {
	// Enqueue validates, stamps, and durably appends an action, returning
	// the completed record.
	Enqueue(ctx context.Context, action models.QueuedAction) (models.QueuedAction, error)

	// Dequeue removes the action with the given id. Unknown ids are a no-op.
	Dequeue(ctx context.Context, id string)

	// List returns a snapshot of pending actions in insertion order.
	List() []models.QueuedAction

	// Len reports the number of pending actions.
	Len() int
}

// AuthService defines the client-side contract for session management.
type AuthService interface {
	// Login authenticates against the hub and persists the issued token
	// locally so later runs and queued replays can reuse it.
	Login(ctx context.Context, user models.User) (models.Session, error)

	// Restore rebuilds the session from the locally persisted token.
	// Returns ErrNoSession when no token is stored.
	Restore(ctx context.Context) (models.Session, error)

	// Logout discards the locally persisted token.
	Logout(ctx context.Context) error
}

// SubmitResult describes the fate of a composed action.
type SubmitResult struct {
	// Delivered is true when the action reached the hub live. When false
	// the action was added to the offline queue instead.
	Delivered bool

	// Action is the queued record. Zero when Delivered is true.
	Action models.QueuedAction
}

// ComposerService accepts user-composed content and either delivers it live
// or parks it in the offline queue. Composition never fails for lack of
// connectivity.
type ComposerService interface {
	// SubmitPost publishes a community post, falling back to the queue
	// when offline or when the live call fails.
	SubmitPost(ctx context.Context, payload models.ActionPayload) (SubmitResult, error)

	// SendMessage delivers a direct message, falling back to the queue
	// when offline or when the live call fails.
	SendMessage(ctx context.Context, payload models.ActionPayload) (SubmitResult, error)

	// PendingCount reports how many actions are waiting for replay.
	PendingCount() int
}

// Reconciler drains the offline queue against the hub when connectivity
// returns.
type Reconciler interface {
	// Start launches the background goroutine that watches connectivity
	// updates and drains the queue on each offline-to-online transition.
	// Any previously running job is stopped first.
	Start(ctx context.Context)

	// Drain replays pending actions in insertion order, removing each one
	// on success. The first failed replay aborts the batch; the failed
	// action and everything behind it stay queued. Returns the number of
	// actions replayed and the error that stopped the batch, if any.
	Drain(ctx context.Context) (int, error)

	// Stop signals the background goroutine to exit and blocks until it
	// has fully terminated.
	Stop()
}

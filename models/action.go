// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 UNICON Campus Hub

package models

import (
	"errors"
	"time"
)

// ActionType identifies which remote operation a queued action replays.
type ActionType string

const (
	// ActionPost is a community/forum post submission.
	ActionPost ActionType = "post"

	// ActionMessage is a direct message to another member.
	ActionMessage ActionType = "message"

	// ActionSync is a generic sync payload replayed verbatim against the
	// hub's sync endpoint.
	ActionSync ActionType = "sync"
)

// ErrMissingActionType is returned when an action without a type is enqueued.
var ErrMissingActionType = errors.New("queued action requires a type")

// ActionPayload carries the action-specific content of a QueuedAction.
//
// Field names mirror the JSON the hub's web client writes to local storage,
// so a queue produced by either client replays identically.
type ActionPayload struct {
	// Body is the text content of the post or message.
	Body string `json:"body,omitempty"`

	// TargetID identifies the recipient or parent entity: the addressee of
	// a message, or the board/thread a post belongs to.
	TargetID string `json:"targetId,omitempty"`

	// Meta holds optional free-form attributes (tags, category, channel).
	Meta map[string]string `json:"meta,omitempty"`
}

// QueuedAction is a user action captured while the hub was unreachable,
// held in the durable queue until it replays successfully or is removed
// by the user.
type QueuedAction struct {
	// ID is a client-generated, millisecond-epoch identifier, unique
	// within the queue.
	ID string `json:"id"`

	// Type selects the remote operation used during replay.
	Type ActionType `json:"type"`

	// Payload is the action content.
	Payload ActionPayload `json:"payload"`

	// CreatedAt is set at enqueue time.
	CreatedAt time.Time `json:"createdAt"`

	// UserID optionally attributes the action to the member who composed
	// it. Zero when the session had no parsed subject.
	UserID int64 `json:"userId,omitempty"`
}

// Validate checks the minimal enqueue contract: an action must carry a type.
func (a QueuedAction) Validate() error {
	if a.Type == "" {
		return ErrMissingActionType
	}
	return nil
}

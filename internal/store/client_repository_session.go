package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

type sessionRepository struct {
	kv KVRepository
}

// NewSessionRepository wraps a [KVRepository] with the session credential
// contract: the bearer token is stored under the web client's "token" key.
func NewSessionRepository(kv KVRepository) SessionRepository {
	return &sessionRepository{kv: kv}
}

func (r *sessionRepository) SaveToken(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return fmt.Errorf("save token: empty token")
	}
	return r.kv.Set(ctx, KeyToken, token)
}

// Token returns the stored bearer credential. Replay callers read it through
// this method at call time rather than caching it, so a token refreshed by a
// concurrent login is picked up on the next replay.
func (r *sessionRepository) Token(ctx context.Context) (string, error) {
	token, err := r.kv.Get(ctx, KeyToken)
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return "", ErrLocalSessionNotFound
		}
		return "", fmt.Errorf("load token: %w", err)
	}
	if token == "" {
		return "", ErrLocalSessionNotFound
	}

	return token, nil
}

func (r *sessionRepository) DeleteToken(ctx context.Context) error {
	return r.kv.Delete(ctx, KeyToken)
}

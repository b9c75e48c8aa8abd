package store

import (
	"context"
)

//go:generate mockgen -source=client_interfaces.go -destination=../mock/client_store_mock.go -package=mock

// KVRepository is the durable key/value store backing the offline queue and
// the session credential. It mirrors the web client's local storage: values
// are opaque serialized documents overwritten wholesale per key.
type KVRepository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// SessionRepository persists the bearer credential between runs.
type SessionRepository interface {
	SaveToken(ctx context.Context, token string) error
	Token(ctx context.Context) (string, error)
	DeleteToken(ctx context.Context) error
}

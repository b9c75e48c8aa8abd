package adapter

import "errors"

var (
	// ErrUnauthorized is returned for HTTP 401 responses: the stored bearer
	// token is missing, expired, or revoked. Queued actions stay queued.
	ErrUnauthorized = errors.New("client unauthorized")

	// ErrHealthCheckFailed is returned by Health for any outcome other than
	// an exact HTTP 200 within the timeout.
	ErrHealthCheckFailed = errors.New("health check failed")
)

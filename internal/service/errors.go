package service

import "errors"

var (
	ErrInvalidCredentials = errors.New("login and password are required")
	ErrLoginOnServer      = errors.New("login on server failed")
	ErrNoSession          = errors.New("no stored session")

	ErrEmptyBody        = errors.New("empty content body")
	ErrMissingRecipient = errors.New("no message recipient given")
)

package domain

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrMissingImage    = errors.New("missing source image")
	ErrMissingPrompt   = errors.New("missing prompt")
	ErrBusy            = errors.New("colorization already in progress")
	ErrSessionClosed   = errors.New("session closed")
	ErrProviderFailure = errors.New("provider failure")
)

package domain

import "errors"

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrInvalidRecord signals a record failing validation.
	ErrInvalidRecord = errors.New("invalid record")
	// ErrRateLimited signals a rate limit hit.
	ErrRateLimited = errors.New("rate limited")
	// ErrModelProviderError signals a generative-model provider failure.
	ErrModelProviderError = errors.New("model provider error")
	// ErrModelNotConfigured signals that no model credential is set.
	ErrModelNotConfigured = errors.New("model not configured")
)

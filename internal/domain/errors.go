package domain

import "errors"

var (
	// ErrValidation signals malformed caller input.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound signals a missing entry.
	ErrNotFound = errors.New("entry not found")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrEmbeddingRetryable marks a provider failure worth retrying (network, 429, 5xx).
	ErrEmbeddingRetryable = errors.New("retryable embedding failure")
	// ErrStorageUnavailable signals that the entry store could not serve the request.
	ErrStorageUnavailable = errors.New("storage unavailable")
	// ErrUnauthorized signals a missing or invalid admin credential.
	ErrUnauthorized = errors.New("unauthorized")
)

package chronofeed

import "github.com/chronofeed/chronofeed/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrValidation             = domain.ErrValidation
	ErrNotFound               = domain.ErrNotFound
	ErrEmbeddingProviderError = domain.ErrEmbeddingProviderError
	ErrStorageUnavailable     = domain.ErrStorageUnavailable
)

package embedding

import (
	"context"
	"errors"
	"time"

	"github.com/chronofeed/chronofeed/internal/domain"
)

// RetryConfig configures exponential backoff for embedding calls.
type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	Multiplier  float64
}

// DefaultRetryConfig returns sensible defaults for the embedding API.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		BaseDelay:   200 * time.Millisecond,
		MaxDelay:    5 * time.Second,
		Multiplier:  2,
	}
}

// RetryingEmbedder retries retryable provider failures (network, 429, 5xx)
// with bounded exponential backoff. Permanent failures (auth, other 4xx)
// surface immediately, as does context cancellation.
type RetryingEmbedder struct {
	inner domain.Embedder
	cfg   RetryConfig
}

// NewRetryingEmbedder creates the retry decorator.
func NewRetryingEmbedder(inner domain.Embedder, cfg RetryConfig) *RetryingEmbedder {
	if cfg.MaxAttempts <= 0 {
		cfg = DefaultRetryConfig()
	}
	return &RetryingEmbedder{inner: inner, cfg: cfg}
}

// Embed delegates to the inner embedder, retrying only failures marked
// domain.ErrEmbeddingRetryable.
func (r *RetryingEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	var lastErr error
	backoff := r.cfg.BaseDelay

	for attempt := 0; attempt < r.cfg.MaxAttempts; attempt++ {
		result, err := r.inner.Embed(ctx, text)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !errors.Is(err, domain.ErrEmbeddingRetryable) {
			return domain.EmbeddingResult{}, err
		}
		if ctx.Err() != nil {
			return domain.EmbeddingResult{}, ctx.Err()
		}

		if attempt < r.cfg.MaxAttempts-1 {
			select {
			case <-ctx.Done():
				return domain.EmbeddingResult{}, ctx.Err()
			case <-time.After(backoff):
				backoff = time.Duration(float64(backoff) * r.cfg.Multiplier)
				if backoff > r.cfg.MaxDelay {
					backoff = r.cfg.MaxDelay
				}
			}
		}
	}

	return domain.EmbeddingResult{}, lastErr
}

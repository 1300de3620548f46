package scrapers

import (
	"context"
	"fmt"
	"log"
	"time"

	"pricescout/internal/ratelimit"
)

// Retry executes fn up to cfg.MaxRetries attempts with exponential
// backoff between attempts. The backoff base comes from the site's
// limiter config and doubles per attempt.
func Retry(ctx context.Context, cfg ratelimit.Config, operation string, fn func() error) error {
	var lastErr error

	for attempt := 1; attempt <= cfg.MaxRetries; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}

		if attempt < cfg.MaxRetries {
			delay := ratelimit.CalculateBackoff(attempt, cfg)
			log.Printf("%s failed (attempt %d/%d): %v, retrying in %v",
				operation, attempt, cfg.MaxRetries, lastErr, delay)

			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operation, cfg.MaxRetries, lastErr)
}

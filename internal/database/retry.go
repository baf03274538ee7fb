package database

import (
	"fmt"
	"time"
)

var backoffs = []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}

// RetryWithBackoff executes a function with exponential backoff retry logic.
// Use it for idempotent startup checks only; request handlers never retry.
func RetryWithBackoff(fn func() error, maxRetries int) error {
	return retry(fn, maxRetries, backoffs, time.Sleep)
}

func retry(fn func() error, maxRetries int, waits []time.Duration, sleep func(time.Duration)) error {
	var lastErr error
	for i := 0; i < maxRetries; i++ {
		err := fn()
		if err == nil {
			return nil
		}

		lastErr = err
		if i < maxRetries-1 && i < len(waits) {
			sleep(waits[i])
		}
	}

	return fmt.Errorf("failed after %d retries: %w", maxRetries, lastErr)
}

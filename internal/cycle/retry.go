package cycle

import (
	"context"
	"fmt"
	"time"

	"github.com/hiepntnaa/octra-pre-client/internal/common"
)

// RetryConfig configures retry behavior for flaky node reads
type RetryConfig struct {
	MaxAttempts int
	Delay       time.Duration
	BackoffRate float64
}

// DefaultRetryConfig returns the retry policy used for the encrypted balance
// fetch: three attempts, a fixed five second pause.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		Delay:       5 * time.Second,
		BackoffRate: 1,
	}
}

// Retry runs operation until it succeeds or MaxAttempts is reached. It sleeps
// only between attempts, and stops early when ctx is done.
func Retry(ctx context.Context, clock common.Clock, config RetryConfig, operation func(context.Context) error) error {
	attempts := config.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	rate := config.BackoffRate
	if rate <= 0 {
		rate = 1
	}

	var lastErr error
	delay := config.Delay

	for attempt := 1; attempt <= attempts; attempt++ {
		if err := operation(ctx); err == nil {
			return nil
		} else {
			lastErr = err
		}
		if attempt == attempts {
			break
		}
		if err := clock.Sleep(ctx, delay); err != nil {
			return err
		}
		delay = time.Duration(float64(delay) * rate)
	}

	return fmt.Errorf("operation failed after %d attempts: %w", attempts, lastErr)
}

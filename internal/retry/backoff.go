package retry

import (
	"context"
	"time"

	goretry "github.com/sethvargo/go-retry"
)

// Do calls fn up to attempts times (at least once), waiting with exponential
// backoff starting at base between failures. It returns nil on the first
// success, the last error once attempts run out, or the context error if ctx
// ends while waiting.
func Do(ctx context.Context, attempts int, base time.Duration, fn func(context.Context) error) error {
	retries := uint64(0)
	if attempts > 1 {
		retries = uint64(attempts - 1)
	}
	backoff := goretry.WithMaxRetries(retries, goretry.NewExponential(base))
	return goretry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := fn(ctx); err != nil {
			return goretry.RetryableError(err)
		}
		return nil
	})
}

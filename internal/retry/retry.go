// Package retry wraps exponential backoff for operations that are safe to
// repeat. The bootstrap flow itself never retries a single stage; the only
// legitimate unit of repetition is a whole flow run, because tokens and
// minted credentials cannot be reused across attempts.
package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Permanent marks an error as not worth retrying, e.g. rejected client
// credentials.
func Permanent(err error) error {
	return backoff.Permanent(err)
}

// Do runs op up to attempts times with exponential backoff between runs.
func Do(ctx context.Context, attempts uint64, initialInterval time.Duration, op func() error) error {
	if attempts == 0 {
		attempts = 1
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = initialInterval

	return backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(bo, attempts-1), ctx))
}

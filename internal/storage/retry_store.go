package storage

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/avast/retry-go"
)

const (
	DefaultRetryAttempts = 3
	DefaultRetryDelay    = 100 * time.Millisecond
)

// RetryStore retries failed operations on the wrapped Store with exponential backoff.
// ErrNotFound and context cancellation are returned immediately.
type RetryStore struct {
	store    Store
	attempts uint
	delay    time.Duration
}

func NewRetryStore(store Store, attempts uint, delay time.Duration) *RetryStore {
	if attempts == 0 {
		attempts = DefaultRetryAttempts
	}
	if delay <= 0 {
		delay = DefaultRetryDelay
	}
	return &RetryStore{
		store:    store,
		attempts: attempts,
		delay:    delay,
	}
}

func (s *RetryStore) do(ctx context.Context, operation, key string, fn func() error) error {
	return retry.Do(
		fn,
		retry.Context(ctx),
		retry.Attempts(s.attempts),
		retry.Delay(s.delay),
		retry.DelayType(func(n uint, err error, config *retry.Config) time.Duration {
			return retry.BackOffDelay(n, err, config)
		}),
		retry.LastErrorOnly(true),
		retry.RetryIf(isRetryable),
		retry.OnRetry(func(n uint, err error) {
			slog.Default().Warn("Retrying storage operation",
				"operation", operation,
				"key", key,
				"attempt", n+1,
				"error", err)
		}),
	)
}

func isRetryable(err error) bool {
	if errors.Is(err, ErrNotFound) {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return true
}

func (s *RetryStore) Load(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.do(ctx, "load", key, func() error {
		var err error
		value, err = s.store.Load(ctx, key)
		return err
	})
	if err != nil {
		return nil, err
	}
	return value, nil
}

func (s *RetryStore) Save(ctx context.Context, key string, value []byte) error {
	err := s.do(ctx, "save", key, func() error {
		return s.store.Save(ctx, key, value)
	})
	if err != nil {
		slog.Default().Error("Failed to save record", "key", key, "error", err)
	}
	return err
}

func (s *RetryStore) Delete(ctx context.Context, keys ...string) error {
	return s.do(ctx, "delete", "", func() error {
		return s.store.Delete(ctx, keys...)
	})
}

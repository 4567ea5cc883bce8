package db

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

// DefaultConnectTimeout bounds how long Connect keeps retrying.
const DefaultConnectTimeout = time.Minute

var errUnsupportedDriver = errors.New("unsupported database driver")

// Connect opens the repository, retrying with exponential backoff while the
// database is unreachable. An invalid configuration fails immediately.
func Connect(ctx context.Context, cfg *Config, logger *zap.Logger, timeout time.Duration) (*Repository, error) {
	if timeout <= 0 {
		timeout = DefaultConnectTimeout
	}
	if _, err := cfg.dialector(); err != nil {
		return nil, err
	}

	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = timeout

	var repo *Repository
	attempt := 0
	err := backoff.RetryNotify(func() error {
		attempt++
		r, err := NewRepository(cfg)
		if err != nil {
			return err
		}
		repo = r
		return nil
	}, backoff.WithContext(b, ctx), func(err error, wait time.Duration) {
		logger.Warn("Database not ready, retrying",
			zap.Int("attempt", attempt),
			zap.Duration("wait", wait),
			zap.Error(err),
		)
	})
	if err != nil {
		return nil, err
	}
	return repo, nil
}

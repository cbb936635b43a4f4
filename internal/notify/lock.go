package notify

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"aqmsnotify/internal/logging"
)

const lockRetryDelay = 250 * time.Millisecond

// ErrEventLocked reports that another run holds the lock for the same event.
var ErrEventLocked = errors.New("another notification run holds the event lock")

// acquireLock takes <lockDir>/<eventID>.lock. An empty lockDir disables locking.
func (r *Runner) acquireLock(ctx context.Context, eventID string) (func(), error) {
	if r.lockDir == "" {
		return func() {}, nil
	}
	if err := os.MkdirAll(r.lockDir, 0o755); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}

	lock := flock.New(filepath.Join(r.lockDir, eventID+".lock"))

	var (
		ok  bool
		err error
	)
	if r.lockTimeout > 0 {
		lockCtx, cancel := context.WithTimeout(ctx, r.lockTimeout)
		defer cancel()
		ok, err = lock.TryLockContext(lockCtx, lockRetryDelay)
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return nil, fmt.Errorf("%w: %s (waited %s)", ErrEventLocked, eventID, r.lockTimeout)
		}
	} else {
		ok, err = lock.TryLock()
	}
	if err != nil {
		return nil, fmt.Errorf("acquire event lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrEventLocked, eventID)
	}

	return func() {
		if err := lock.Unlock(); err != nil {
			r.logger.Warn("release event lock failed", logging.String("path", lock.Path()), logging.Error(err))
		}
	}, nil
}

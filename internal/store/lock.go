package store

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"github.com/stormlightlabs/docsift/internal/errors"
)

const lockRetry = 100 * time.Millisecond

// Lock is a cross-process build lock stored next to an artifact.
type Lock struct {
	path   string
	flock  *flock.Flock
	locked bool
}

// NewLock returns the lock guarding the artifact at artifactPath. The lock
// file is <artifactPath>.lock.
func NewLock(artifactPath string) *Lock {
	p := artifactPath + ".lock"
	return &Lock{path: p, flock: flock.New(p)}
}

// Acquire blocks until the lock is held or ctx ends. A context that ends
// first yields an IndexLocked error.
func (l *Lock) Acquire(ctx context.Context) error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("failed to create lock directory: %w", err)
	}

	ok, err := l.flock.TryLockContext(ctx, lockRetry)
	if err != nil {
		if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
			return errors.New(errors.ErrCodeIndexLocked, "another build holds the index lock", err).
				WithDetail("lock", l.path)
		}
		return fmt.Errorf("failed to acquire lock: %w", err)
	}
	if !ok {
		return errors.New(errors.ErrCodeIndexLocked, "another build holds the index lock", nil).
			WithDetail("lock", l.path)
	}
	l.locked = true
	return nil
}

// TryAcquire takes the lock without waiting and reports whether it did.
func (l *Lock) TryAcquire() (bool, error) {
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return false, fmt.Errorf("failed to create lock directory: %w", err)
	}
	ok, err := l.flock.TryLock()
	if err != nil {
		return false, fmt.Errorf("failed to acquire lock: %w", err)
	}
	l.locked = ok
	return ok, nil
}

// Release unlocks. Releasing an unheld lock is a no-op.
func (l *Lock) Release() error {
	if !l.locked {
		return nil
	}
	l.locked = false
	if err := l.flock.Unlock(); err != nil {
		return fmt.Errorf("failed to release lock: %w", err)
	}
	return nil
}

// Path returns the lock file path.
func (l *Lock) Path() string { return l.path }

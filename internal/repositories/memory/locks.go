package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/SscSPs/ledger_txn_processor/internal/apperrors"
)

// lockTable hands out one exclusive lock per key. A lock is a buffered channel of size one:
// sending acquires it, receiving releases it.
type lockTable struct {
	mu    sync.Mutex
	locks map[string]chan struct{}
}

func newLockTable() *lockTable {
	return &lockTable{locks: make(map[string]chan struct{})}
}

func (t *lockTable) slot(key string) chan struct{} {
	t.mu.Lock()
	defer t.mu.Unlock()
	ch, ok := t.locks[key]
	if !ok {
		ch = make(chan struct{}, 1)
		t.locks[key] = ch
	}
	return ch
}

// acquire blocks until the lock for key is free, timeout elapses or ctx is done. Both failure
// cases surface as ErrResourceBusy.
func (t *lockTable) acquire(ctx context.Context, key string, timeout time.Duration) error {
	ch := t.slot(key)

	select {
	case ch <- struct{}{}:
		return nil
	default:
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case ch <- struct{}{}:
		return nil
	case <-timer.C:
		return apperrors.NewAppError(apperrors.ErrResourceBusy,
			fmt.Sprintf("lock wait on account %s exceeded %s", key, timeout), nil)
	case <-ctx.Done():
		return apperrors.NewAppError(apperrors.ErrResourceBusy,
			fmt.Sprintf("lock wait on account %s cancelled", key), ctx.Err())
	}
}

func (t *lockTable) release(key string) {
	select {
	case <-t.slot(key):
	default:
	}
}

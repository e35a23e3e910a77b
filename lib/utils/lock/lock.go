// Package lock provides small in-process keyed locks. The sync pipeline
// uses them to keep concurrent runs for the same integration from
// interleaving writes.
package lock

import (
	"context"
	"sync"
	"time"
)

var lockMap sync.Map

const retryInterval = 50 * time.Millisecond

// WithDelay runs safeCode while holding the lock named by key. When the
// lock is not acquired within wait, or the context ends first, it returns
// success=false without running safeCode.
func WithDelay(ctx context.Context, key string, wait time.Duration, safeCode func() error) (success bool, err error) {
	timeout := time.After(wait)
	for {
		if _, held := lockMap.LoadOrStore(key, struct{}{}); !held {
			defer lockMap.Delete(key)
			return true, safeCode()
		}
		select {
		case <-timeout:
			return false, nil
		case <-ctx.Done():
			return false, nil
		case <-time.After(retryInterval):
		}
	}
}

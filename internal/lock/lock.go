// Package lock serialises writes per key, e.g. per room.
package lock

import (
	"context"
	"errors"
	"fmt"
)

// ErrLockTimeout is returned when the context ends before the lock is acquired.
var ErrLockTimeout = errors.New("lock acquisition timed out")

// Unlock releases a held lock. Calling it more than once is a no-op.
type Unlock func()

// Locker grants mutual exclusion on a key.
type Locker interface {
	// Lock blocks until key is held or ctx is done.
	Lock(ctx context.Context, key string) (Unlock, error)
}

// RoomKey is the lock key of a room.
func RoomKey(roomID uint64) string {
	return fmt.Sprintf("room:%d", roomID)
}

func timeout(ctx context.Context, key string) error {
	return fmt.Errorf("%w: %s: %w", ErrLockTimeout, key, ctx.Err())
}

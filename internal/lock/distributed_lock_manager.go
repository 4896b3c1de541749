package lock

import "context"

// DistributedLockManager serializes work across instances sharing a database.
type DistributedLockManager interface {
	Acquire(ctx context.Context, lockID int64) error
	Release(ctx context.Context, lockID int64) error
}

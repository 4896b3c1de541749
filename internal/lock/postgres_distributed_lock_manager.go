package lock

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"
)

const defaultLockTimeout = 5 * time.Second

// PostgresDistributedLockManager uses session-level advisory locks. The lock
// belongs to a connection, so each held lock pins one pooled connection
// until it is released.
type PostgresDistributedLockManager struct {
	db      *sql.DB
	timeout time.Duration

	mu    sync.Mutex
	conns map[int64]*sql.Conn
}

func NewPostgresDistributedLockManager(db *sql.DB) *PostgresDistributedLockManager {
	return &PostgresDistributedLockManager{
		db:      db,
		timeout: defaultLockTimeout,
		conns:   map[int64]*sql.Conn{},
	}
}

func (l *PostgresDistributedLockManager) Acquire(ctx context.Context, lockID int64) error {
	l.mu.Lock()
	_, held := l.conns[lockID]
	l.mu.Unlock()
	if held {
		return fmt.Errorf("failed to acquire lock %d: already held by this instance", lockID)
	}

	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	conn, err := l.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}
	if _, err := conn.ExecContext(ctx, "SELECT pg_advisory_lock($1)", lockID); err != nil {
		_ = conn.Close()
		return fmt.Errorf("failed to acquire lock: %w", err)
	}

	l.mu.Lock()
	l.conns[lockID] = conn
	l.mu.Unlock()
	return nil
}

func (l *PostgresDistributedLockManager) Release(ctx context.Context, lockID int64) error {
	l.mu.Lock()
	conn, ok := l.conns[lockID]
	delete(l.conns, lockID)
	l.mu.Unlock()
	if !ok {
		return fmt.Errorf("failed to release lock %d: not held", lockID)
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	if _, err := conn.ExecContext(ctx, "SELECT pg_advisory_unlock($1)", lockID); err != nil {
		return fmt.Errorf("failed to release lock: %w", err)
	}
	return nil
}

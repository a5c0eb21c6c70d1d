package migration

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// migrationLockKey is the postgres advisory lock id held while migrating.
const migrationLockKey int64 = 5_311_204_877

var ErrMigrationLocked = errors.New("migration_locked")

// migrationLock pins the session that owns the advisory lock. Postgres
// advisory locks belong to a session, so lock and unlock must share a
// connection.
type migrationLock struct {
	conn *sql.Conn
}

func acquireAdvisoryLock(ctx context.Context, db *sql.DB) (*migrationLock, error) {
	if db == nil {
		return nil, errors.New("advisory lock requires database handle")
	}

	conn, err := db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("reserve lock connection: %w", err)
	}

	var locked bool
	if err := conn.QueryRowContext(ctx, "SELECT pg_try_advisory_lock($1)", migrationLockKey).Scan(&locked); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("acquire advisory lock: %w", err)
	}
	if !locked {
		_ = conn.Close()
		return nil, ErrMigrationLocked
	}
	return &migrationLock{conn: conn}, nil
}

// release unlocks and returns the connection to the pool.
func (l *migrationLock) release(ctx context.Context) error {
	defer l.conn.Close()

	var released bool
	if err := l.conn.QueryRowContext(ctx, "SELECT pg_advisory_unlock($1)", migrationLockKey).Scan(&released); err != nil {
		return fmt.Errorf("release advisory lock: %w", err)
	}
	if !released {
		return errors.New("advisory lock was not held by this session")
	}
	return nil
}

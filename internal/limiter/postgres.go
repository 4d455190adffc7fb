package limiter

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PG is a PostgreSQL-backed limiter with a sliding failure window: failures
// older than the window restart the count, and reaching maxFails blocks the
// (email, IP) pair for blockFor.
type PG struct {
	pool     pgxQuerier
	window   time.Duration
	maxFails int
	blockFor time.Duration
}

type pgxQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// NewPG constructs a PostgreSQL-backed limiter.
func NewPG(pool *pgxpool.Pool, window time.Duration, maxFails int, blockFor time.Duration) *PG {
	return &PG{pool: pool, window: window, maxFails: maxFails, blockFor: blockFor}
}

// NewPGWithQuerier constructs a limiter over any pgx-compatible querier (tests).
func NewPGWithQuerier(q pgxQuerier, window time.Duration, maxFails int, blockFor time.Duration) *PG {
	return &PG{pool: q, window: window, maxFails: maxFails, blockFor: blockFor}
}

// Check reports the remaining lockout for (email, ip), zero if none.
func (l *PG) Check(ctx context.Context, email string, ipHash []byte) (time.Duration, error) {
	const q = `SELECT blocked_until FROM login_attempts WHERE email=$1 AND ip_hash=$2`
	var blockedUntil time.Time
	err := l.pool.QueryRow(ctx, q, email, ipHash).Scan(&blockedUntil)
	switch {
	case err == nil:
		if remaining := time.Until(blockedUntil); remaining > 0 {
			return remaining, nil
		}
		return 0, nil
	case errors.Is(err, pgx.ErrNoRows):
		return 0, nil
	default:
		return 0, err
	}
}

// RecordFailure bumps the failure count, restarting it when the previous
// failure fell outside the window, and installs a lockout once the count
// reaches the threshold.
func (l *PG) RecordFailure(ctx context.Context, email string, ipHash []byte) (time.Duration, error) {
	const q = `
INSERT INTO login_attempts (email, ip_hash, fail_count, blocked_until, updated_at)
VALUES ($1, $2, 1, 'epoch', now())
ON CONFLICT (email, ip_hash) DO UPDATE
SET fail_count = CASE
      WHEN now() - login_attempts.updated_at > $3::interval THEN 1
      ELSE login_attempts.fail_count + 1
    END,
    updated_at = now()
RETURNING fail_count`
	var fails int
	if err := l.pool.QueryRow(ctx, q, email, ipHash, l.window).Scan(&fails); err != nil {
		return 0, err
	}
	if fails < l.maxFails {
		return 0, nil
	}
	const upd = `UPDATE login_attempts SET blocked_until=$3 WHERE email=$1 AND ip_hash=$2`
	if _, err := l.pool.Exec(ctx, upd, email, ipHash, time.Now().Add(l.blockFor)); err != nil {
		return 0, err
	}
	return l.blockFor, nil
}

// Reset clears counters for (email, ip) after a successful login.
func (l *PG) Reset(ctx context.Context, email string, ipHash []byte) error {
	const q = `
INSERT INTO login_attempts (email, ip_hash, fail_count, blocked_until, updated_at)
VALUES ($1, $2, 0, 'epoch', now())
ON CONFLICT (email, ip_hash)
DO UPDATE SET fail_count=0, blocked_until='epoch', updated_at=now()`
	_, err := l.pool.Exec(ctx, q, email, ipHash)
	return err
}

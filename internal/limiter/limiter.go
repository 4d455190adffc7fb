// Package limiter implements login throttling with temporary lockouts.
package limiter

import (
	"context"
	"crypto/sha256"
	"time"
)

// Limiter controls login attempts per (email, client IP).
type Limiter interface {
	// Check returns how long the caller must wait before another attempt;
	// zero means the attempt is allowed now.
	Check(ctx context.Context, email string, ipHash []byte) (time.Duration, error)
	// RecordFailure registers a failed attempt and returns the lockout
	// duration if the failure threshold was reached; zero means no lockout.
	RecordFailure(ctx context.Context, email string, ipHash []byte) (time.Duration, error)
	// Reset clears counters after a successful login.
	Reset(ctx context.Context, email string, ipHash []byte) error
}

// HashIP returns a stable hash for an IP string to avoid storing raw addresses.
func HashIP(ip string) []byte {
	h := sha256.Sum256([]byte(ip))
	return h[:]
}

// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import "errors"

// Validation failures returned by the write pipeline. The messages are
// user-facing and returned verbatim.
var (
	// ErrNationalIDTaken indicates another user already holds the national ID.
	ErrNationalIDTaken = errors.New("a user already exists with the same national ID")

	// ErrNationalIDFormat indicates the national ID is not 8 digits + 1 uppercase letter.
	ErrNationalIDFormat = errors.New("invalid national ID format")

	// ErrEmailFormat indicates the email does not match local@domain.tld.
	ErrEmailFormat = errors.New("invalid email format")

	// ErrEmailTaken indicates another user already holds the email.
	ErrEmailTaken = errors.New("a user already exists with that email")
)

// Common sentinels across repo/service layers.
var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("user not found")

	// ErrDeleteFailed indicates a delete targeted a user that does not exist.
	ErrDeleteFailed = errors.New("could not delete user")

	// ErrUnauthorized indicates failed authentication.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrRateLimited indicates temporary login lock due to rate limiting.
	ErrRateLimited = errors.New("rate limited")

	// ErrInternal is the generic write-path failure; persistence details never
	// reach the caller.
	ErrInternal = errors.New("server error")

	// ErrQueryFailed is the generic delete-path persistence failure.
	ErrQueryFailed = errors.New("database query error")
)

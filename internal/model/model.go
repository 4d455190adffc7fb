// Package model defines domain entities used by services and repositories.
package model

import (
	"time"

	"github.com/gofrs/uuid/v5"
)

// User is a registered account holder. The password is stored only as an
// argon2id hash with the salt embedded in the encoded form.
type User struct {
	ID         uuid.UUID // PK, generated by the store
	Name       string
	Surname    string
	NationalID string // unique, 8 digits + 1 uppercase letter
	Email      string // unique, login identifier
	PwdHash    []byte
	CreatedAt  time.Time
}

// Account is a bank account owned by a user. Accounts are read through the
// user join but never mutated by this component.
type Account struct {
	ID            uuid.UUID
	AccountNumber string
	Balance       int64     // minor units
	UserID        uuid.UUID // FK -> users.id
}

// UserWithAccounts is the join projection: a user plus every account owned
// by them. Accounts is always non-nil; a user without accounts carries an
// empty slice.
type UserWithAccounts struct {
	User
	Accounts []Account
}

// UserInput carries the candidate fields for creating or overwriting a user.
// The password is plaintext here and hashed before it reaches storage.
type UserInput struct {
	Name       string
	Surname    string
	NationalID string
	Email      string
	Password   string
}

// Tokens collects issued access tokens.
type Tokens struct {
	AccessToken string
	ExpiresAt   time.Time // access token expiry (for diagnostics)
}

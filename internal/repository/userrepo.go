// Package repository defines storage interfaces implemented by concrete backends.
package repository

import (
	"context"

	"github.com/cobo/bankd/internal/model"
	"github.com/gofrs/uuid/v5"
)

// UserRepository provides CRUD access for users and their joined accounts.
type UserRepository interface {
	// Create inserts a new user.
	Create(ctx context.Context, u *model.User) error
	// Update overwrites every mutable field of an existing user.
	Update(ctx context.Context, u *model.User) error
	// Delete removes a user by ID.
	Delete(ctx context.Context, id uuid.UUID) error
	// ListWithAccounts returns every user with their accounts joined in.
	ListWithAccounts(ctx context.Context) ([]model.UserWithAccounts, error)
	// GetByEmailWithAccounts loads one user by email with accounts joined in.
	GetByEmailWithAccounts(ctx context.Context, email string) (*model.UserWithAccounts, error)
	// EmailInUse reports whether any user other than selfID holds the email.
	EmailInUse(ctx context.Context, email string, selfID uuid.UUID) (bool, error)
	// NationalIDInUse reports whether any user other than selfID holds the national ID.
	NationalIDInUse(ctx context.Context, nationalID string, selfID uuid.UUID) (bool, error)
}

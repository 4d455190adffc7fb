// Package dto defines request and response bodies for the HTTP transport.
package dto

import (
	"time"

	"github.com/cobo/bankd/internal/model"
)

// UserRequest is the body for creating or overwriting a user. Format and
// uniqueness checks happen in the service; binding only rejects missing fields.
type UserRequest struct {
	Name       string `json:"name" binding:"required"`
	Surname    string `json:"surname" binding:"required"`
	NationalID string `json:"national_id" binding:"required"`
	Email      string `json:"email" binding:"required"`
	Password   string `json:"password" binding:"required"`
}

// Input converts the request into the service input shape.
func (r UserRequest) Input() model.UserInput {
	return model.UserInput{
		Name:       r.Name,
		Surname:    r.Surname,
		NationalID: r.NationalID,
		Email:      r.Email,
		Password:   r.Password,
	}
}

// LoginRequest is the body for the /login endpoint.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AccountResponse is the account projection returned inside a user.
type AccountResponse struct {
	ID            string `json:"id"`
	AccountNumber string `json:"account_number"`
	Balance       int64  `json:"balance"`
}

// UserResponse is the user-with-accounts projection. The password hash never
// appears here.
type UserResponse struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	Surname    string            `json:"surname"`
	NationalID string            `json:"national_id"`
	Email      string            `json:"email"`
	Accounts   []AccountResponse `json:"accounts"`
}

// NewUserResponse maps the domain projection onto the wire shape.
func NewUserResponse(u model.UserWithAccounts) UserResponse {
	accs := make([]AccountResponse, 0, len(u.Accounts))
	for _, a := range u.Accounts {
		accs = append(accs, AccountResponse{
			ID:            a.ID.String(),
			AccountNumber: a.AccountNumber,
			Balance:       a.Balance,
		})
	}
	return UserResponse{
		ID:         u.ID.String(),
		Name:       u.Name,
		Surname:    u.Surname,
		NationalID: u.NationalID,
		Email:      u.Email,
		Accounts:   accs,
	}
}

// TokenResponse carries an issued access token.
type TokenResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

// ErrorResponse carries a single user-facing error message.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse carries a single informational message.
type MessageResponse struct {
	Message string `json:"message"`
}

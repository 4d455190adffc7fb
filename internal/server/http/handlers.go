// Package httpserver exposes the user store over HTTP with gin.
package httpserver

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"

	"github.com/cobo/bankd/internal/errs"
	"github.com/cobo/bankd/internal/model"
	"github.com/cobo/bankd/internal/server/http/dto"
)

// UserService is the slice of the application service this transport needs.
// The interface lives on the consumer side.
type UserService interface {
	AddUser(ctx context.Context, in model.UserInput) error
	UpdateUser(ctx context.Context, id uuid.UUID, in model.UserInput) error
	DeleteUser(ctx context.Context, id uuid.UUID) error
	ListUsers(ctx context.Context) []model.UserWithAccounts
	Login(ctx context.Context, email, password, ip string) (model.Tokens, model.UserWithAccounts, error)
}

// UserHandler handles the user CRUD and login endpoints.
type UserHandler struct {
	svc UserService
	log *zap.Logger
}

// NewUserHandler constructs a UserHandler.
func NewUserHandler(svc UserService, log *zap.Logger) *UserHandler {
	return &UserHandler{svc: svc, log: log}
}

// Create handles POST /users.
func (h *UserHandler) Create(c *gin.Context) {
	var req dto.UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request"})
		return
	}
	if err := h.svc.AddUser(c.Request.Context(), req.Input()); err != nil {
		c.JSON(writeStatus(err), dto.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusCreated, dto.MessageResponse{Message: "ok"})
}

// Update handles PUT /users/:id.
func (h *UserHandler) Update(c *gin.Context) {
	id, err := uuid.FromString(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid user id"})
		return
	}
	var req dto.UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request"})
		return
	}
	if err := h.svc.UpdateUser(c.Request.Context(), id, req.Input()); err != nil {
		c.JSON(writeStatus(err), dto.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "ok"})
}

// Delete handles DELETE /users/:id.
func (h *UserHandler) Delete(c *gin.Context) {
	id, err := uuid.FromString(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid user id"})
		return
	}
	if err := h.svc.DeleteUser(c.Request.Context(), id); err != nil {
		c.JSON(writeStatus(err), dto.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "ok"})
}

// List handles GET /users.
func (h *UserHandler) List(c *gin.Context) {
	users := h.svc.ListUsers(c.Request.Context())
	out := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, dto.NewUserResponse(u))
	}
	c.JSON(http.StatusOK, out)
}

// Login handles POST /login.
func (h *UserHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request"})
		return
	}
	tokens, user, err := h.svc.Login(c.Request.Context(), req.Email, req.Password, c.ClientIP())
	switch {
	case errors.Is(err, errs.ErrRateLimited):
		c.JSON(http.StatusTooManyRequests, dto.ErrorResponse{Error: "too many attempts, try again later"})
		return
	case errors.Is(err, errs.ErrUnauthorized):
		// single message regardless of cause, so user existence is not revealed
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "invalid email or password"})
		return
	case err != nil:
		h.log.Error("login", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: errs.ErrInternal.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.TokenResponse{
		Token:     tokens.AccessToken,
		ExpiresAt: tokens.ExpiresAt,
		User:      dto.NewUserResponse(user),
	})
}

// Health handles GET /healthz.
func Health(c *gin.Context) {
	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// writeStatus maps write-path sentinels onto HTTP status codes. Validation
// failures surface verbatim as 400s; persistence failures stay generic 500s.
func writeStatus(err error) int {
	switch {
	case errors.Is(err, errs.ErrNationalIDTaken),
		errors.Is(err, errs.ErrNationalIDFormat),
		errors.Is(err, errs.ErrEmailFormat),
		errors.Is(err, errs.ErrEmailTaken):
		return http.StatusBadRequest
	case errors.Is(err, errs.ErrNotFound), errors.Is(err, errs.ErrDeleteFailed):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

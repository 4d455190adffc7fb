// Package service contains the application service owning user CRUD,
// validation, and credential authentication.
package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	pkgcrypto "github.com/cobo/bankd/internal/crypto"
	"github.com/cobo/bankd/internal/errs"
	"github.com/cobo/bankd/internal/limiter"
	"github.com/cobo/bankd/internal/model"
	"github.com/cobo/bankd/internal/repository"
	"github.com/gofrs/uuid/v5"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// Candidate field formats. The national ID is 8 digits followed by one
// uppercase letter; the email is a standard local@domain.tld with a TLD of
// at least 2 letters.
var (
	nationalIDRe = regexp.MustCompile(`^\d{8}[A-Z]$`)
	emailRe      = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
)

// UserService defines user CRUD and authentication operations.
//
// Write operations fail loud with user-facing sentinel errors; read
// operations fail soft, degrading to empty results with a log entry as the
// only signal.
type UserService interface {
	// AddUser validates the candidate and inserts a new user.
	AddUser(ctx context.Context, in model.UserInput) error
	// UpdateUser re-validates and overwrites every field of an existing user.
	UpdateUser(ctx context.Context, id uuid.UUID, in model.UserInput) error
	// DeleteUser removes a user by id.
	DeleteUser(ctx context.Context, id uuid.UUID) error
	// ListUsers returns every user with accounts; empty on failure.
	ListUsers(ctx context.Context) []model.UserWithAccounts
	// GetUser authenticates by email/password; zero value on any failure.
	GetUser(ctx context.Context, email, password string) model.UserWithAccounts
	// Login authenticates with rate limiting and issues an access token.
	Login(ctx context.Context, email, password, ip string) (model.Tokens, model.UserWithAccounts, error)
}

type UserServiceImpl struct {
	users     repository.UserRepository
	log       *zap.Logger
	signKey   []byte
	accessTTL time.Duration
	lim       limiter.Limiter
}

// NewUserService constructs UserService with required dependencies.
func NewUserService(users repository.UserRepository, log *zap.Logger, signKey []byte, accessTTL time.Duration, lim limiter.Limiter) *UserServiceImpl {
	return &UserServiceImpl{users: users, log: log, signKey: signKey, accessTTL: accessTTL, lim: lim}
}

// AddUser runs the validation pipeline, then inserts the user with a freshly
// generated id and the password hashed.
func (s *UserServiceImpl) AddUser(ctx context.Context, in model.UserInput) error {
	if err := s.validate(ctx, &in, uuid.Nil); err != nil {
		return err
	}
	id, err := uuid.NewV4()
	if err != nil {
		s.log.Error("generate user id", zap.Error(err))
		return errs.ErrInternal
	}
	hash, err := pkgcrypto.HashPassword(in.Password)
	if err != nil {
		s.log.Error("hash password", zap.Error(err))
		return errs.ErrInternal
	}
	u := &model.User{
		ID:         id,
		Name:       in.Name,
		Surname:    in.Surname,
		NationalID: in.NationalID,
		Email:      in.Email,
		PwdHash:    hash,
	}
	if err := s.users.Create(ctx, u); err != nil {
		// Constraint backstop keeps its specific message.
		if errors.Is(err, errs.ErrEmailTaken) || errors.Is(err, errs.ErrNationalIDTaken) {
			return err
		}
		s.log.Error("create user", zap.Error(err))
		return errs.ErrInternal
	}
	return nil
}

// UpdateUser re-runs the full validation pipeline against the proposed values,
// excluding the record's own id from the uniqueness scans, then overwrites
// every field wholesale.
func (s *UserServiceImpl) UpdateUser(ctx context.Context, id uuid.UUID, in model.UserInput) error {
	if err := s.validate(ctx, &in, id); err != nil {
		return err
	}
	hash, err := pkgcrypto.HashPassword(in.Password)
	if err != nil {
		s.log.Error("hash password", zap.Error(err))
		return errs.ErrInternal
	}
	u := &model.User{
		ID:         id,
		Name:       in.Name,
		Surname:    in.Surname,
		NationalID: in.NationalID,
		Email:      in.Email,
		PwdHash:    hash,
	}
	if err := s.users.Update(ctx, u); err != nil {
		switch {
		case errors.Is(err, errs.ErrNotFound):
			return errs.ErrNotFound
		case errors.Is(err, errs.ErrEmailTaken), errors.Is(err, errs.ErrNationalIDTaken):
			return err
		}
		s.log.Error("update user", zap.Error(err))
		return errs.ErrInternal
	}
	return nil
}

// DeleteUser removes a user by id.
func (s *UserServiceImpl) DeleteUser(ctx context.Context, id uuid.UUID) error {
	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return errs.ErrDeleteFailed
		}
		s.log.Error("delete user", zap.Error(err))
		return errs.ErrQueryFailed
	}
	return nil
}

// ListUsers returns every user with their accounts merged in. Failures are
// logged and swallowed: the caller gets an empty slice.
func (s *UserServiceImpl) ListUsers(ctx context.Context) []model.UserWithAccounts {
	users, err := s.users.ListWithAccounts(ctx)
	if err != nil {
		s.log.Error("list users", zap.Error(err))
		return []model.UserWithAccounts{}
	}
	for i := range users {
		users[i].PwdHash = nil
	}
	return users
}

// GetUser authenticates by email/password and returns the matched user with
// accounts. Any failure, including wrong credentials, degrades to the zero
// value; query errors are logged.
func (s *UserServiceImpl) GetUser(ctx context.Context, email, password string) model.UserWithAccounts {
	u, err := s.authenticate(ctx, email, password)
	if err != nil {
		if !errors.Is(err, errs.ErrNotFound) && !errors.Is(err, errs.ErrUnauthorized) {
			s.log.Error("get user", zap.Error(err))
		}
		return model.UserWithAccounts{Accounts: []model.Account{}}
	}
	out := *u
	out.PwdHash = nil
	return out
}

// Login authenticates with rate limiting by (email, ip) and issues a signed
// access token.
func (s *UserServiceImpl) Login(ctx context.Context, email, password, ip string) (model.Tokens, model.UserWithAccounts, error) {
	ipHash := limiter.HashIP(ip)

	wait, err := s.lim.Check(ctx, email, ipHash)
	if err != nil {
		return model.Tokens{}, model.UserWithAccounts{}, err
	}
	if wait > 0 {
		return model.Tokens{}, model.UserWithAccounts{}, errs.ErrRateLimited
	}

	u, err := s.authenticate(ctx, email, password)
	if err != nil {
		if blocked, ferr := s.lim.RecordFailure(ctx, email, ipHash); ferr == nil && blocked > 0 {
			return model.Tokens{}, model.UserWithAccounts{}, errs.ErrRateLimited
		}
		// lookup errors are masked so user existence is not revealed
		return model.Tokens{}, model.UserWithAccounts{}, errs.ErrUnauthorized
	}
	_ = s.lim.Reset(ctx, email, ipHash)

	access, exp, err := s.issueAccessToken(u.ID)
	if err != nil {
		return model.Tokens{}, model.UserWithAccounts{}, err
	}
	out := *u
	out.PwdHash = nil
	return model.Tokens{AccessToken: access, ExpiresAt: exp}, out, nil
}

// authenticate loads the user by email and verifies the password hash.
func (s *UserServiceImpl) authenticate(ctx context.Context, email, password string) (*model.UserWithAccounts, error) {
	u, err := s.users.GetByEmailWithAccounts(ctx, email)
	if err != nil {
		return nil, err
	}
	if !pkgcrypto.VerifyPassword(password, u.PwdHash) {
		return nil, errs.ErrUnauthorized
	}
	return u, nil
}

// issueAccessToken creates a signed HS256 JWT for the given subject.
func (s *UserServiceImpl) issueAccessToken(userID uuid.UUID) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(s.accessTTL)
	claims := jwt.RegisteredClaims{
		Subject:   userID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(s.signKey)
	return signed, exp, err
}

// validate is the sequential gate in front of every write. It trims the
// candidate fields, then checks in fixed order: national-ID uniqueness,
// national-ID format, email format, email uniqueness. The first failure wins.
// A failing uniqueness probe refuses the write instead of letting a possible
// duplicate through.
func (s *UserServiceImpl) validate(ctx context.Context, in *model.UserInput, selfID uuid.UUID) error {
	in.Name = strings.TrimSpace(in.Name)
	in.Surname = strings.TrimSpace(in.Surname)
	in.NationalID = strings.TrimSpace(in.NationalID)
	in.Email = strings.TrimSpace(in.Email)

	taken, err := s.users.NationalIDInUse(ctx, in.NationalID, selfID)
	if err != nil {
		s.log.Error("national ID uniqueness check", zap.Error(err))
		return errs.ErrInternal
	}
	if taken {
		return errs.ErrNationalIDTaken
	}
	if !nationalIDRe.MatchString(in.NationalID) {
		return errs.ErrNationalIDFormat
	}
	if !emailRe.MatchString(in.Email) {
		return errs.ErrEmailFormat
	}
	taken, err = s.users.EmailInUse(ctx, in.Email, selfID)
	if err != nil {
		s.log.Error("email uniqueness check", zap.Error(err))
		return errs.ErrInternal
	}
	if taken {
		return errs.ErrEmailTaken
	}
	return nil
}

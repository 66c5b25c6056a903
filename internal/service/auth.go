// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/linkcut/linkcut/internal/auth"
	"github.com/linkcut/linkcut/internal/metrics"
	"github.com/linkcut/linkcut/internal/model"
	"github.com/linkcut/linkcut/internal/repository"
)

// Auth service errors.
var (
	ErrUsernameTaken      = errors.New("username already taken")
	ErrUsernameInvalid    = errors.New("invalid username format")
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// minPasswordLength is enforced before hashing.
const minPasswordLength = 8

// Username validation regex: 3-32 chars, alphanumeric plus underscore/dot/hyphen.
var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_.-]{3,32}$`)

// AuthService handles registration, login, and token verification.
type AuthService struct {
	repo    *repository.Repository
	tokens  *auth.TokenIssuer
	metrics metrics.Recorder
}

// NewAuthService creates a new AuthService.
func NewAuthService(repo *repository.Repository, tokens *auth.TokenIssuer, recorder metrics.Recorder) *AuthService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &AuthService{
		repo:    repo,
		tokens:  tokens,
		metrics: recorder,
	}
}

// Register creates a new account with the user role.
// Admin accounts are seeded out of band; registration never grants admin.
func (s *AuthService) Register(ctx context.Context, username, password string) (*model.User, error) {
	if !usernameRegex.MatchString(username) {
		return nil, ErrUsernameInvalid
	}
	if len(password) < minPasswordLength {
		return nil, ErrPasswordTooShort
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:           ulid.Make().String(),
		Username:     username,
		PasswordHash: hash,
		Role:         model.RoleUser,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrUsernameExists) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.metrics.IncUserRegistered()

	return user, nil
}

// Login verifies credentials and issues a bearer token.
// Unknown usernames and wrong passwords both return ErrInvalidCredentials
// so callers cannot enumerate accounts.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *model.User, error) {
	user, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.metrics.IncLoginFailed()
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("failed to look up user: %w", err)
	}

	match, err := auth.VerifyPassword(password, user.PasswordHash)
	if err != nil || !match {
		s.metrics.IncLoginFailed()
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return "", nil, fmt.Errorf("failed to issue token: %w", err)
	}

	s.metrics.IncLoginSucceeded()

	return token, user, nil
}

// Authorize validates a bearer token and returns the auth context it encodes.
func (s *AuthService) Authorize(token string) (*model.AuthContext, error) {
	return s.tokens.Verify(token)
}

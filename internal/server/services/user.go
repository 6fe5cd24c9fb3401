// Package services contains server-side business logic. This file implements
// UserService, which handles registration, login, and bearer-token
// verification.
package services

import (
	"context"
	"errors"
	"time"

	"codexplain/internal/common"
	"codexplain/internal/server/auth"
	"codexplain/internal/server/config"
	"codexplain/internal/server/models"
	"codexplain/internal/server/repositories/users"
)

// UserService provides authentication-related operations:
// - Register: create users
// - Login: verify credentials and mint a token
// - Authenticate: resolve a presented token back to an identity
//
// Deliberately absent: account lockout, rate limiting, and password reset.
// Brute-force protection is a known gap of this service, not an oversight.
type UserService struct {
	repo                  users.Repository
	jwtSecret             []byte
	tokenValidityDuration time.Duration
}

// NewUserService constructs a UserService using the credential repository and
// server config.
func NewUserService(repo users.Repository, cfg *config.Config) *UserService {
	return &UserService{
		repo:                  repo,
		jwtSecret:             []byte(cfg.SecretKey),
		tokenValidityDuration: cfg.TokenValidityDuration,
	}
}

// Register creates a new user with the given email and password. The email
// must not already exist (case-sensitive exact match); a duplicate yields
// common.ErrorAlreadyExists with the store unchanged.
func (s *UserService) Register(ctx context.Context, email, password string) error {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return common.ErrorInternal
	}

	user := &models.User{Email: email, PasswordHash: hash, CreatedAt: time.Now().UTC()}
	if _, err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return common.ErrorAlreadyExists
		}
		return common.ErrorInternal
	}

	return nil
}

// Login verifies the password for the given email and, on success, returns a
// signed bearer token embedding the identity. Unknown emails and wrong
// passwords are reported separately so the API can keep its historical
// messages.
func (s *UserService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrorNotFound
		}
		return "", common.ErrorInternal
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		return "", common.ErrorUnauthorized
	}

	token, err := auth.GenerateToken(user.Email, s.jwtSecret, s.tokenValidityDuration)
	if err != nil {
		return "", common.ErrorInternal
	}

	return token, nil
}

// Authenticate resolves a bearer token to the identity it carries. Any
// structural, signature, or expiry problem comes back as
// common.ErrorInvalidToken; the method never panics.
func (s *UserService) Authenticate(ctx context.Context, token string) (string, error) {
	email, err := auth.GetEmailFromToken(token, s.jwtSecret)
	if err != nil {
		return "", common.ErrorInvalidToken
	}
	return email, nil
}

// Package services contains server-side business logic. This file implements
// UserService, which handles registration, login and access-token checks.
package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/server/auth"
	"github.com/dmitrijs2005/taskkeeper/internal/server/config"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/users"
)

// UserService provides authentication-related operations:
// - Register: create users and mint their first token
// - Login: verify credentials and mint a token
// - VerifyToken: resolve a token to the user id it was issued for
type UserService struct {
	repomanager                 repomanager.RepositoryManager
	hasher                      auth.Hasher
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration

	dummyOnce sync.Once
	dummyHash string
}

// NewUserService constructs a UserService using repositories and server config.
// New passwords are hashed with hasher.
func NewUserService(m repomanager.RepositoryManager, hasher auth.Hasher, cfg *config.Config) *UserService {
	return &UserService{
		repomanager:                 m,
		hasher:                      hasher,
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
	}
}

// Register creates a user and returns it together with a fresh token.
// A taken e-mail (compared case-insensitively) yields common.ErrorAlreadyExists.
func (s *UserService) Register(ctx context.Context, name, email, password string) (*models.User, string, error) {
	name = strings.TrimSpace(name)
	email = users.NormalizeEmail(email)

	if name == "" || email == "" || strings.TrimSpace(password) == "" {
		return nil, "", fmt.Errorf("%w: name, email and password are required", common.ErrorValidation)
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return nil, "", fmt.Errorf("%w: invalid email address", common.ErrorValidation)
	}
	if len(password) > auth.MaxPasswordBytes {
		return nil, "", fmt.Errorf("%w: password must be at most %d bytes", common.ErrorValidation, auth.MaxPasswordBytes)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, "", fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{Name: name, Email: email, PasswordHash: hash}
	u, err := s.repomanager.Users(s.repomanager.Conn()).Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, "", fmt.Errorf("%w: user with this email already exists", common.ErrorAlreadyExists)
		}
		return nil, "", fmt.Errorf("error creating user: %w", err)
	}

	token, err := auth.GenerateToken(u.ID, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, "", fmt.Errorf("error generating token: %w", err)
	}

	return u, token, nil
}

// Login checks the credentials and returns the user with a fresh token.
// Unknown e-mail, wrong password and blank input all yield
// common.ErrorUnauthorized.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	email = users.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, "", common.ErrorUnauthorized
	}

	user, err := s.repomanager.Users(s.repomanager.Conn()).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// spend the same hashing time as a real check
			_, _ = auth.VerifyPassword(password, s.getDummyHash())
			return nil, "", common.ErrorUnauthorized
		}
		return nil, "", fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	ok, err := auth.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	if !ok {
		return nil, "", common.ErrorUnauthorized
	}

	token, err := auth.GenerateToken(user.ID, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, "", fmt.Errorf("error generating token: %w", err)
	}

	return user, token, nil
}

// VerifyToken returns the id of the user token was issued for, or
// common.ErrInvalidToken / common.ErrTokenExpired.
func (s *UserService) VerifyToken(token string) (string, error) {
	return auth.GetUserIDFromToken(token, s.jwtSecret)
}

// GetProfile returns the user record for userID.
func (s *UserService) GetProfile(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.repomanager.Users(s.repomanager.Conn()).GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}
	return user, nil
}

func (s *UserService) getDummyHash() string {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = s.hasher.Hash("taskkeeper-dummy-password")
	})
	return s.dummyHash
}

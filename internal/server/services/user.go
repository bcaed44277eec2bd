// This file implements UserService: registration and login orchestration on
// top of the token lifecycle engine. Credential verification failures are
// reported with distinct internal errors; the boundary layer collapses them
// into one external message so account existence does not leak.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/kriaa9/placehub/internal/common"
	"github.com/kriaa9/placehub/internal/server/models"
	"github.com/kriaa9/placehub/internal/server/password"
	"github.com/kriaa9/placehub/internal/server/repositories/repomanager"
)

// RegisterInput carries validated registration fields.
type RegisterInput struct {
	Email     string
	FirstName string
	LastName  string
	Password  string
}

// UserService handles registration and login.
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	tokens      *TokenService
	hasher      password.Hasher
}

// NewUserService constructs a UserService.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, tokens *TokenService, hasher password.Hasher) *UserService {
	return &UserService{
		db:          db,
		repomanager: m,
		tokens:      tokens,
		hasher:      hasher,
	}
}

// Register creates a new user and issues their first token pair.
// A taken email yields common.ErrDuplicateEmail.
func (s *UserService) Register(ctx context.Context, in RegisterInput, device DeviceInfo) (*models.User, *TokenPair, error) {
	repo := s.repomanager.Users(s.db)

	exists, err := repo.ExistsByEmail(ctx, in.Email)
	if err != nil {
		return nil, nil, fmt.Errorf("error checking email: %v", err)
	}
	if exists {
		return nil, nil, common.ErrDuplicateEmail
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, nil, common.ErrorInternal
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Email:        in.Email,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		PasswordHash: hash,
	}
	user, err = repo.Create(ctx, user)
	if err != nil {
		return nil, nil, fmt.Errorf("error creating user: %v", err)
	}

	pair, err := s.tokens.IssuePair(ctx, user.ID, device)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// Authenticate verifies the credentials and, on success, caps the user's
// live refresh tokens and issues a new pair. Unknown emails yield
// common.ErrUserNotFound and wrong passwords common.ErrInvalidCredentials;
// callers must not expose the distinction.
func (s *UserService) Authenticate(ctx context.Context, email, pass string, device DeviceInfo) (*models.User, *TokenPair, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil, common.ErrUserNotFound
		}
		return nil, nil, common.ErrorInternal
	}

	if !s.hasher.Compare(user.PasswordHash, pass) {
		return nil, nil, common.ErrInvalidCredentials
	}

	if err := s.tokens.CapActiveTokens(ctx, user.ID); err != nil {
		return nil, nil, common.ErrorInternal
	}

	pair, err := s.tokens.IssuePair(ctx, user.ID, device)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// GetByID loads a user by ID, used by the boundary to re-check that a
// verified token subject still exists.
func (s *UserService) GetByID(ctx context.Context, id string) (*models.User, error) {
	user, err := s.repomanager.Users(s.db).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrUserNotFound
		}
		return nil, common.ErrorInternal
	}
	return user, nil
}

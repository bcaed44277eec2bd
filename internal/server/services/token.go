// Package services contains server-side business logic. This file implements
// TokenService, the token lifecycle engine: issuing access/refresh pairs,
// rotating refresh tokens, revocation, and per-user active-token capping.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/kriaa9/placehub/internal/common"
	"github.com/kriaa9/placehub/internal/dbx"
	"github.com/kriaa9/placehub/internal/logging"
	"github.com/kriaa9/placehub/internal/server/auth"
	"github.com/kriaa9/placehub/internal/server/config"
	"github.com/kriaa9/placehub/internal/server/models"
	"github.com/kriaa9/placehub/internal/server/repositories/refreshtokens"
	"github.com/kriaa9/placehub/internal/server/repositories/repomanager"
)

// TokenPair bundles a short-lived access token and a long-lived refresh
// token, plus the access token's validity so clients can schedule renewal.
type TokenPair struct {
	AccessToken     string
	RefreshToken    string
	AccessExpiresIn time.Duration
}

// DeviceInfo carries request-derived session metadata. Both fields are
// free-text and non-authoritative.
type DeviceInfo struct {
	UserAgent string
	IPAddress string
}

// TokenService provides the token lifecycle operations:
//   - IssuePair: mint an access token and persist a new refresh record
//   - Rotate: one-shot refresh-token rotation
//   - RevokeOne / RevokeAll: explicit logout
//   - CapActiveTokens: bound the number of live refresh tokens per user
type TokenService struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	logger                       logging.Logger
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
	maxActiveTokensPerUser       int
	now                          func() time.Time
}

// NewTokenService constructs a TokenService using repositories and server
// config.
func NewTokenService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, logger logging.Logger) *TokenService {
	return &TokenService{
		db:                           db,
		repomanager:                  m,
		logger:                       logger,
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
		maxActiveTokensPerUser:       cfg.MaxActiveTokensPerUser,
		now:                          time.Now,
	}
}

// IssuePair mints an access token for the user and persists a new refresh
// token record carrying the request's device metadata. One store insert.
func (s *TokenService) IssuePair(ctx context.Context, userID string, device DeviceInfo) (*TokenPair, error) {
	return s.issuePair(ctx, userID, device, s.db)
}

// CapActiveTokens bounds the user's live refresh tokens before a new login
// issue: if the user already has maxActiveTokensPerUser or more active
// records, the oldest are revoked so that maxActiveTokensPerUser-1 remain,
// leaving room for the token about to be issued. The revocation is a single
// conditional statement, so concurrent logins cannot both observe "under
// limit" and overshoot the cap.
func (s *TokenService) CapActiveTokens(ctx context.Context, userID string) error {
	repo := s.repomanager.RefreshTokens(s.db)
	if _, err := repo.RevokeExcessActive(ctx, userID, s.maxActiveTokensPerUser-1); err != nil {
		return fmt.Errorf("error capping active tokens: %v", err)
	}
	return nil
}

// Rotate validates a presented refresh token, revokes it, and issues a new
// pair for the same user inside one transaction. Missing, revoked, and
// expired tokens all fail with common.ErrInvalidToken; the causes are not
// distinguished in the result. The conditional revoke guarantees at most
// one of any number of concurrent rotations of the same token succeeds.
// The new record captures the rotating request's device metadata.
func (s *TokenService) Rotate(ctx context.Context, refreshToken string, device DeviceInfo) (*TokenPair, error) {
	var pair *TokenPair
	err := dbx.WithTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.RefreshTokens(tx)

		userID, err := repo.RevokeIfActive(ctx, refreshToken, s.now())
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				s.logRotationReject(ctx, repo, refreshToken)
				return common.ErrInvalidToken
			}
			return fmt.Errorf("error rotating refresh token: %v", err)
		}

		pair, err = s.issuePair(ctx, userID, device, tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return pair, nil
}

// RevokeOne revokes a single refresh token. Revoking a token that does not
// exist is a silent no-op: logging out an already-invalid session is not an
// error.
func (s *TokenService) RevokeOne(ctx context.Context, refreshToken string) error {
	repo := s.repomanager.RefreshTokens(s.db)
	if err := repo.Revoke(ctx, refreshToken); err != nil {
		return fmt.Errorf("error revoking refresh token: %v", err)
	}
	return nil
}

// RevokeAll revokes every active refresh token owned by the user in one
// store operation.
func (s *TokenService) RevokeAll(ctx context.Context, userID string) error {
	repo := s.repomanager.RefreshTokens(s.db)
	if err := repo.RevokeAllByUser(ctx, userID); err != nil {
		return fmt.Errorf("error revoking user tokens: %v", err)
	}
	return nil
}

// AccessTokenValidity exposes the configured access token lifetime.
func (s *TokenService) AccessTokenValidity() time.Duration {
	return s.accessTokenValidityDuration
}

// --- helpers below ---

// logRotationReject records why a presented refresh token could not be
// rotated. The caller still returns the uniform common.ErrInvalidToken;
// the cause is visible to operators only.
func (s *TokenService) logRotationReject(ctx context.Context, repo refreshtokens.Repository, token string) {
	rec, err := repo.Find(ctx, token)
	if err != nil {
		s.logger.Info(ctx, "refresh token rotation rejected", "reason", "unknown token")
		return
	}
	if rec.IsExpired(s.now()) {
		s.logger.Info(ctx, "refresh token rotation rejected", "error", common.ErrRefreshTokenExpired, "user_id", rec.UserID)
		return
	}
	s.logger.Info(ctx, "refresh token rotation rejected", "reason", "already revoked", "user_id", rec.UserID)
}

func (s *TokenService) generateAccessToken(userID string) (string, error) {
	return auth.GenerateTokenAt(userID, s.jwtSecret, s.accessTokenValidityDuration, s.now())
}

func (s *TokenService) generateRefreshToken() (string, error) {
	return common.MakeRandHexString(common.RefreshTokenByteLength)
}

func (s *TokenService) issuePair(ctx context.Context, userID string, device DeviceInfo, tx dbx.DBTX) (*TokenPair, error) {
	access, err := s.generateAccessToken(userID)
	if err != nil {
		return nil, common.ErrorInternal
	}
	refresh, err := s.generateRefreshToken()
	if err != nil {
		return nil, common.ErrorInternal
	}

	record := &models.RefreshToken{
		Token:     refresh,
		UserID:    userID,
		UserAgent: device.UserAgent,
		IPAddress: device.IPAddress,
		ExpiresAt: s.now().Add(s.refreshTokenValidityDuration),
	}

	repo := s.repomanager.RefreshTokens(tx)
	if err := repo.Create(ctx, record); err != nil {
		return nil, common.ErrorInternal
	}

	return &TokenPair{
		AccessToken:     access,
		RefreshToken:    refresh,
		AccessExpiresIn: s.accessTokenValidityDuration,
	}, nil
}

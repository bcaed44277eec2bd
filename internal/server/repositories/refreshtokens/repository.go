// Package refreshtokens declares the server-side repository contract for
// managing refresh tokens in persistent storage.
package refreshtokens

import (
	"context"
	"time"

	"github.com/kriaa9/placehub/internal/server/models"
)

// Repository defines operations for issuing, retrieving, and revoking
// refresh tokens. Records are never physically deleted here; revocation is
// a monotonic false→true flip.
type Repository interface {
	// Create stores a new refresh token record.
	Create(ctx context.Context, rt *models.RefreshToken) error

	// Find looks up a refresh token by its opaque token string.
	// Implementations return common.ErrorNotFound when the token is absent.
	Find(ctx context.Context, token string) (*models.RefreshToken, error)

	// RevokeIfActive flips revoked to true only if the record was still
	// active (not revoked, not expired) at write time, and returns the
	// owning user's ID. Returns common.ErrorNotFound when no active record
	// matched, so concurrent rotations of the same token see at most one
	// success.
	RevokeIfActive(ctx context.Context, token string, now time.Time) (string, error)

	// Revoke flips revoked to true unconditionally. Revoking a missing
	// token is not an error.
	Revoke(ctx context.Context, token string) error

	// RevokeAllByUser revokes every active record owned by the user in one
	// statement.
	RevokeAllByUser(ctx context.Context, userID string) error

	// CountActiveByUser counts the user's non-revoked records.
	CountActiveByUser(ctx context.Context, userID string) (int64, error)

	// RevokeExcessActive revokes, in one statement, every active record of
	// the user except the keep newest ones (newest by created_at, ties by
	// id). Returns the number of records revoked.
	RevokeExcessActive(ctx context.Context, userID string, keep int) (int64, error)
}

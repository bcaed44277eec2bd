// Package auth implements the access token codec: a stateless, signed,
// expiring JWT carrying the owning user's identifier. Access tokens carry no
// revocation state; they stay valid until expiry regardless of later events.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/kriaa9/placehub/internal/common"
)

// Claims includes the registered claims plus the user identifier carried as
// the subject.
type Claims struct {
	jwt.RegisteredClaims
}

// GenerateTokenAt mints an HS256-signed token for userID with
// iat = issuedAt and exp = issuedAt + validity. Deterministic given
// identical timestamps.
func GenerateTokenAt(userID string, secretKey []byte, validity time.Duration, issuedAt time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(validity)),
		},
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// GenerateToken mints a token issued now.
func GenerateToken(userID string, secretKey []byte, validity time.Duration) (string, error) {
	return GenerateTokenAt(userID, secretKey, validity, time.Now())
}

// GetUserIDFromToken verifies signature and expiry and returns the subject.
// Expired tokens yield common.ErrTokenExpired; any other verification
// failure yields common.ErrInvalidToken. The boundary layer surfaces both
// as plain "unauthenticated" without distinguishing the cause.
func GetUserIDFromToken(tokenString string, secretKey []byte) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) { return secretKey, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", common.ErrTokenExpired
		}
		return "", common.ErrInvalidToken
	}

	if !token.Valid {
		return "", common.ErrInvalidToken
	}

	return claims.Subject, nil
}

// ExtractUserID decodes the subject without verifying the signature or the
// validity window. Callers must separately confirm the principal still
// exists and is enabled before trusting the result.
func ExtractUserID(tokenString string) (string, error) {
	claims := &Claims{}

	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(tokenString, claims); err != nil {
		return "", common.ErrInvalidToken
	}

	if claims.Subject == "" {
		return "", common.ErrInvalidToken
	}

	return claims.Subject, nil
}

package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/kriaa9/placehub/internal/common"
	"github.com/kriaa9/placehub/internal/server/auth"
)

type ctxKey int

const userIDKey ctxKey = iota

// userIDFromContext returns the authenticated user's ID, if any.
func userIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}

// authenticate verifies a bearer token when one is present and attaches
// the subject to the request context. A missing, malformed, or
// unverifiable token lets the request continue unauthenticated, so public
// routes are unaffected by stale tokens; routes that need a principal
// reject through requireUser.
func (h *Handler) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get(common.AuthorizationHeaderName)
		if header == "" || !strings.HasPrefix(header, common.BearerPrefix) {
			next.ServeHTTP(w, r)
			return
		}

		token := strings.TrimPrefix(header, common.BearerPrefix)
		userID, err := auth.GetUserIDFromToken(token, h.jwtSecret)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireUser wraps handlers that need an authenticated principal.
func (h *Handler) requireUser(next func(http.ResponseWriter, *http.Request, string)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := userIDFromContext(r.Context())
		if !ok {
			h.writeError(w, r, http.StatusUnauthorized, "authentication required")
			return
		}
		next(w, r, userID)
	}
}

// Package httpapi exposes the auth service over HTTP. All endpoints accept
// and return JSON. Authentication failures share one external message so
// responses do not reveal whether an account or token exists.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"github.com/kriaa9/placehub/internal/common"
	"github.com/kriaa9/placehub/internal/logging"
	"github.com/kriaa9/placehub/internal/netx"
	"github.com/kriaa9/placehub/internal/server/models"
	"github.com/kriaa9/placehub/internal/server/ratelimit"
	"github.com/kriaa9/placehub/internal/server/services"
)

// Handler carries the HTTP endpoint implementations and their dependencies.
type Handler struct {
	users     *services.UserService
	tokens    *services.TokenService
	limiter   *ratelimit.Limiter
	logger    logging.Logger
	validate  *validator.Validate
	jwtSecret []byte
}

// NewHandler constructs the HTTP handler set.
func NewHandler(users *services.UserService, tokens *services.TokenService, limiter *ratelimit.Limiter, logger logging.Logger, jwtSecret []byte) *Handler {
	return &Handler{
		users:     users,
		tokens:    tokens,
		limiter:   limiter,
		logger:    logger,
		validate:  validator.New(),
		jwtSecret: jwtSecret,
	}
}

// Routes builds the router. Every route passes through the bearer-token
// middleware; only the routes using requireUser demand a principal.
func (h *Handler) Routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(h.authenticate)

	api := r.PathPrefix("/api/auth").Subrouter()
	api.HandleFunc("/register", h.register).Methods(http.MethodPost)
	api.HandleFunc("/login", h.login).Methods(http.MethodPost)
	api.HandleFunc("/refresh", h.refresh).Methods(http.MethodPost)
	api.HandleFunc("/logout", h.logout).Methods(http.MethodPost)
	api.HandleFunc("/logout-all", h.requireUser(h.logoutAll)).Methods(http.MethodPost)
	api.HandleFunc("/me", h.requireUser(h.me)).Methods(http.MethodGet)

	return r
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !h.decode(w, r, &req) {
		return
	}

	user, pair, err := h.users.Register(r.Context(), services.RegisterInput{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
	}, h.deviceInfo(r))
	if err != nil {
		if errors.Is(err, common.ErrDuplicateEmail) {
			h.writeError(w, r, http.StatusConflict, "email already registered")
			return
		}
		h.serverError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, h.authResponse(user, pair))
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	ip := netx.ClientIP(r)
	if !h.limiter.TryAcquire(ip) {
		h.logger.Warn(r.Context(), "login throttled", "ip", ip)
		h.writeError(w, r, http.StatusTooManyRequests, common.ErrRateLimited.Error())
		return
	}

	var req loginRequest
	if !h.decode(w, r, &req) {
		return
	}

	user, pair, err := h.users.Authenticate(r.Context(), req.Email, req.Password, h.deviceInfo(r))
	if err != nil {
		// unknown email and wrong password answer identically
		if errors.Is(err, common.ErrUserNotFound) || errors.Is(err, common.ErrInvalidCredentials) {
			h.writeError(w, r, http.StatusUnauthorized, "invalid email or password")
			return
		}
		h.serverError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, h.authResponse(user, pair))
}

func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if !h.decode(w, r, &req) {
		return
	}

	pair, err := h.tokens.Rotate(r.Context(), req.RefreshToken, h.deviceInfo(r))
	if err != nil {
		if errors.Is(err, common.ErrInvalidToken) {
			h.writeError(w, r, http.StatusUnauthorized, "invalid token")
			return
		}
		h.serverError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, h.tokenResponse(pair))
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	var req logoutRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.tokens.RevokeOne(r.Context(), req.RefreshToken); err != nil {
		h.serverError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) logoutAll(w http.ResponseWriter, r *http.Request, userID string) {
	if err := h.tokens.RevokeAll(r.Context(), userID); err != nil {
		h.serverError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request, userID string) {
	user, err := h.users.GetByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, common.ErrUserNotFound) {
			h.writeError(w, r, http.StatusUnauthorized, "invalid token")
			return
		}
		h.serverError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, h.userResponse(user))
}

// --- helpers below ---

func (h *Handler) deviceInfo(r *http.Request) services.DeviceInfo {
	return services.DeviceInfo{
		UserAgent: r.UserAgent(),
		IPAddress: netx.ClientIP(r),
	}
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.writeError(w, r, http.StatusBadRequest, "invalid request body")
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		h.writeError(w, r, http.StatusBadRequest, "validation failed: "+err.Error())
		return false
	}
	return true
}

func (h *Handler) userResponse(u *models.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}

func (h *Handler) tokenResponse(pair *services.TokenPair) tokenResponse {
	return tokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int64(pair.AccessExpiresIn.Seconds()),
	}
}

func (h *Handler) authResponse(u *models.User, pair *services.TokenPair) authResponse {
	return authResponse{
		User:          h.userResponse(u),
		tokenResponse: h.tokenResponse(pair),
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: msg})
}

func (h *Handler) serverError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.Error(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	h.writeError(w, r, http.StatusInternalServerError, "internal server error")
}

package api

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"net/mail"
	"time"

	"github.com/gorilla/mux"

	"github.com/tikezone/platform/pkg/auth"
	"github.com/tikezone/platform/pkg/httputil"
	"github.com/tikezone/platform/pkg/observability"
	"github.com/tikezone/platform/pkg/otp"
	"github.com/tikezone/platform/pkg/users"
)

// AuthHandlers handles passwordless login, logout and role upgrade
type AuthHandlers struct {
	store      *users.Storage
	codes      otp.Store
	codec      *auth.Codec
	sender     CodeSender
	logger     *observability.Logger
	metrics    *observability.Metrics
	production bool
}

// NewAuthHandlers creates a new auth handlers instance
func NewAuthHandlers(store *users.Storage, codes otp.Store, codec *auth.Codec, sender CodeSender, logger *observability.Logger, metrics *observability.Metrics, production bool) *AuthHandlers {
	return &AuthHandlers{
		store:      store,
		codes:      codes,
		codec:      codec,
		sender:     sender,
		logger:     logger,
		metrics:    metrics,
		production: production,
	}
}

// RegisterRoutes registers authentication routes
func (h *AuthHandlers) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/auth/send-otp", h.sendOTP).Methods("POST")
	router.HandleFunc("/api/auth/verify-otp", h.verifyOTP).Methods("POST")
	router.HandleFunc("/api/auth/logout", h.logout).Methods("POST")
	router.HandleFunc("/api/auth/upgrade-to-organizer", h.upgradeToOrganizer).Methods("POST")
}

// sendOTP handles POST /api/auth/send-otp.
// The response is success-shaped whether or not the email is registered, so
// the endpoint cannot be used to enumerate accounts.
func (h *AuthHandlers) sendOTP(w http.ResponseWriter, r *http.Request) {
	var req sendOTPRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}

	if _, err := mail.ParseAddress(req.Email); err != nil {
		h.metrics.RecordAuthOperation("send_otp", "invalid_email")
		httputil.WriteBadRequest(w, "invalid email")
		return
	}

	code, err := h.codes.Issue(r.Context(), req.Email)
	if err != nil {
		h.logger.WithError(err).Error("failed to issue login code")
		h.metrics.RecordAuthOperation("send_otp", "error")
		httputil.WriteInternalError(w)
		return
	}

	if err := h.sender.SendCode(r.Context(), req.Email, code); err != nil {
		h.logger.WithError(err).Error("failed to deliver login code")
		h.metrics.RecordAuthOperation("send_otp", "error")
		httputil.WriteInternalError(w)
		return
	}

	h.metrics.RecordAuthOperation("send_otp", "ok")
	httputil.WriteSuccess(w, okResponse{OK: true})
}

// verifyOTP handles POST /api/auth/verify-otp
func (h *AuthHandlers) verifyOTP(w http.ResponseWriter, r *http.Request) {
	var req verifyOTPRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}
	if !httputil.RequireNonEmpty(w, req.Email, "email") {
		return
	}
	if !httputil.RequireNonEmpty(w, req.Code, "code") {
		return
	}

	entry, err := h.codes.Lookup(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, otp.ErrNoCode) {
			h.invalidCode(w)
			return
		}
		h.logger.WithError(err).Error("login code lookup failed")
		h.metrics.RecordAuthOperation("verify_otp", "error")
		httputil.WriteInternalError(w)
		return
	}

	if entry.Expired(time.Now()) {
		// Expired entries are treated as absent and cleaned up here.
		h.codes.Consume(r.Context(), req.Email)
		h.invalidCode(w)
		return
	}

	if subtle.ConstantTimeCompare([]byte(entry.Code), []byte(req.Code)) != 1 {
		h.invalidCode(w)
		return
	}

	if err := h.codes.Consume(r.Context(), req.Email); err != nil {
		h.logger.WithError(err).Error("failed to consume login code")
		h.metrics.RecordAuthOperation("verify_otp", "error")
		httputil.WriteInternalError(w)
		return
	}

	user, err := h.store.FindOrCreateUser(req.Email)
	if err != nil {
		h.logger.WithError(err).Error("failed to resolve user")
		h.metrics.RecordAuthOperation("verify_otp", "error")
		httputil.WriteInternalError(w)
		return
	}

	token, err := h.codec.Sign(user.ID, user.Email, user.Role)
	if err != nil {
		h.logger.WithError(err).Error("failed to sign session token")
		h.metrics.RecordAuthOperation("verify_otp", "error")
		httputil.WriteInternalError(w)
		return
	}

	http.SetCookie(w, auth.AuthCookie(token, h.codec.TTL(), h.production))
	h.metrics.RecordAuthOperation("verify_otp", "ok")
	httputil.WriteSuccess(w, verifyOTPResponse{Verified: true, Token: token, User: user})
}

func (h *AuthHandlers) invalidCode(w http.ResponseWriter) {
	h.metrics.RecordAuthOperation("verify_otp", "invalid_code")
	httputil.WriteUnauthorized(w, "invalid code")
}

// logout handles POST /api/auth/logout. Idempotent: clearing an absent
// cookie is not an error.
func (h *AuthHandlers) logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, auth.ClearAuthCookie())
	h.metrics.RecordAuthOperation("logout", "ok")
	httputil.WriteSuccess(w, okResponse{OK: true})
}

// upgradeToOrganizer handles POST /api/auth/upgrade-to-organizer. The role
// change produces a fresh signed token replacing the cookie; the old token is
// never mutated in place.
func (h *AuthHandlers) upgradeToOrganizer(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.sessionClaims(r)
	if !ok {
		h.metrics.RecordAuthOperation("upgrade_to_organizer", "unauthenticated")
		httputil.WriteUnauthorized(w, "unauthenticated")
		return
	}

	user, err := h.store.SetUserRole(claims.Subject, auth.RoleOrganizer)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			// Stale session pointing at a deleted account.
			h.metrics.RecordAuthOperation("upgrade_to_organizer", "not_found")
			httputil.WriteNotFoundError(w, "user not found")
			return
		}
		h.logger.WithError(err).Error("failed to upgrade role")
		h.metrics.RecordAuthOperation("upgrade_to_organizer", "error")
		httputil.WriteInternalError(w)
		return
	}

	token, err := h.codec.Sign(user.ID, user.Email, user.Role)
	if err != nil {
		h.logger.WithError(err).Error("failed to re-sign session token")
		h.metrics.RecordAuthOperation("upgrade_to_organizer", "error")
		httputil.WriteInternalError(w)
		return
	}

	http.SetCookie(w, auth.AuthCookie(token, h.codec.TTL(), h.production))
	h.metrics.RecordAuthOperation("upgrade_to_organizer", "ok")
	httputil.WriteSuccess(w, upgradeResponse{OK: true, User: user})
}

// sessionClaims verifies the auth cookie, if any
func (h *AuthHandlers) sessionClaims(r *http.Request) (*auth.Claims, bool) {
	cookie, err := r.Cookie(auth.AuthCookieName)
	if err != nil {
		return nil, false
	}
	return h.codec.Verify(cookie.Value)
}

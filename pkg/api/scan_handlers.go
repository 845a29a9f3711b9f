package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/tikezone/platform/pkg/auth"
	"github.com/tikezone/platform/pkg/httputil"
	"github.com/tikezone/platform/pkg/observability"
	"github.com/tikezone/platform/pkg/users"
)

// ScanHandlers handles scan agent session endpoints
type ScanHandlers struct {
	store   *users.Storage
	codec   *auth.Codec
	logger  *observability.Logger
	metrics *observability.Metrics
}

// NewScanHandlers creates a new scan handlers instance
func NewScanHandlers(store *users.Storage, codec *auth.Codec, logger *observability.Logger, metrics *observability.Metrics) *ScanHandlers {
	return &ScanHandlers{
		store:   store,
		codec:   codec,
		logger:  logger,
		metrics: metrics,
	}
}

// RegisterRoutes registers scan agent routes
func (h *ScanHandlers) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/scan/me", h.me).Methods("GET")
	router.HandleFunc("/api/scan/logout", h.logout).Methods("POST")
}

// me handles GET /api/scan/me. Every verification failure (missing cookie,
// bad signature, wrong role, record not found) produces the same null shape
// with unauthorized status; reasons are never distinguished to the client.
func (h *ScanHandlers) me(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(auth.ScanCookieName)
	if err != nil {
		h.noAgent(w, http.StatusUnauthorized)
		return
	}

	claims, ok := h.codec.Verify(cookie.Value)
	if !ok || claims.Role != auth.RoleAgent {
		h.noAgent(w, http.StatusUnauthorized)
		return
	}

	agent, err := h.store.GetAgent(claims.Subject)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			h.noAgent(w, http.StatusUnauthorized)
			return
		}
		h.logger.WithError(err).Error("failed to load agent")
		h.noAgent(w, http.StatusInternalServerError)
		return
	}

	h.metrics.RecordAuthOperation("scan_me", "ok")
	httputil.WriteSuccess(w, agentResponse{Agent: &agentView{
		ID:       agent.ID,
		Name:     agent.Name,
		Email:    agent.Email,
		Status:   agent.Status,
		IsOnline: agent.IsOnline(time.Now()),
	}})
}

func (h *ScanHandlers) noAgent(w http.ResponseWriter, status int) {
	result := "unauthenticated"
	if status == http.StatusInternalServerError {
		result = "error"
	}
	h.metrics.RecordAuthOperation("scan_me", result)
	httputil.WriteJSON(w, status, agentResponse{Agent: nil})
}

// logout handles POST /api/scan/logout. Idempotent; clears only the scan
// cookie namespace, leaving any auth session untouched.
func (h *ScanHandlers) logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, auth.ClearScanCookie())
	h.metrics.RecordAuthOperation("scan_logout", "ok")
	httputil.WriteSuccess(w, okResponse{OK: true})
}

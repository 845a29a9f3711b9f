package api

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/tikezone/platform/pkg/httputil"
	"github.com/tikezone/platform/pkg/observability"
	"github.com/tikezone/platform/pkg/users"
)

// LookupHandlers serves the tenant subdomain lookup consumed by the tenant
// resolver middleware. The route is registered unrestricted: the mapping it
// serves is public data, the resolver's own redirect exposes the same slug to
// anyone who visits the subdomain.
type LookupHandlers struct {
	store  *users.Storage
	logger *observability.Logger
}

// NewLookupHandlers creates a new lookup handlers instance
func NewLookupHandlers(store *users.Storage, logger *observability.Logger) *LookupHandlers {
	return &LookupHandlers{store: store, logger: logger}
}

// RegisterRoutes registers the lookup route
func (h *LookupHandlers) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/subdomain-lookup", h.lookup).Methods("GET")
}

// lookup handles GET /api/subdomain-lookup?sub=X. An unmapped subdomain is
// not an error: it answers 200 with an empty object so the resolver can fall
// back to the root redirect.
func (h *LookupHandlers) lookup(w http.ResponseWriter, r *http.Request) {
	sub := r.URL.Query().Get("sub")
	if !httputil.RequireNonEmpty(w, sub, "sub query parameter") {
		return
	}

	slug, err := h.store.LookupPageSlug(sub)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			httputil.WriteSuccess(w, map[string]string{})
			return
		}
		h.logger.WithError(err).WithField("sub", sub).Error("subdomain lookup failed")
		httputil.WriteInternalError(w)
		return
	}

	httputil.WriteSuccess(w, map[string]string{"slug": slug})
}

package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/tikezone/platform/pkg/auth"
	"github.com/tikezone/platform/pkg/httputil"
	"github.com/tikezone/platform/pkg/observability"
	"github.com/tikezone/platform/pkg/otp"
	"github.com/tikezone/platform/pkg/users"
)

// Server is the platform API server
type Server struct {
	router  *mux.Router
	logger  *observability.Logger
	metrics *observability.Metrics
}

// NewServer creates the API server and registers all routes. The metrics
// endpoint is only exposed when metricsEnabled is set.
func NewServer(store *users.Storage, codes otp.Store, codec *auth.Codec, sender CodeSender, logger *observability.Logger, metrics *observability.Metrics, production, metricsEnabled bool) *Server {
	s := &Server{
		router:  mux.NewRouter(),
		logger:  logger,
		metrics: metrics,
	}

	NewAuthHandlers(store, codes, codec, sender, logger, metrics, production).RegisterRoutes(s.router)
	NewScanHandlers(store, codec, logger, metrics).RegisterRoutes(s.router)
	NewLookupHandlers(store, logger).RegisterRoutes(s.router)

	s.router.HandleFunc("/healthz", s.healthz).Methods("GET")
	if metricsEnabled {
		s.router.Handle("/metrics", metrics.Handler()).Methods("GET")
	}

	return s
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// healthz handles GET /healthz
func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	httputil.WriteSuccess(w, map[string]string{"status": "ok"})
}

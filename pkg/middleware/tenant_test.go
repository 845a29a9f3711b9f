package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tikezone/platform/pkg/observability"
)

// lookupBackend fakes the internal subdomain-lookup endpoint
func lookupBackend(t *testing.T, slugs map[string]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/subdomain-lookup", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		if slug, ok := slugs[r.URL.Query().Get("sub")]; ok {
			w.Write([]byte(`{"slug":"` + slug + `"}`))
			return
		}
		w.Write([]byte(`{}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestResolver(t *testing.T, apiBaseURL string) *TenantResolver {
	t.Helper()
	logger := observability.NewLogger(observability.ErrorLevel, io.Discard)
	metrics := observability.NewMetrics(prometheus.NewRegistry())
	return NewTenantResolver("tikezone.com", apiBaseURL, logger, metrics)
}

func resolve(resolver *TenantResolver, target string) (*httptest.ResponseRecorder, *bool) {
	passed := false
	handler := resolver.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		passed = true
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", target, nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec, &passed
}

func TestTenantResolver_KnownSubdomain(t *testing.T) {
	backend := lookupBackend(t, map[string]string{"shop1": "shop1-page"})
	resolver := newTestResolver(t, backend.URL)

	rec, passed := resolve(resolver, "http://shop1.tikezone.com/")

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "https://tikezone.com/shop1-page", rec.Header().Get("Location"))
	assert.False(t, *passed)
}

func TestTenantResolver_UnknownSubdomainFallsBack(t *testing.T) {
	backend := lookupBackend(t, nil)
	resolver := newTestResolver(t, backend.URL)

	rec, passed := resolve(resolver, "http://unknown.tikezone.com/")

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "https://tikezone.com/", rec.Header().Get("Location"))
	assert.False(t, *passed)
}

func TestTenantResolver_MainDomainPassesThrough(t *testing.T) {
	backend := lookupBackend(t, map[string]string{"shop1": "shop1-page"})
	resolver := newTestResolver(t, backend.URL)

	rec, passed := resolve(resolver, "http://tikezone.com/some-page")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, *passed)
}

func TestTenantResolver_WWWIsNotATenant(t *testing.T) {
	backend := lookupBackend(t, nil)
	resolver := newTestResolver(t, backend.URL)

	_, passed := resolve(resolver, "http://www.tikezone.com/")
	assert.True(t, *passed)
}

func TestTenantResolver_ForeignHostPassesThrough(t *testing.T) {
	backend := lookupBackend(t, nil)
	resolver := newTestResolver(t, backend.URL)

	_, passed := resolve(resolver, "http://example.org/")
	assert.True(t, *passed)

	// A lookalike suffix is not a subdomain.
	_, passed = resolve(resolver, "http://eviltikezone.com/")
	assert.True(t, *passed)
}

func TestTenantResolver_PortStripped(t *testing.T) {
	backend := lookupBackend(t, map[string]string{"shop1": "shop1-page"})
	resolver := newTestResolver(t, backend.URL)

	rec, _ := resolve(resolver, "http://shop1.tikezone.com:8443/")

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "https://tikezone.com/shop1-page", rec.Header().Get("Location"))
}

func TestTenantResolver_ExemptPaths(t *testing.T) {
	backend := lookupBackend(t, map[string]string{"shop1": "shop1-page"})
	resolver := newTestResolver(t, backend.URL)

	for _, path := range []string{
		"/api/anything",
		"/_next/page",
		"/static/app.js",
		"/metrics",
		"/healthz",
		"/favicon.ico",
		"/assets/logo.png",
	} {
		_, passed := resolve(resolver, "http://shop1.tikezone.com"+path)
		assert.True(t, *passed, "path %s should pass through", path)
	}
}

func TestTenantResolver_LookupOutageFallsBack(t *testing.T) {
	backend := lookupBackend(t, nil)
	url := backend.URL
	backend.Close()
	resolver := newTestResolver(t, url)

	rec, passed := resolve(resolver, "http://shop1.tikezone.com/")

	// Outage degrades to the root redirect, never a server error.
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "https://tikezone.com/", rec.Header().Get("Location"))
	assert.False(t, *passed)
}

// TestTenantResolver_ProductionLoopbackLookup wires the transport policy in
// front of the resolver with the lookup URL pointing back at the same server,
// mirroring the default single-instance wiring. The internal lookup hop must
// not get caught by the HTTPS upgrade.
func TestTenantResolver_ProductionLoopbackLookup(t *testing.T) {
	var handler http.Handler
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handler.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/subdomain-lookup", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"slug":"shop1-page"}`))
	})
	resolver := newTestResolver(t, srv.URL)
	handler = NewTransportPolicy(true).Handler(resolver.Handler(inner))

	req, err := http.NewRequest("GET", srv.URL+"/", nil)
	require.NoError(t, err)
	req.Host = "shop1.tikezone.com"
	req.Header.Set("X-Forwarded-Proto", "https")

	client := &http.Client{
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "https://tikezone.com/shop1-page", resp.Header.Get("Location"))
}

func TestTenantResolver_LookupServerErrorFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)
	resolver := newTestResolver(t, srv.URL)

	rec, _ := resolve(resolver, "http://shop1.tikezone.com/")

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "https://tikezone.com/", rec.Header().Get("Location"))
}

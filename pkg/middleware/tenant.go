package middleware

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tikezone/platform/pkg/observability"
)

// lookupTimeout bounds the outbound subdomain lookup call. On timeout the
// resolver degrades to the root redirect; it never faults the request.
const lookupTimeout = 3 * time.Second

// exemptPrefixes are path prefixes the resolver passes through untouched
var exemptPrefixes = []string{"/api/", "/_", "/static/", "/metrics", "/healthz"}

// TenantResolver resolves tenant subdomains to canonical page paths. It runs
// ahead of all other routing and issues at most one redirect per request.
type TenantResolver struct {
	mainDomain string
	lookupURL  string
	client     *http.Client
	logger     *observability.Logger
	metrics    *observability.Metrics
}

// NewTenantResolver creates a tenant resolver. Lookups are sent to
// apiBaseURL's subdomain-lookup endpoint; every request re-queries, there is
// no caching.
func NewTenantResolver(mainDomain, apiBaseURL string, logger *observability.Logger, metrics *observability.Metrics) *TenantResolver {
	return &TenantResolver{
		mainDomain: strings.ToLower(mainDomain),
		lookupURL:  strings.TrimRight(apiBaseURL, "/") + "/api/subdomain-lookup",
		client:     &http.Client{Timeout: lookupTimeout},
		logger:     logger,
		metrics:    metrics,
	}
}

// Handler wraps an HTTP handler with tenant resolution
func (t *TenantResolver) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if t.exemptPath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		sub, ok := t.subdomain(r.Host)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		slug, err := t.lookup(r, sub)
		if err != nil {
			// Lookup outages must never fail user navigation.
			t.logger.WithError(err).WithField("subdomain", sub).Warn("subdomain lookup failed, redirecting to root")
			t.metrics.RecordTenantRedirect("fallback")
			http.Redirect(w, r, "https://"+t.mainDomain+"/", http.StatusFound)
			return
		}
		if slug == "" {
			t.metrics.RecordTenantRedirect("fallback")
			http.Redirect(w, r, "https://"+t.mainDomain+"/", http.StatusFound)
			return
		}

		t.metrics.RecordTenantRedirect("resolved")
		http.Redirect(w, r, "https://"+t.mainDomain+"/"+slug, http.StatusFound)
	})
}

// exemptPath reports whether the path bypasses tenant resolution. Any path
// containing a dot is treated as a static file reference.
func (t *TenantResolver) exemptPath(path string) bool {
	for _, prefix := range exemptPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return strings.Contains(path, ".")
}

// subdomain extracts the tenant label from the host, if the host is a strict
// subdomain of the main domain. The bare www label is not a tenant.
func (t *TenantResolver) subdomain(host string) (string, bool) {
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	host = strings.ToLower(host)

	if host == t.mainDomain {
		return "", false
	}
	if !strings.HasSuffix(host, "."+t.mainDomain) {
		return "", false
	}

	sub := strings.TrimSuffix(host, "."+t.mainDomain)
	if sub == "" || sub == "www" {
		return "", false
	}
	return sub, true
}

// lookup queries the internal subdomain-lookup endpoint. An unmapped
// subdomain returns ("", nil); transport or server failures return an error.
func (t *TenantResolver) lookup(r *http.Request, sub string) (string, error) {
	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, t.lookupURL+"?sub="+url.QueryEscape(sub), nil)
	if err != nil {
		return "", err
	}
	// The internal hop rides the plain loopback listener; without this header
	// the transport policy would redirect it to https in production.
	req.Header.Set("X-Forwarded-Proto", "https")

	resp, err := t.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("lookup returned status %d", resp.StatusCode)
	}

	var body struct {
		Slug string `json:"slug"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", err
	}
	return body.Slug, nil
}

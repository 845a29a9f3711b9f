package middleware

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func applyPolicy(production bool, mutate func(*http.Request)) (*httptest.ResponseRecorder, *bool) {
	passed := false
	handler := NewTransportPolicy(production).Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		passed = true
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "http://tikezone.com/events?page=2", nil)
	if mutate != nil {
		mutate(req)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec, &passed
}

func TestTransportPolicy_ProductionUpgradesPlainRequests(t *testing.T) {
	rec, passed := applyPolicy(true, nil)

	assert.Equal(t, http.StatusMovedPermanently, rec.Code)
	assert.Equal(t, "https://tikezone.com/events?page=2", rec.Header().Get("Location"))
	assert.False(t, *passed)
}

func TestTransportPolicy_ProductionTLSPassesWithHSTS(t *testing.T) {
	rec, passed := applyPolicy(true, func(r *http.Request) {
		r.TLS = &tls.ConnectionState{}
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, *passed)
	assert.Equal(t, "max-age=63072000; includeSubDomains; preload", rec.Header().Get("Strict-Transport-Security"))
}

func TestTransportPolicy_ForwardedProtoRespected(t *testing.T) {
	rec, passed := applyPolicy(true, func(r *http.Request) {
		r.Header.Set("X-Forwarded-Proto", "https")
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, *passed)
}

func TestTransportPolicy_NonProductionNeverRedirects(t *testing.T) {
	rec, passed := applyPolicy(false, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, *passed)
	assert.NotEmpty(t, rec.Header().Get("Strict-Transport-Security"))
}

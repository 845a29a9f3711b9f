package api

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/tikezone/platform/pkg/auth"
	"github.com/tikezone/platform/pkg/observability"
	"github.com/tikezone/platform/pkg/otp"
	"github.com/tikezone/platform/pkg/users"
)

// captureSender records the last issued code instead of delivering it
type captureSender struct {
	email string
	code  string
}

func (s *captureSender) SendCode(_ context.Context, email, code string) error {
	s.email = email
	s.code = code
	return nil
}

type testEnv struct {
	store   *users.Storage
	mock    sqlmock.Sqlmock
	codes   *otp.MemoryStore
	codec   *auth.Codec
	sender  *captureSender
	logger  *observability.Logger
	metrics *observability.Metrics
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	codec, err := auth.NewCodec("test-signing-key", time.Hour)
	require.NoError(t, err)

	return &testEnv{
		store:   users.NewStorage(db),
		mock:    mock,
		codes:   otp.NewMemoryStore(10 * time.Minute),
		codec:   codec,
		sender:  &captureSender{},
		logger:  observability.NewLogger(observability.ErrorLevel, io.Discard),
		metrics: observability.NewMetrics(prometheus.NewRegistry()),
	}
}

func (e *testEnv) authHandlers() *AuthHandlers {
	return NewAuthHandlers(e.store, e.codes, e.codec, e.sender, e.logger, e.metrics, false)
}

func (e *testEnv) scanHandlers() *ScanHandlers {
	return NewScanHandlers(e.store, e.codec, e.logger, e.metrics)
}

func (e *testEnv) lookupHandlers() *LookupHandlers {
	return NewLookupHandlers(e.store, e.logger)
}

func (e *testEnv) server(t *testing.T) *Server {
	t.Helper()
	return NewServer(e.store, e.codes, e.codec, e.sender, e.logger, e.metrics, false, true)
}

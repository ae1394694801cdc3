package server

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sevigo/code-inspector/internal/config"
	"github.com/sevigo/code-inspector/internal/core"
)

type nopDispatcher struct{ calls int }

func (d *nopDispatcher) Dispatch(context.Context, *core.Event) (*core.ReviewOutcome, error) {
	d.calls++
	return &core.ReviewOutcome{PRNumber: 42, Status: core.StatusApproved}, nil
}

func (d *nopDispatcher) Stop() {}

func newTestServer(d core.JobDispatcher) *Server {
	cfg := &config.Config{Server: config.ServerConfig{Port: "0", RequestTimeout: time.Minute}}
	return NewServer(cfg, d, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestRouter_Health(t *testing.T) {
	srv := newTestServer(&nopDispatcher{})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())
}

func TestRouter_Metrics(t *testing.T) {
	srv := newTestServer(&nopDispatcher{})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestRouter_Webhook(t *testing.T) {
	d := &nopDispatcher{}
	srv := newTestServer(d)

	body := `{"action":"opened","pull_request":{"number":42},"repository":{"full_name":"acme/widgets"}}`
	req := httptest.NewRequest(http.MethodPost, "/webhook/github", strings.NewReader(body))
	req.Header.Set("X-GitHub-Event", "pull_request")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, d.calls)

	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/webhook/github", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestServer_WriteTimeoutCoversReview(t *testing.T) {
	srv := newTestServer(&nopDispatcher{})
	assert.Greater(t, srv.server.WriteTimeout, time.Minute)
}

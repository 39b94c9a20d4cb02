package web_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/al-ius/aus-address-matcher/internal/config"
	"github.com/al-ius/aus-address-matcher/internal/dispatch"
	"github.com/al-ius/aus-address-matcher/internal/gazetteer"
	"github.com/al-ius/aus-address-matcher/internal/gazetteer/gazetteertest"
	"github.com/al-ius/aus-address-matcher/internal/web"
	"github.com/al-ius/aus-address-matcher/internal/web/handlers"
)

func newServer(t *testing.T, apiKey string) *web.Server {
	t.Helper()
	open := gazetteertest.Store(t).Opener()
	cfg := config.ServerConfig{Host: "127.0.0.1", Port: 8080, APIKey: apiKey}
	return web.NewServer(cfg, open, dispatch.New(open, dispatch.DefaultConfig(), nil), nil)
}

func do(t *testing.T, h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	rec := do(t, newServer(t, "").Handler(), httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestHealthUnavailable(t *testing.T) {
	open := func(context.Context) (gazetteer.Store, error) { return nil, errors.New("no such file") }
	s := web.NewServer(config.ServerConfig{Port: 8080}, open, dispatch.New(open, dispatch.DefaultConfig(), nil), nil)

	rec := do(t, s.Handler(), httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMatch(t *testing.T) {
	h := newServer(t, "").Handler()

	t.Run("found", func(t *testing.T) {
		q := url.Values{"address": {"12 smith st richmond vic 3121"}}
		rec := do(t, h, httptest.NewRequest(http.MethodGet, "/api/match?"+q.Encode(), nil))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

		var got map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, "matched", got["reason"])
		record := got["record"].(map[string]any)
		assert.Equal(t, "GNAF001", record["address_id"])
	})

	t.Run("absent", func(t *testing.T) {
		q := url.Values{"address": {"1 NONEXISTENT RD NOWHERE VIC 9999"}}
		rec := do(t, h, httptest.NewRequest(http.MethodGet, "/api/match?"+q.Encode(), nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var got map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, "no_candidate_streets", got["reason"])
		assert.NotContains(t, got, "record")
	})

	t.Run("missing parameter", func(t *testing.T) {
		rec := do(t, h, httptest.NewRequest(http.MethodGet, "/api/match", nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("wrong method", func(t *testing.T) {
		rec := do(t, h, httptest.NewRequest(http.MethodPost, "/api/match", nil))
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

func TestMatchBatch(t *testing.T) {
	h := newServer(t, "").Handler()
	body, err := json.Marshal(handlers.BatchRequest{Addresses: []string{
		"45 HIGH ST KEW VIC 3101",
		"1 NONEXISTENT RD NOWHERE VIC 9999",
		"12 SMITH ST RICHMOND VIC 3121",
	}})
	require.NoError(t, err)

	rec := do(t, h, httptest.NewRequest(http.MethodPost, "/api/match/batch", bytes.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code)

	var got handlers.BatchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got.Results, 3)
	for i, r := range got.Results {
		assert.Equal(t, i, r.Seq)
	}
	assert.Equal(t, "GNAF020", got.Results[0].Record.ID)
	assert.Nil(t, got.Results[1].Record)
	assert.Equal(t, "GNAF001", got.Results[2].Record.ID)
	assert.Equal(t, 3, got.Stats.Total)
	assert.Equal(t, 2, got.Stats.Matched)
	assert.Empty(t, got.Error)
}

func TestMatchBatchRejectsBadBodies(t *testing.T) {
	h := newServer(t, "").Handler()

	for name, body := range map[string]string{
		"not json": "addresses",
		"empty":    `{"addresses":[]}`,
	} {
		t.Run(name, func(t *testing.T) {
			rec := do(t, h, httptest.NewRequest(http.MethodPost, "/api/match/batch", bytes.NewBufferString(body)))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestAPIKey(t *testing.T) {
	h := newServer(t, "secret").Handler()

	rec := do(t, h, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"invalid api key"}`, rec.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("X-API-Key", "wrong")
	assert.Equal(t, http.StatusUnauthorized, do(t, h, req).Code)

	req = httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("X-API-Key", "secret")
	assert.Equal(t, http.StatusOK, do(t, h, req).Code)
}

func TestCORSPreflight(t *testing.T) {
	rec := do(t, newServer(t, "secret").Handler(), httptest.NewRequest(http.MethodOptions, "/api/match/batch", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestLogging(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	open := gazetteertest.Store(t).Opener()
	s := web.NewServer(config.ServerConfig{Port: 8080}, open, dispatch.New(open, dispatch.DefaultConfig(), nil), zap.New(core))

	do(t, s.Handler(), httptest.NewRequest(http.MethodGet, "/api/health", nil))

	entries := logs.FilterMessage("request").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "/api/health", fields["path"])
	assert.EqualValues(t, http.StatusOK, fields["status"])
}

func TestStartStopsOnCancel(t *testing.T) {
	open := gazetteertest.Store(t).Opener()
	s := web.NewServer(config.ServerConfig{Host: "127.0.0.1", Port: 0}, open, dispatch.New(open, dispatch.DefaultConfig(), nil), nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

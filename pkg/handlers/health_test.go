package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vigia-ops/alvo-engine/pkg/config"
)

func TestHealth(t *testing.T) {
	handler := NewHealthHandler(&config.Config{}, zap.NewNop())
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestPing(t *testing.T) {
	cfg := &config.Config{Version: "1.2.3", Env: "test"}
	handler := NewHealthHandler(cfg, zap.NewNop())
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp PingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "1.2.3", resp.Version)
	assert.Equal(t, "alvo-engine", resp.Service)
	assert.Equal(t, "test", resp.Environment)
	assert.NotEmpty(t, resp.Hostname)
}

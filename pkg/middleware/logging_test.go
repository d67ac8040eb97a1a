package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	handler := RequestLogger(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/buscar-alvos?nome=ana", nil))

	entries := logs.All()
	assert.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "GET", fields["method"])
	assert.Equal(t, int64(http.StatusNotFound), fields["status"])
}

func TestRequestLogger_SkipsHealth(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	handler := RequestLogger(zap.New(core))(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, logs.Len())
}

func TestRequestLogger_NilLogger(t *testing.T) {
	handler := RequestLogger(nil)(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/buscar-alvos", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestBodyLimit(t *testing.T) {
	handler := BodyLimit(8)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		buf := make([]byte, 64)
		_, err := r.Body.Read(buf)
		if err != nil && err.Error() == "http: request body too large" {
			w.WriteHeader(http.StatusRequestEntityTooLarge)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("under the limit", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/cadastrar-alvo", strings.NewReader("ok"))
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("over the limit", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/cadastrar-alvo", strings.NewReader(strings.Repeat("x", 64)))
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	})
}

package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestRequestLoggerKeepsFlusher(t *testing.T) {
	r := chi.NewRouter()
	r.Use(RequestLogger(zerolog.Nop()))
	var flushable bool
	r.Get("/stream", func(w http.ResponseWriter, r *http.Request) {
		_, flushable = w.(http.Flusher)
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte("chunk"))
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stream", nil))

	assert.True(t, flushable)
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, "chunk", rec.Body.String())
}

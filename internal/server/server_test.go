package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedLen int

func (f fixedLen) Len() int { return int(f) }

type fixedActive int

func (f fixedActive) Active() int { return int(f) }

func TestHealth(t *testing.T) {
	s := New(":0", fixedLen(3), fixedActive(2), zerolog.Nop())
	rec := httptest.NewRecorder()

	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","drivers":3,"active_drafts":2}`, rec.Body.String())
}

func TestMetrics(t *testing.T) {
	s := New(":0", fixedLen(0), fixedActive(0), zerolog.Nop())
	rec := httptest.NewRecorder()

	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

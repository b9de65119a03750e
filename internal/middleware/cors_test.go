package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetupCORS(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := SetupCORS([]string{"http://clinic.local"}, 300)(next)

	preflight := httptest.NewRequest(http.MethodOptions, "/api/v1/students", nil)
	preflight.Header.Set("Origin", "http://clinic.local")
	preflight.Header.Set("Access-Control-Request-Method", http.MethodPut)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, preflight)

	assert.Equal(t, "http://clinic.local", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "300", w.Header().Get("Access-Control-Max-Age"))

	other := httptest.NewRequest(http.MethodGet, "/api/v1/students", nil)
	other.Header.Set("Origin", "http://elsewhere.local")
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, other)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/consolahealth/studenthealth/internal/config"
)

func TestNewHTTPServer(t *testing.T) {
	cfg := &config.Config{}
	cfg.Server.Port = "9090"
	cfg.Server.ReadTimeout = "5s"
	cfg.Server.WriteTimeout = "bogus"
	cfg.CORS.AllowedOrigins = []string{"*"}

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	srv := newHTTPServer(cfg, inner)

	assert.Equal(t, ":9090", srv.Addr)
	assert.Equal(t, 5*time.Second, srv.ReadTimeout)
	assert.Equal(t, 30*time.Second, srv.WriteTimeout)

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "http://clinic.local")
	w := httptest.NewRecorder()
	srv.Handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

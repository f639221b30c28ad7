package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/tripsplit/backend/internal/middleware"
)

const webOrigin = "http://localhost:3000"

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func corsRequest(method, origin string) *http.Request {
	req := httptest.NewRequest(method, "/trip/invitation", nil)
	req.Header.Set("Origin", origin)
	return req
}

func TestCORSHandler_AllowedOrigin(t *testing.T) {
	h := middleware.NewCORSHandler([]string{webOrigin})(okHandler)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, corsRequest(http.MethodGet, webOrigin))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, webOrigin, rec.Header().Get("Access-Control-Allow-Origin"))
	// The session cookie only travels cross-origin when credentials are allowed.
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
}

// Deleting an expense from the web app is a non-simple request carrying the
// Authorization header, so the browser preflights it.
func TestCORSHandler_PreflightDeleteWithAuthorization(t *testing.T) {
	h := middleware.NewCORSHandler([]string{webOrigin})(okHandler)

	req := corsRequest(http.MethodOptions, webOrigin)
	req.Header.Set("Access-Control-Request-Method", http.MethodDelete)
	req.Header.Set("Access-Control-Request-Headers", "authorization")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.True(t, rec.Code == http.StatusNoContent || rec.Code == http.StatusOK,
		"expected 2xx for OPTIONS preflight, got %d", rec.Code)
	assert.Equal(t, webOrigin, rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), http.MethodDelete)
}

func TestCORSHandler_DisallowedOrigin(t *testing.T) {
	h := middleware.NewCORSHandler([]string{webOrigin})(okHandler)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, corsRequest(http.MethodGet, "http://evil.example.com"))

	// The response still goes out; without the header the browser discards it.
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

// Package middleware provides HTTP middleware for the trip expense API server:
// request logging, CORS, body size limits and session-token identity.
package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// requestFields is filled in by middleware running inside NewSlogLogger so the
// request line can report who made the call.
type requestFields struct {
	username string
}

type requestFieldsKey struct{}

// setLogUsername records username on the request line, if one is being logged.
func setLogUsername(ctx context.Context, username string) {
	if f, ok := ctx.Value(requestFieldsKey{}).(*requestFields); ok {
		f.username = username
	}
}

// NewSlogLogger returns a middleware that logs each request as a structured
// JSON line via the provided slog.Logger. It captures method, path, HTTP
// status, duration, the request ID set by chi's RequestID middleware and,
// once NewIdentity has run, the caller's username.
//
// Wire it after chimiddleware.RequestID so the request ID is available.
func NewSlogLogger(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// WrapResponseWriter intercepts WriteHeader so we can read the
			// status code after the downstream handler has run.
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			fields := &requestFields{}
			r = r.WithContext(context.WithValue(r.Context(), requestFieldsKey{}, fields))

			next.ServeHTTP(ww, r)

			attrs := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", chimiddleware.GetReqID(r.Context()),
			}
			if fields.username != "" {
				attrs = append(attrs, "username", fields.username)
			}
			log.InfoContext(r.Context(), "request", attrs...)
		})
	}
}

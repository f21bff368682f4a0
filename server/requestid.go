package server

import (
	"context"
	"net/http"

	"github.com/dekarrin/ctxfree/server/middle"
	"github.com/google/uuid"
)

// requestIDKey is the context key a request's generated ID is stored under.
type requestIDKey int

const RequestIDKey requestIDKey = 0

// RequestID is middleware that stamps every request with a fresh UUID,
// echoed back in the X-Request-Id response header, in the shape of
// middle.DontPanic's Middleware wrapping.
func RequestID() middle.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			id := uuid.New()
			w.Header().Set("X-Request-Id", id.String())
			ctx := context.WithValue(req.Context(), RequestIDKey, id)
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	}
}

package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"assistant/internal/httputil"
)

// maxRequestIDLength bounds client-supplied request IDs
const maxRequestIDLength = 128

// RequestID ensures every request has a stable request ID.
// An incoming X-Request-ID header is reused, otherwise a UUID is generated.
// The ID is stored in the request context and echoed in the response header.
func RequestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rid := strings.TrimSpace(r.Header.Get(httputil.RequestIDHeader))
			if rid == "" || len(rid) > maxRequestIDLength {
				rid = uuid.NewString()
			}

			w.Header().Set(httputil.RequestIDHeader, rid)
			next.ServeHTTP(w, httputil.WithRequestID(r, rid))
		})
	}
}

package middleware

import (
	"net/http"
	"regexp"

	"github.com/google/uuid"

	"github.com/shadowstrength/storefront/pkg/logger"
	"github.com/shadowstrength/storefront/pkg/types"
)

// Upstream ids are echoed only when they look like opaque tokens.
var upstreamRequestID = regexp.MustCompile(`^[A-Za-z0-9._-]{8,64}$`)

// RequestID tags the request with an id, reusing a well-formed upstream one.
func RequestID(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := r.Header.Get(types.RequestIDHeader)
			if !upstreamRequestID.MatchString(reqID) {
				reqID = uuid.NewString()
			}

			w.Header().Set(types.RequestIDHeader, reqID)
			next.ServeHTTP(w, r.WithContext(logg.WithRequestID(r.Context(), reqID)))
		})
	}
}

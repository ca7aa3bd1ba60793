package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/hamnakhalid/kitchenia-backend/pkg/logger"
)

const requestIDHeader = "X-Request-Id"

// RequestID honors a caller-supplied X-Request-Id, minting a uuid when
// absent, and echoes the id on the response so storefront bug reports
// can be matched to log lines.
func RequestID(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := strings.TrimSpace(r.Header.Get(requestIDHeader))
			if reqID == "" {
				reqID = uuid.NewString()
			}
			w.Header().Set(requestIDHeader, reqID)

			ctx := r.Context()
			if logg != nil {
				ctx = logg.WithRequestID(ctx, reqID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

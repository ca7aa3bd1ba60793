package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/hamnakhalid/kitchenia-backend/api/responses"
	pkgauth "github.com/hamnakhalid/kitchenia-backend/pkg/auth"
	"github.com/hamnakhalid/kitchenia-backend/pkg/config"
	pkgerrors "github.com/hamnakhalid/kitchenia-backend/pkg/errors"
	"github.com/hamnakhalid/kitchenia-backend/pkg/logger"
)

type ctxKey string

const ctxAdminEmail ctxKey = "admin_email"

// AdminAuth validates a bearer token minted for the back office and seeds
// the request context with the admin identity.
func AdminAuth(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			token := raw
			if strings.HasPrefix(strings.ToLower(token), "bearer ") {
				token = strings.TrimSpace(token[7:])
			}
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := pkgauth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			ctx := context.WithValue(r.Context(), ctxAdminEmail, claims.Email)
			if logg != nil {
				ctx = logg.WithField(ctx, "admin_email", claims.Email)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminEmailFromContext returns the authenticated admin email, if any.
func AdminEmailFromContext(ctx context.Context) string {
	if value, ok := ctx.Value(ctxAdminEmail).(string); ok {
		return value
	}
	return ""
}

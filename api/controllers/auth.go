package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/hamnakhalid/kitchenia-backend/api/responses"
	"github.com/hamnakhalid/kitchenia-backend/api/validators"
	pkgauth "github.com/hamnakhalid/kitchenia-backend/pkg/auth"
	"github.com/hamnakhalid/kitchenia-backend/pkg/config"
	pkgerrors "github.com/hamnakhalid/kitchenia-backend/pkg/errors"
	"github.com/hamnakhalid/kitchenia-backend/pkg/logger"
	"github.com/hamnakhalid/kitchenia-backend/pkg/security"
)

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Login verifies the configured back-office credential and mints an
// access token. There is no user table; a single admin is configured
// through the environment.
func Login(cfg *config.Config, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cfg.Admin.Email == "" || cfg.Admin.PasswordHash == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "admin credential not configured"))
			return
		}

		var payload loginRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if !strings.EqualFold(payload.Email, cfg.Admin.Email) {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials"))
			return
		}

		matches, err := security.VerifyPassword(payload.Password, cfg.Admin.PasswordHash)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify credential"))
			return
		}
		if !matches {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials"))
			return
		}

		now := time.Now()
		token, err := pkgauth.MintAccessToken(cfg.JWT, now, pkgauth.AccessTokenPayload{Email: cfg.Admin.Email})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint token"))
			return
		}

		responses.WriteSuccess(w, loginResponse{
			AccessToken: token,
			ExpiresAt:   now.Add(time.Duration(cfg.JWT.ExpirationMinutes) * time.Minute),
		})
	}
}

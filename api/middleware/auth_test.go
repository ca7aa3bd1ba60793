package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgauth "github.com/hamnakhalid/kitchenia-backend/pkg/auth"
	"github.com/hamnakhalid/kitchenia-backend/pkg/config"
)

var testJWTConfig = config.JWTConfig{
	Secret:            "test-secret",
	Issuer:            "kitchenia-test",
	ExpirationMinutes: 15,
}

func TestAdminAuthAllowsValidToken(t *testing.T) {
	token, err := pkgauth.MintAccessToken(testJWTConfig, time.Now(), pkgauth.AccessTokenPayload{Email: "admin@kitchenia.pk"})
	require.NoError(t, err)

	var seenEmail string
	handler := AdminAuth(testJWTConfig, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenEmail = AdminEmailFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	r := httptest.NewRequest("GET", "/api/admin/v1/orders", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "admin@kitchenia.pk", seenEmail)
}

func TestAdminAuthRejectsMissingHeader(t *testing.T) {
	handler := AdminAuth(testJWTConfig, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run without credentials")
	}))

	r := httptest.NewRequest("GET", "/api/admin/v1/orders", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminAuthRejectsGarbageToken(t *testing.T) {
	handler := AdminAuth(testJWTConfig, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run with a bad token")
	}))

	r := httptest.NewRequest("GET", "/api/admin/v1/orders", nil)
	r.Header.Set("Authorization", "Bearer not.a.jwt")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminAuthRejectsTokenFromOtherIssuer(t *testing.T) {
	otherCfg := testJWTConfig
	otherCfg.Issuer = "someone-else"
	token, err := pkgauth.MintAccessToken(otherCfg, time.Now(), pkgauth.AccessTokenPayload{Email: "admin@kitchenia.pk"})
	require.NoError(t, err)

	handler := AdminAuth(testJWTConfig, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run with a foreign token")
	}))

	r := httptest.NewRequest("GET", "/api/admin/v1/orders", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

package validators

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/hamnakhalid/kitchenia-backend/pkg/errors"
)

type loginBody struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

func TestDecodeJSONBodyValid(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"email":"admin@kitchenia.pk","password":"supersecret"}`))
	var body loginBody
	require.NoError(t, DecodeJSONBody(r, &body))
	assert.Equal(t, "admin@kitchenia.pk", body.Email)
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"email":"a@b.pk","password":"supersecret","extra":1}`))
	var body loginBody
	err := DecodeJSONBody(r, &body)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestDecodeJSONBodyFieldMessagesUseJSONNames(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"email":"not-an-email","password":"short"}`))
	var body loginBody
	err := DecodeJSONBody(r, &body)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)

	details, ok := typed.Details().(map[string]string)
	require.True(t, ok)
	assert.Equal(t, "must be a valid email", details["email"])
	assert.Equal(t, "must be at least 8", details["password"])
}

func TestParseQueryInt(t *testing.T) {
	r := httptest.NewRequest("GET", "/?limit=30", nil)
	value, err := ParseQueryInt(r, "limit", 25, 1, 100)
	require.NoError(t, err)
	assert.Equal(t, 30, value)

	r = httptest.NewRequest("GET", "/", nil)
	value, err = ParseQueryInt(r, "limit", 25, 1, 100)
	require.NoError(t, err)
	assert.Equal(t, 25, value)

	r = httptest.NewRequest("GET", "/?limit=500", nil)
	_, err = ParseQueryInt(r, "limit", 25, 1, 100)
	require.Error(t, err)
}

func TestParseQueryDate(t *testing.T) {
	r := httptest.NewRequest("GET", "/?from=2025-08-01", nil)
	value, err := ParseQueryDate(r, "from")
	require.NoError(t, err)
	require.NotNil(t, value)
	assert.Equal(t, 2025, value.Year())

	r = httptest.NewRequest("GET", "/", nil)
	value, err = ParseQueryDate(r, "from")
	require.NoError(t, err)
	assert.Nil(t, value)

	r = httptest.NewRequest("GET", "/?from=yesterday", nil)
	_, err = ParseQueryDate(r, "from")
	require.Error(t, err)
}

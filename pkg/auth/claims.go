package auth

import (
	"github.com/golang-jwt/jwt/v5"
)

// RoleAdmin is the only role the back office issues. The storefront itself is
// anonymous; tokens exist solely to guard the admin surface.
const RoleAdmin = "admin"

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	Email string
	JTI   string
}

// AccessTokenClaims represents the typed JWT issued to the back office.
type AccessTokenClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

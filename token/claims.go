package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the subset of JWT claims surfaced for diagnostics.
type Claims struct {
	Subject   string
	Issuer    string
	ExpiresAt time.Time
}

// InspectClaims decodes an access token as a JWT without verifying the
// signature. It exists purely for logging and CLI display; authorisation
// decisions belong to the resource server. Opaque (non-JWT) tokens, which
// Frappe issues by default, report ok=false.
func InspectClaims(accessToken string) (Claims, bool) {
	mapClaims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(accessToken, mapClaims); err != nil {
		return Claims{}, false
	}

	var claims Claims
	if subject, err := mapClaims.GetSubject(); err == nil {
		claims.Subject = subject
	}
	if issuer, err := mapClaims.GetIssuer(); err == nil {
		claims.Issuer = issuer
	}
	if expiry, err := mapClaims.GetExpirationTime(); err == nil && expiry != nil {
		claims.ExpiresAt = expiry.Time
	}
	return claims, true
}

package oauth2x

// TokenResponse represents the response from an OAuth2 token request.
// This is the standard OAuth2 token endpoint response format as defined in RFC 6749.
// Returned from the token endpoint for both supported grant types.
type TokenResponse struct {
	// AccessToken is the opaque (or JWT) token used to access protected resources.
	// Usage: Include in Authorization header: "Bearer <access_token>"
	// Lifespan: Short-lived (typically 15 minutes - 1 hour)
	AccessToken *string `json:"access_token,omitempty"`

	// TokenType indicates how to use the access token (normally "Bearer").
	// Standard: OAuth2 spec requires this field
	// Usage: Tells the client to use "Authorization: Bearer <token>" header
	TokenType string `json:"token_type,omitempty"`

	// ExpiresIn is the lifetime in seconds of the access token.
	// Example: 3600 (for 1 hour)
	// Note: Servers may omit this; callers should assume a default lifetime
	ExpiresIn int `json:"expires_in,omitempty"`

	// RefreshToken is an opaque token some servers return alongside the
	// access token. This client does not use it (refresh is performed by
	// re-running the grant), but it is preserved for callers that want it.
	RefreshToken *string `json:"refresh_token,omitempty"`

	// Scope indicates the access token's granted permissions.
	// Example: "openid profile email all"
	// Usage: Space-separated list of scopes
	// Note: May be less than requested if some scopes were denied
	Scope string `json:"scope,omitempty"`
}

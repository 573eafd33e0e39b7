package oauth2x

// ResponseType represents the OAuth 2.0 response type.
// Determines what is returned from the authorization endpoint.
type ResponseType string

const (
	// CodeResponseType indicates the authorization code flow.
	// Returns an authorization code that must be exchanged for tokens at the token endpoint.
	// Example: /authorize?response_type=code&client_id=...
	CodeResponseType ResponseType = "code"
)

// GrantType represents the OAuth 2.0 grant type used at the token endpoint.
// Determines what credentials are required to obtain tokens.
type GrantType string

const (
	// AuthorizationCodeGrant exchanges an authorization code for tokens.
	// Token request includes: code, client_id, client_secret, redirect_uri
	// Used when the token must be tied to a specific end user.
	AuthorizationCodeGrant GrantType = "authorization_code"

	// ClientCredentialsGrant allows machine-to-machine authentication.
	// Token request includes: client_id, client_secret
	// Returns: access_token only (no user identity attached)
	// Example: a backend service calling the resource server on its own behalf
	ClientCredentialsGrant GrantType = "client_credentials"
)

// BearerTokenType is the token_type value this client expects from the
// token endpoint. Comparison is case-insensitive per RFC 6749.
const BearerTokenType = "Bearer"

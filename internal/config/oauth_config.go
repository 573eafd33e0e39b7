package config

import (
	"strconv"
	"time"
)

// OAuthConfig describes everything the token providers need: the identity
// server endpoints, the client credential pair, and the caching policy.
//
// Endpoint defaults follow the Frappe framework layout, since that is the
// resource server this client was built against. Each can be overridden
// individually for other OAuth2 servers.
type OAuthConfig interface {
	GetIdentityBaseURL() string
	GetLoginURL() string
	GetAuthorizeURL() string
	GetTokenURL() string
	GetUserInfoURL() string

	GetClientID() string
	GetClientSecret() string
	GetScope() string
	GetRedirectURI() string

	GetTokenCacheEnabled() bool
	GetExpirySafetyBuffer() time.Duration
}

const (
	identityBaseURLVar = "IDENTITY_BASE_URL"
	clientIDVar        = "OAUTH_CLIENT_ID"
	clientSecretVar    = "OAUTH_CLIENT_SECRET"

	defaultLoginPath     = "/api/method/login"
	defaultAuthorizePath = "/api/method/frappe.integrations.oauth2.authorize"
	defaultTokenPath     = "/api/method/frappe.integrations.oauth2.get_token"
	defaultUserInfoPath  = "/api/method/frappe.integrations.oauth2.openid_profile"
)

type OAuth struct{}

var _ OAuthConfig = OAuth{}

func (OAuth) GetIdentityBaseURL() string {
	return GetEnv(identityBaseURLVar, "http://localhost:8000")
}

func (o OAuth) GetLoginURL() string {
	return GetEnv("OAUTH_LOGIN_URL", o.GetIdentityBaseURL()+defaultLoginPath)
}

func (o OAuth) GetAuthorizeURL() string {
	return GetEnv("OAUTH_AUTHORIZE_URL", o.GetIdentityBaseURL()+defaultAuthorizePath)
}

func (o OAuth) GetTokenURL() string {
	return GetEnv("OAUTH_TOKEN_URL", o.GetIdentityBaseURL()+defaultTokenPath)
}

func (o OAuth) GetUserInfoURL() string {
	return GetEnv("OAUTH_USERINFO_URL", o.GetIdentityBaseURL()+defaultUserInfoPath)
}

func (OAuth) GetClientID() string {
	return GetEnv(clientIDVar, "")
}

func (OAuth) GetClientSecret() string {
	return GetEnv(clientSecretVar, "")
}

func (OAuth) GetScope() string {
	return GetEnv("OAUTH_SCOPE", "openid profile email all")
}

// GetRedirectURI returns the fixed redirect target for the authorization-code
// flow. No listener runs there; it only needs to be parseable so the code can
// be lifted from the redirect query string.
func (OAuth) GetRedirectURI() string {
	return GetEnv("OAUTH_REDIRECT_URI", "http://localhost")
}

func (OAuth) GetTokenCacheEnabled() bool {
	enabled, err := strconv.ParseBool(GetEnv("OAUTH_TOKEN_CACHE", "true"))
	if err != nil {
		return true
	}
	return enabled
}

func (OAuth) GetExpirySafetyBuffer() time.Duration {
	seconds, err := strconv.Atoi(GetEnv("OAUTH_EXPIRY_BUFFER_SECONDS", "60"))
	if err != nil || seconds < 0 {
		seconds = 60
	}
	return time.Duration(seconds) * time.Second
}

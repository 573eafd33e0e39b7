package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-oauth-client/internal/config"
)

func TestOAuthEndpointDefaults(t *testing.T) {
	cfg := config.New()

	require.Equal(t, "http://localhost:8000", cfg.GetIdentityBaseURL())
	require.Equal(t, "http://localhost:8000/api/method/login", cfg.GetLoginURL())
	require.Equal(t, "http://localhost:8000/api/method/frappe.integrations.oauth2.authorize", cfg.GetAuthorizeURL())
	require.Equal(t, "http://localhost:8000/api/method/frappe.integrations.oauth2.get_token", cfg.GetTokenURL())
	require.Equal(t, "http://localhost:8000/api/method/frappe.integrations.oauth2.openid_profile", cfg.GetUserInfoURL())
	require.Equal(t, "openid profile email all", cfg.GetScope())
	require.Equal(t, "http://localhost", cfg.GetRedirectURI())
}

func TestOAuthEndpointsFollowIdentityBase(t *testing.T) {
	t.Setenv("IDENTITY_BASE_URL", "https://erp.example.com")
	cfg := config.New()

	require.Equal(t, "https://erp.example.com/api/method/login", cfg.GetLoginURL())
	require.Equal(t, "https://erp.example.com/api/method/frappe.integrations.oauth2.get_token", cfg.GetTokenURL())
}

func TestOAuthEndpointOverridesWin(t *testing.T) {
	t.Setenv("IDENTITY_BASE_URL", "https://erp.example.com")
	t.Setenv("OAUTH_TOKEN_URL", "https://idp.example.com/oauth/token")
	cfg := config.New()

	require.Equal(t, "https://idp.example.com/oauth/token", cfg.GetTokenURL())
	// Endpoints without an override still derive from the base URL.
	require.Equal(t, "https://erp.example.com/api/method/login", cfg.GetLoginURL())
}

func TestTokenCacheFlag(t *testing.T) {
	cfg := config.New()
	require.True(t, cfg.GetTokenCacheEnabled())

	t.Setenv("OAUTH_TOKEN_CACHE", "false")
	require.False(t, cfg.GetTokenCacheEnabled())

	t.Setenv("OAUTH_TOKEN_CACHE", "not-a-bool")
	require.True(t, cfg.GetTokenCacheEnabled())
}

func TestExpirySafetyBuffer(t *testing.T) {
	cfg := config.New()
	require.Equal(t, 60*time.Second, cfg.GetExpirySafetyBuffer())

	t.Setenv("OAUTH_EXPIRY_BUFFER_SECONDS", "120")
	require.Equal(t, 120*time.Second, cfg.GetExpirySafetyBuffer())

	t.Setenv("OAUTH_EXPIRY_BUFFER_SECONDS", "-5")
	require.Equal(t, 60*time.Second, cfg.GetExpirySafetyBuffer())

	t.Setenv("OAUTH_EXPIRY_BUFFER_SECONDS", "garbage")
	require.Equal(t, 60*time.Second, cfg.GetExpirySafetyBuffer())
}

func TestResourceDefaults(t *testing.T) {
	cfg := config.New()

	require.Equal(t, "http://localhost:8000", cfg.GetResourceBaseURL())
	require.Equal(t, 30*time.Second, cfg.GetRequestTimeout())
	require.Equal(t, float64(10), cfg.GetRateLimitPerSecond())
	require.Equal(t, 20, cfg.GetRateLimitBurst())
}

func TestResourceOverrides(t *testing.T) {
	t.Setenv("RESOURCE_BASE_URL", "https://erp.example.com")
	t.Setenv("REQUEST_TIMEOUT_SECONDS", "5")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("RATE_LIMIT_BURST", "4")
	cfg := config.New()

	require.Equal(t, "https://erp.example.com", cfg.GetResourceBaseURL())
	require.Equal(t, 5*time.Second, cfg.GetRequestTimeout())
	require.Equal(t, 2.5, cfg.GetRateLimitPerSecond())
	require.Equal(t, 4, cfg.GetRateLimitBurst())
}

func TestGetEnv(t *testing.T) {
	require.Equal(t, "fallback", config.GetEnv("SOME_UNSET_VARIABLE", "fallback"))

	t.Setenv("SOME_SET_VARIABLE", "value")
	require.Equal(t, "value", config.GetEnv("SOME_SET_VARIABLE", "fallback"))
}

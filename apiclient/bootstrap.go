package apiclient

import (
	"net/http"

	"github.com/pkg/errors"

	"github.com/jrsteele09/go-oauth-client/authflow"
	"github.com/jrsteele09/go-oauth-client/internal/config"
	"github.com/jrsteele09/go-oauth-client/token"
)

// FromConfig wires a dispatcher from the environment-backed configuration.
// Credential selection happens here, once: an OAuth2 client registration wins
// over a pre-shared API key pair, and having neither is a configuration
// error.
func FromConfig(cfg config.Config) (*Client, error) {
	auth, err := authenticatorFromConfig(cfg)
	if err != nil {
		return nil, err
	}

	return New(cfg.GetResourceBaseURL(), auth,
		WithHTTPClient(&http.Client{Timeout: cfg.GetRequestTimeout()}),
		WithRateLimit(cfg.GetRateLimitPerSecond(), cfg.GetRateLimitBurst()),
	)
}

func authenticatorFromConfig(cfg config.Config) (Authenticator, error) {
	if cfg.GetClientID() != "" && cfg.GetClientSecret() != "" {
		options := []authflow.ClientCredentialsOption{
			authflow.WithHTTPClient(&http.Client{Timeout: cfg.GetRequestTimeout()}),
			authflow.WithCache(token.NewCache(token.WithExpiryBuffer(cfg.GetExpirySafetyBuffer()))),
		}
		if !cfg.GetTokenCacheEnabled() {
			options = append(options, authflow.WithCacheDisabled())
		}

		provider := authflow.NewClientCredentialsProvider(cfg.GetTokenURL(), authflow.ClientSettings{
			ID:     cfg.GetClientID(),
			Secret: cfg.GetClientSecret(),
			Scope:  cfg.GetScope(),
		}, options...)

		return NewOAuth2Authenticator(provider), nil
	}

	if cfg.GetAPIKey() != "" && cfg.GetAPISecret() != "" {
		return NewAPIKeyAuthenticator(cfg.GetAPIKey(), cfg.GetAPISecret()), nil
	}

	return nil, errors.Wrap(authflow.ErrConfiguration, "no authentication credentials configured (set OAUTH_CLIENT_ID/OAUTH_CLIENT_SECRET or API_KEY/API_SECRET)")
}

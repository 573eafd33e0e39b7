package apiclient

import (
	"context"
	"net/http"

	"github.com/jrsteele09/go-oauth-client/authflow"
)

// Authenticator attaches credentials to an outbound request. Which
// implementation a Client uses is decided at construction time, never per
// request.
type Authenticator interface {
	// Apply sets the Authorization header (fetching a token if needed).
	Apply(ctx context.Context, req *http.Request) error

	// Invalidate discards any cached credential after the resource server
	// rejects it.
	Invalidate()
}

// OAuth2Authenticator presents bearer tokens from a TokenProvider.
type OAuth2Authenticator struct {
	provider authflow.TokenProvider
}

func NewOAuth2Authenticator(provider authflow.TokenProvider) *OAuth2Authenticator {
	return &OAuth2Authenticator{provider: provider}
}

func (a *OAuth2Authenticator) Apply(ctx context.Context, req *http.Request) error {
	record, err := a.provider.Token(ctx)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", record.AuthorizationHeader())
	return nil
}

func (a *OAuth2Authenticator) Invalidate() {
	a.provider.Invalidate()
}

// APIKeyAuthenticator is the fallback for deployments without an OAuth2
// client: a pre-shared key pair in the "token <key>:<secret>" scheme.
type APIKeyAuthenticator struct {
	key    string
	secret string
}

func NewAPIKeyAuthenticator(key, secret string) *APIKeyAuthenticator {
	return &APIKeyAuthenticator{key: key, secret: secret}
}

func (a *APIKeyAuthenticator) Apply(_ context.Context, req *http.Request) error {
	req.Header.Set("Authorization", "token "+a.key+":"+a.secret)
	return nil
}

// Invalidate is a no-op: pre-shared keys cannot be refreshed.
func (a *APIKeyAuthenticator) Invalidate() {}

var (
	_ Authenticator = (*OAuth2Authenticator)(nil)
	_ Authenticator = (*APIKeyAuthenticator)(nil)
)

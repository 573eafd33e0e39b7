package authflow

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/pkg/errors"
	"golang.org/x/oauth2"

	"github.com/jrsteele09/go-oauth-client/token"
)

// Identity is the subset of userinfo claims this client cares about.
type Identity struct {
	Subject string
	Email   string
	Name    string
}

// UserInfoValidator checks a bearer token against the identity server's
// userinfo endpoint. This is optional diagnostics, not part of either grant
// flow: a token is normally proven by using it.
type UserInfoValidator struct {
	userInfoURL string
	httpClient  *http.Client
}

// NewUserInfoValidator creates a validator for the configured userinfo URL.
func NewUserInfoValidator(userInfoURL string, timeout time.Duration) (*UserInfoValidator, error) {
	if userInfoURL == "" {
		return nil, errors.Wrap(ErrConfiguration, "[NewUserInfoValidator] userinfo URL is required")
	}
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	return &UserInfoValidator{
		userInfoURL: userInfoURL,
		httpClient:  &http.Client{Timeout: timeout},
	}, nil
}

// Validate presents the token to the userinfo endpoint and returns the
// identity claims the server attributes to it. A rejection maps to
// ErrAuthenticationFailed; transport failures map to ErrNetwork.
func (v *UserInfoValidator) Validate(ctx context.Context, record token.Record) (*Identity, error) {
	ctx = oidc.ClientContext(ctx, v.httpClient)

	// Explicit endpoint configuration: no discovery round-trip, the userinfo
	// URL comes straight from configuration.
	provider := (&oidc.ProviderConfig{UserInfoURL: v.userInfoURL}).NewProvider(ctx)

	source := oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: record.AccessToken,
		TokenType:   record.TokenType,
	})

	info, err := provider.UserInfo(ctx, source)
	if err != nil {
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			return nil, NewNetworkError(StepUserInfo, err)
		}
		return nil, NewFlowError(ErrAuthenticationFailed, StepUserInfo, 0, err.Error())
	}

	var claims struct {
		Name string `json:"name"`
	}
	_ = info.Claims(&claims)

	return &Identity{
		Subject: info.Subject,
		Email:   info.Email,
		Name:    claims.Name,
	}, nil
}

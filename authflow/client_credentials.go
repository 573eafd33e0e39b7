package authflow

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/jrsteele09/go-oauth-client/token"
)

// DefaultRequestTimeout bounds token-endpoint calls when no custom HTTP
// client is supplied.
const DefaultRequestTimeout = 30 * time.Second

// ClientCredentialsProvider obtains service-level tokens with the
// client_credentials grant. No user interaction, no session. Safe for
// concurrent use; concurrent refreshes for the same credential pair collapse
// into a single fetch through the cache.
type ClientCredentialsProvider struct {
	client     ClientSettings
	conf       *clientcredentials.Config
	cache      *token.Cache // nil when caching is disabled
	cacheKey   string       // endpoint and client id, so providers sharing a cache stay apart
	httpClient *http.Client
	nowTime    func() time.Time
}

// ClientCredentialsOption configures a ClientCredentialsProvider.
type ClientCredentialsOption func(*ClientCredentialsProvider)

// WithCache replaces the provider's token cache, letting several components
// share one cache (or tests supply one with an injected clock).
func WithCache(cache *token.Cache) ClientCredentialsOption {
	return func(p *ClientCredentialsProvider) {
		p.cache = cache
	}
}

// WithCacheDisabled makes every Token call hit the token endpoint.
func WithCacheDisabled() ClientCredentialsOption {
	return func(p *ClientCredentialsProvider) {
		p.cache = nil
	}
}

// WithHTTPClient sets the HTTP client used for token-endpoint calls. The
// client's timeout bounds each fetch.
func WithHTTPClient(httpClient *http.Client) ClientCredentialsOption {
	return func(p *ClientCredentialsProvider) {
		p.httpClient = httpClient
	}
}

// WithClock sets the time source (primarily for testing).
func WithClock(nowFunc func() time.Time) ClientCredentialsOption {
	return func(p *ClientCredentialsProvider) {
		p.nowTime = nowFunc
	}
}

// NewClientCredentialsProvider creates a provider for the given token
// endpoint and client registration. Missing credentials are reported by
// Token, not here, so a half-configured service fails with a configuration
// error instead of a nil provider.
func NewClientCredentialsProvider(tokenURL string, client ClientSettings, options ...ClientCredentialsOption) *ClientCredentialsProvider {
	provider := &ClientCredentialsProvider{
		client: client,
		conf: &clientcredentials.Config{
			ClientID:     client.ID,
			ClientSecret: client.Secret,
			TokenURL:     tokenURL,
			Scopes:       strings.Fields(client.Scope),
			AuthStyle:    oauth2.AuthStyleInParams, // Frappe reads the pair from the form body
		},
		cache:      token.NewCache(),
		cacheKey:   tokenURL + "|" + client.ID,
		httpClient: &http.Client{Timeout: DefaultRequestTimeout},
		nowTime:    time.Now,
	}

	for _, opt := range options {
		opt(provider)
	}

	return provider
}

// Token returns a valid service token, consulting the cache first. A missing
// client id or secret fails before any network call.
func (p *ClientCredentialsProvider) Token(ctx context.Context) (token.Record, error) {
	if p.client.ID == "" || p.client.Secret == "" {
		return token.Record{}, errors.Wrap(ErrConfiguration, "client id and secret are not set")
	}

	if p.cache == nil {
		return p.fetch(ctx)
	}
	return p.cache.GetOrRefresh(ctx, p.cacheKey, p.fetch)
}

// Invalidate drops the cached token for this credential pair.
func (p *ClientCredentialsProvider) Invalidate() {
	if p.cache != nil {
		p.cache.Invalidate(p.cacheKey)
	}
}

func (p *ClientCredentialsProvider) fetch(ctx context.Context) (token.Record, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)

	tok, err := p.conf.Token(ctx)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) {
			return token.Record{}, NewFlowError(ErrAuthenticationFailed, StepToken, retrieveErr.Response.StatusCode, string(retrieveErr.Body))
		}
		return token.Record{}, NewNetworkError(StepToken, err)
	}

	record := token.FromToken(tok, p.nowTime())
	log.Debug().
		Str("client_id", p.client.ID).
		Time("expires_at", record.ExpiresAt).
		Msg("obtained client-credentials token")

	return record, nil
}

var _ TokenProvider = (*ClientCredentialsProvider)(nil)

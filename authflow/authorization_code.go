package authflow

import (
	"context"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"

	"github.com/jrsteele09/go-oauth-client/oauth2x"
	"github.com/jrsteele09/go-oauth-client/token"
)

// maxConsentRounds bounds how many approval submissions the flow will make
// when the server keeps bouncing back to its own authorization endpoint.
const maxConsentRounds = 3

// AuthorizationCodeProvider drives the interactive authorization-code grant:
// session login, authorization request, consent approval when required, and
// the code-for-token exchange. Each invocation runs on its own cookie jar;
// sessions are never shared between invocations.
//
// The resulting token is tied to the logged-in user, so it is memoised in a
// provider-private cache keyed by username rather than any service-wide one.
type AuthorizationCodeProvider struct {
	endpoints Endpoints
	client    ClientSettings
	user      UserCredentials

	cache   *token.Cache
	timeout time.Duration
	nowTime func() time.Time
}

// AuthorizationCodeOption configures an AuthorizationCodeProvider.
type AuthorizationCodeOption func(*AuthorizationCodeProvider)

// WithFlowTimeout bounds each HTTP call the flow makes.
func WithFlowTimeout(timeout time.Duration) AuthorizationCodeOption {
	return func(p *AuthorizationCodeProvider) {
		p.timeout = timeout
	}
}

// WithFlowCache replaces the provider-private token cache (testing, custom
// expiry buffers).
func WithFlowCache(cache *token.Cache) AuthorizationCodeOption {
	return func(p *AuthorizationCodeProvider) {
		p.cache = cache
	}
}

// WithFlowClock sets the time source (primarily for testing).
func WithFlowClock(nowFunc func() time.Time) AuthorizationCodeOption {
	return func(p *AuthorizationCodeProvider) {
		p.nowTime = nowFunc
	}
}

// NewAuthorizationCodeProvider validates the wiring the interactive flow
// cannot run without and returns a configured provider.
func NewAuthorizationCodeProvider(endpoints Endpoints, client ClientSettings, user UserCredentials, options ...AuthorizationCodeOption) (*AuthorizationCodeProvider, error) {
	if endpoints.LoginURL == "" || endpoints.AuthorizeURL == "" || endpoints.TokenURL == "" {
		return nil, errors.Wrap(ErrConfiguration, "[NewAuthorizationCodeProvider] login, authorize and token URLs are required")
	}
	if client.ID == "" || client.Secret == "" {
		return nil, errors.Wrap(ErrConfiguration, "[NewAuthorizationCodeProvider] client id and secret are required")
	}
	if user.Username == "" || user.Password == "" {
		return nil, errors.Wrap(ErrConfiguration, "[NewAuthorizationCodeProvider] user credentials are required")
	}
	if client.RedirectURI == "" {
		client.RedirectURI = "http://localhost"
	}

	provider := &AuthorizationCodeProvider{
		endpoints: endpoints,
		client:    client,
		user:      user,
		cache:     token.NewCache(),
		timeout:   DefaultRequestTimeout,
		nowTime:   time.Now,
	}

	for _, opt := range options {
		opt(provider)
	}

	return provider, nil
}

// Token returns a valid user-delegated token, re-running the interactive flow
// only when the memoised one has expired.
func (p *AuthorizationCodeProvider) Token(ctx context.Context) (token.Record, error) {
	return p.cache.GetOrRefresh(ctx, p.user.Username, p.run)
}

// Invalidate drops the memoised token so the next Token call re-runs the flow.
func (p *AuthorizationCodeProvider) Invalidate() {
	p.cache.Invalidate(p.user.Username)
}

// run executes one complete flow invocation. Any failure is terminal for the
// invocation; the next Token call restarts from the top.
func (p *AuthorizationCodeProvider) run(ctx context.Context) (token.Record, error) {
	session, err := p.newSession()
	if err != nil {
		return token.Record{}, errors.Wrap(err, "[run] session setup")
	}

	if err := p.login(ctx, session); err != nil {
		return token.Record{}, err
	}

	code, err := p.obtainCode(ctx, session)
	if err != nil {
		return token.Record{}, err
	}

	return p.exchange(ctx, code)
}

// newSession builds the flow-private HTTP client: its own cookie jar, a
// bounded timeout, and redirect following disabled so raw Location headers
// can be inspected.
func (p *AuthorizationCodeProvider) newSession() (*http.Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &http.Client{
		Jar:     jar,
		Timeout: p.timeout,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}, nil
}

func (p *AuthorizationCodeProvider) login(ctx context.Context, session *http.Client) error {
	form := url.Values{
		"usr": {p.user.Username},
		"pwd": {p.user.Password},
	}

	resp, err := p.postForm(ctx, session, p.endpoints.LoginURL, form)
	if err != nil {
		return NewNetworkError(StepLogin, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return NewFlowError(ErrLoginFailed, StepLogin, resp.StatusCode, readBodyExcerpt(resp.Body))
	}

	log.Debug().Str("user", p.user.Username).Msg("identity login succeeded")
	return nil
}

// obtainCode issues the authorization request and, when consent has not been
// granted yet, submits a bounded number of approvals until a code appears.
func (p *AuthorizationCodeProvider) obtainCode(ctx context.Context, session *http.Client) (string, error) {
	state := uuid.NewString()

	authorizeURL := p.oauthConfig().AuthCodeURL(state)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, authorizeURL, nil)
	if err != nil {
		return "", NewNetworkError(StepAuthorize, err)
	}

	resp, err := session.Do(req)
	if err != nil {
		return "", NewNetworkError(StepAuthorize, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if !isRedirectStatus(resp.StatusCode) {
		return "", NewFlowError(ErrUnexpectedResponse, StepAuthorize, resp.StatusCode, readBodyExcerpt(resp.Body))
	}

	redirect := ParseAuthorizeRedirect(resp.Header.Get("Location"), p.endpoints.AuthorizeURL, state)
	for round := 0; redirect.Outcome == RedirectApprovalRequired; round++ {
		if round == maxConsentRounds {
			return "", NewFlowError(ErrApprovalFailed, StepApprove, resp.StatusCode, redirect.Location)
		}
		log.Debug().Int("round", round+1).Msg("authorization approval required")
		redirect, err = p.approve(ctx, session, state)
		if err != nil {
			return "", err
		}
	}

	if redirect.Outcome != RedirectCodeGranted {
		return "", NewFlowError(ErrUnexpectedResponse, StepAuthorize, resp.StatusCode, redirect.Location)
	}
	return redirect.Code, nil
}

// approve re-submits the authorization parameters with the explicit approval
// flag and classifies the resulting redirect.
func (p *AuthorizationCodeProvider) approve(ctx context.Context, session *http.Client, state string) (AuthorizeRedirect, error) {
	form := url.Values{
		"client_id":     {p.client.ID},
		"redirect_uri":  {p.client.RedirectURI},
		"response_type": {string(oauth2x.CodeResponseType)},
		"scope":         {p.client.Scope},
		"state":         {state},
		"authorize":     {"1"},
	}

	resp, err := p.postForm(ctx, session, p.endpoints.AuthorizeURL, form)
	if err != nil {
		return AuthorizeRedirect{}, NewNetworkError(StepApprove, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if !isRedirectStatus(resp.StatusCode) {
		return AuthorizeRedirect{}, NewFlowError(ErrApprovalFailed, StepApprove, resp.StatusCode, readBodyExcerpt(resp.Body))
	}

	redirect := ParseAuthorizeRedirect(resp.Header.Get("Location"), p.endpoints.AuthorizeURL, state)
	if redirect.Outcome == RedirectUnexpected {
		return AuthorizeRedirect{}, NewFlowError(ErrApprovalFailed, StepApprove, resp.StatusCode, redirect.Location)
	}
	return redirect, nil
}

// exchange swaps the authorization code for a token. The exchange needs no
// session cookies, so it runs on a plain bounded client.
func (p *AuthorizationCodeProvider) exchange(ctx context.Context, code string) (token.Record, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, &http.Client{Timeout: p.timeout})

	tok, err := p.oauthConfig().Exchange(ctx, code)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) {
			return token.Record{}, NewFlowError(ErrTokenExchangeFailed, StepToken, retrieveErr.Response.StatusCode, string(retrieveErr.Body))
		}
		return token.Record{}, NewNetworkError(StepToken, err)
	}

	record := token.FromToken(tok, p.nowTime())
	log.Debug().
		Str("user", p.user.Username).
		Time("expires_at", record.ExpiresAt).
		Msg("obtained authorization-code token")

	return record, nil
}

func (p *AuthorizationCodeProvider) oauthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     p.client.ID,
		ClientSecret: p.client.Secret,
		RedirectURL:  p.client.RedirectURI,
		Scopes:       strings.Fields(p.client.Scope),
		Endpoint: oauth2.Endpoint{
			AuthURL:   p.endpoints.AuthorizeURL,
			TokenURL:  p.endpoints.TokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
}

func (p *AuthorizationCodeProvider) postForm(ctx context.Context, session *http.Client, endpoint string, form url.Values) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return session.Do(req)
}

func readBodyExcerpt(body io.Reader) string {
	excerpt, err := io.ReadAll(io.LimitReader(body, maxErrorBodyBytes))
	if err != nil {
		return ""
	}
	return string(excerpt)
}

var _ TokenProvider = (*AuthorizationCodeProvider)(nil)

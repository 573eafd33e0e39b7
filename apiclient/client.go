package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/jrsteele09/go-oauth-client/authflow"
)

// Client dispatches authenticated calls to the resource server. It obtains
// credentials from its Authenticator, forwards optional user context, and on
// a 401 invalidates the cached credential and retries exactly once. Every
// other non-2xx status is handed back to the caller unmodified as an
// *APIError.
type Client struct {
	baseURL    string
	httpClient *http.Client
	auth       Authenticator
	limiter    *rate.Limiter // nil when rate limiting is disabled
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the underlying HTTP client; its timeout bounds each
// resource call.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithRateLimit throttles outbound calls.
func WithRateLimit(requestsPerSecond float64, burst int) Option {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), burst)
	}
}

// New creates a dispatcher for the given resource server.
func New(baseURL string, auth Authenticator, options ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, errors.Wrap(authflow.ErrConfiguration, "[New] resource base URL is required")
	}
	if auth == nil {
		return nil, errors.Wrap(authflow.ErrConfiguration, "[New] an authenticator is required")
	}

	client := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		auth:    auth,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}

	for _, opt := range options {
		opt(client)
	}

	return client, nil
}

// Do issues one authenticated call. body (when non-nil) is sent as JSON;
// result (when non-nil) receives the decoded 2xx response body.
func (c *Client) Do(ctx context.Context, method, path string, body, result interface{}, options ...RequestOption) error {
	var opts requestOptions
	for _, opt := range options {
		opt(&opts)
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return errors.Wrap(err, "[Do] rate limiter")
		}
	}

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "[Do] marshal request body")
		}
	}

	statusCode, respBody, err := c.send(ctx, method, path, payload, &opts)
	if err != nil {
		return err
	}

	if statusCode == http.StatusUnauthorized {
		// One recovery attempt: drop the cached credential, fetch a fresh
		// one, resend. A second 401 surfaces without further retries.
		log.Warn().Str("method", method).Str("path", path).Msg("bearer token rejected, refreshing once")
		c.auth.Invalidate()

		statusCode, respBody, err = c.send(ctx, method, path, payload, &opts)
		if err != nil {
			return err
		}
		if statusCode == http.StatusUnauthorized {
			return authflow.NewFlowError(authflow.ErrAuthenticationFailed, authflow.StepDispatch, statusCode, string(respBody))
		}
	}

	if statusCode >= 400 {
		return newAPIError(statusCode, respBody)
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return authflow.NewFlowError(authflow.ErrUnexpectedResponse, authflow.StepDispatch, statusCode, string(respBody))
		}
	}

	return nil
}

// send performs one attempt: authenticate, dispatch, drain. The body reader
// is rebuilt from the payload each attempt so a retry never sends a spent
// reader.
func (c *Client) send(ctx context.Context, method, path string, payload []byte, opts *requestOptions) (int, []byte, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, nil, errors.Wrap(err, "[send] build request")
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if err := c.auth.Apply(ctx, req); err != nil {
		return 0, nil, err
	}
	opts.user.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, authflow.NewNetworkError(authflow.StepDispatch, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, authflow.NewNetworkError(authflow.StepDispatch, err)
	}

	log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Msg("dispatched resource call")

	return resp.StatusCode, respBody, nil
}

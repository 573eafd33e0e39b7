package authflow

import (
	"context"

	"github.com/jrsteele09/go-oauth-client/token"
)

// TokenProvider supplies a valid bearer token for outbound requests. A
// provider consults its cache first and performs network calls only on a miss
// or after expiry. Providers never retry automatically; retry policy belongs
// to the dispatcher.
type TokenProvider interface {
	// Token returns a usable token record, fetching a fresh one if needed.
	// Blocking is bounded by ctx.
	Token(ctx context.Context) (token.Record, error)

	// Invalidate drops any cached token so the next Token call fetches anew.
	// Called by the dispatcher after the resource server rejects a token.
	Invalidate()
}

// ClientSettings is the OAuth2 client registration this service was issued.
// Immutable, supplied at configuration time.
type ClientSettings struct {
	ID          string
	Secret      string
	Scope       string // space-separated
	RedirectURI string // authorization-code flow only
}

// UserCredentials identifies the end user the authorization-code flow logs in
// as. The password is only ever sent to the identity endpoint, never stored
// beyond the provider that holds it.
type UserCredentials struct {
	Username string
	Password string
}

// Endpoints groups the identity-server URLs the flows talk to.
type Endpoints struct {
	LoginURL     string
	AuthorizeURL string
	TokenURL     string
}

package authflow

import (
	"net/url"
)

// RedirectOutcome classifies the Location header returned by the
// authorization endpoint.
type RedirectOutcome int

const (
	// RedirectCodeGranted means the redirect query string carries an
	// authorization code and the flow can proceed to the token exchange.
	RedirectCodeGranted RedirectOutcome = iota

	// RedirectApprovalRequired means the server bounced the request back to
	// its own authorization endpoint: consent has not been granted yet.
	RedirectApprovalRequired

	// RedirectUnexpected covers everything else (unparseable target, state
	// mismatch, redirect to an unrelated location without a code).
	RedirectUnexpected
)

// AuthorizeRedirect is the structured result of parsing an authorization
// redirect. It replaces substring checks on the raw Location string.
type AuthorizeRedirect struct {
	Outcome  RedirectOutcome
	Code     string // set when Outcome is RedirectCodeGranted
	Location string // raw Location header, for diagnostics
}

// ParseAuthorizeRedirect classifies the Location header of an authorization
// response. authorizeURL is the endpoint the request was sent to, used to
// recognise consent bounces. expectedState, when non-empty, is checked
// against an echoed state parameter; a mismatch is treated as unexpected.
func ParseAuthorizeRedirect(location, authorizeURL, expectedState string) AuthorizeRedirect {
	result := AuthorizeRedirect{Outcome: RedirectUnexpected, Location: location}
	if location == "" {
		return result
	}

	target, err := url.Parse(location)
	if err != nil {
		return result
	}

	query := target.Query()
	if code := query.Get("code"); code != "" {
		if echoed := query.Get("state"); echoed != "" && expectedState != "" && echoed != expectedState {
			return result
		}
		result.Outcome = RedirectCodeGranted
		result.Code = code
		return result
	}

	// No code: a bounce back to the authorization endpoint itself means the
	// consent step still has to happen.
	if endpoint, err := url.Parse(authorizeURL); err == nil {
		sameHost := target.Host == "" || target.Host == endpoint.Host
		if sameHost && target.Path == endpoint.Path {
			result.Outcome = RedirectApprovalRequired
			return result
		}
	}

	return result
}

func isRedirectStatus(status int) bool {
	switch status {
	case 301, 302, 303, 307, 308:
		return true
	}
	return false
}

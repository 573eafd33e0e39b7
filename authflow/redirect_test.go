package authflow_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-oauth-client/authflow"
)

const authorizeEndpoint = "http://localhost:8000/api/method/frappe.integrations.oauth2.authorize"

func TestParseAuthorizeRedirect(t *testing.T) {
	tests := []struct {
		name     string
		location string
		state    string
		outcome  authflow.RedirectOutcome
		code     string
	}{
		{
			name:     "code granted",
			location: "http://localhost?code=abc123&state=s1",
			state:    "s1",
			outcome:  authflow.RedirectCodeGranted,
			code:     "abc123",
		},
		{
			name:     "code granted without echoed state",
			location: "http://localhost?code=abc123",
			state:    "s1",
			outcome:  authflow.RedirectCodeGranted,
			code:     "abc123",
		},
		{
			name:     "state mismatch",
			location: "http://localhost?code=abc123&state=forged",
			state:    "s1",
			outcome:  authflow.RedirectUnexpected,
		},
		{
			name:     "consent bounce back to authorize endpoint",
			location: authorizeEndpoint + "?client_id=test-client-1",
			state:    "s1",
			outcome:  authflow.RedirectApprovalRequired,
		},
		{
			name:     "relative consent bounce",
			location: "/api/method/frappe.integrations.oauth2.authorize?client_id=test-client-1",
			state:    "s1",
			outcome:  authflow.RedirectApprovalRequired,
		},
		{
			name:     "unrelated redirect without code",
			location: "http://localhost:8000/login?error=access_denied",
			state:    "s1",
			outcome:  authflow.RedirectUnexpected,
		},
		{
			name:     "empty location",
			location: "",
			state:    "s1",
			outcome:  authflow.RedirectUnexpected,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := authflow.ParseAuthorizeRedirect(tc.location, authorizeEndpoint, tc.state)
			require.Equal(t, tc.outcome, result.Outcome)
			require.Equal(t, tc.code, result.Code)
			require.Equal(t, tc.location, result.Location)
		})
	}
}

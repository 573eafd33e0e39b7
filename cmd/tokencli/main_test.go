package main

import (
	"testing"

	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-oauth-client/authflow"
)

func TestFailureHint(t *testing.T) {
	tests := []struct {
		name string
		err  error
		hint string
	}{
		{
			name: "configuration errors point at the env vars",
			err:  pkgerrors.Wrap(authflow.ErrConfiguration, "client id and secret are not set"),
			hint: "Check OAUTH_CLIENT_ID / OAUTH_CLIENT_SECRET and the endpoint URLs.",
		},
		{
			name: "network errors point at the identity server",
			err:  authflow.NewNetworkError(authflow.StepToken, pkgerrors.New("connection refused")),
			hint: "The identity server could not be reached. Check IDENTITY_BASE_URL.",
		},
		{
			name: "other failures carry no hint",
			err:  authflow.NewFlowError(authflow.ErrLoginFailed, authflow.StepLogin, 401, "invalid login"),
			hint: "",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.hint, failureHint(tc.err))
		})
	}
}

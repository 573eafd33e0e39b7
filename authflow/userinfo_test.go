package authflow_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-oauth-client/authflow"
	"github.com/jrsteele09/go-oauth-client/token"
)

func userRecord() token.Record {
	return token.Record{
		AccessToken: "user-token-1",
		TokenType:   "Bearer",
		ExpiresAt:   time.Now().Add(time.Hour),
	}
}

func TestUserInfoValidateReturnsIdentity(t *testing.T) {
	var authorization string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authorization = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"sub":"john.doe@example.com","email":"john.doe@example.com","name":"John Doe"}`)
	}))
	defer server.Close()

	validator, err := authflow.NewUserInfoValidator(server.URL, time.Second)
	require.NoError(t, err)

	identity, err := validator.Validate(context.Background(), userRecord())
	require.NoError(t, err)
	require.Equal(t, "john.doe@example.com", identity.Subject)
	require.Equal(t, "john.doe@example.com", identity.Email)
	require.Equal(t, "John Doe", identity.Name)

	// The token under validation travels as the bearer credential.
	require.Equal(t, "Bearer user-token-1", authorization)
}

func TestUserInfoValidateRejectionMapsToAuthenticationError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"message":"invalid token"}`)
	}))
	defer server.Close()

	validator, err := authflow.NewUserInfoValidator(server.URL, time.Second)
	require.NoError(t, err)

	_, err = validator.Validate(context.Background(), userRecord())
	require.ErrorIs(t, err, authflow.ErrAuthenticationFailed)

	var flowErr *authflow.FlowError
	require.ErrorAs(t, err, &flowErr)
	require.Equal(t, authflow.StepUserInfo, flowErr.Step)
}

func TestUserInfoValidateTransportFailureMapsToNetworkError(t *testing.T) {
	validator, err := authflow.NewUserInfoValidator("http://127.0.0.1:1/userinfo", time.Second)
	require.NoError(t, err)

	_, err = validator.Validate(context.Background(), userRecord())
	require.ErrorIs(t, err, authflow.ErrNetwork)
}

func TestNewUserInfoValidatorRequiresURL(t *testing.T) {
	_, err := authflow.NewUserInfoValidator("", time.Second)
	require.ErrorIs(t, err, authflow.ErrConfiguration)
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"runtime/debug"
	"time"

	"github.com/common-nighthawk/go-figure"
	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/jrsteele09/go-oauth-client/authflow"
	"github.com/jrsteele09/go-oauth-client/internal/config"
	"github.com/jrsteele09/go-oauth-client/token"
)

func main() {
	if err := run(); err != nil {
		fmt.Printf("Error fetching token: %s\n", err)
		if hint := failureHint(err); hint != "" {
			fmt.Println(hint)
		}
		os.Exit(1)
	}
}

// failureHint maps a taxonomy error to advice for the operator. Scripted
// callers rely on the exit code, not this text.
func failureHint(err error) string {
	switch {
	case errors.Is(err, authflow.ErrConfiguration):
		return "Check OAUTH_CLIENT_ID / OAUTH_CLIENT_SECRET and the endpoint URLs."
	case errors.Is(err, authflow.ErrNetwork):
		return "The identity server could not be reached. Check IDENTITY_BASE_URL."
	}
	return ""
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Printf("Recovered from panic: %v\n", r)
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	grant := flag.String("grant", "client-credentials", "grant type: client-credentials or authorization-code")
	username := flag.String("username", "", "identity username (authorization-code grant only)")
	password := flag.String("password", "", "identity password (authorization-code grant only)")
	validate := flag.Bool("validate", false, "validate the token against the userinfo endpoint")
	flag.Parse()

	c := config.New()
	configureLogging(c)
	displayAppname(c.GetAppName())

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	provider, err := newProvider(c, *grant, *username, *password)
	if err != nil {
		return err
	}

	record, err := provider.Token(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Access Token: %s\n", record.AccessToken)
	fmt.Printf("Token Type:   %s\n", record.TokenType)
	fmt.Printf("Scope:        %s\n", record.Scope)
	fmt.Printf("Expires At:   %s\n", record.ExpiresAt.Format(time.RFC3339))

	if claims, ok := token.InspectClaims(record.AccessToken); ok {
		fmt.Printf("JWT Subject:  %s\n", claims.Subject)
		fmt.Printf("JWT Issuer:   %s\n", claims.Issuer)
	}

	if *validate {
		validator, err := authflow.NewUserInfoValidator(c.GetUserInfoURL(), c.GetRequestTimeout())
		if err != nil {
			return err
		}
		identity, err := validator.Validate(ctx, record)
		if err != nil {
			return err
		}
		fmt.Printf("Validated as: %s <%s>\n", identity.Subject, identity.Email)
	}

	return nil
}

func newProvider(c config.Config, grant, username, password string) (authflow.TokenProvider, error) {
	settings := authflow.ClientSettings{
		ID:          c.GetClientID(),
		Secret:      c.GetClientSecret(),
		Scope:       c.GetScope(),
		RedirectURI: c.GetRedirectURI(),
	}

	switch grant {
	case "client-credentials":
		return authflow.NewClientCredentialsProvider(c.GetTokenURL(), settings,
			authflow.WithHTTPClient(httpClientFor(c))), nil
	case "authorization-code":
		return authflow.NewAuthorizationCodeProvider(
			authflow.Endpoints{
				LoginURL:     c.GetLoginURL(),
				AuthorizeURL: c.GetAuthorizeURL(),
				TokenURL:     c.GetTokenURL(),
			},
			settings,
			authflow.UserCredentials{Username: username, Password: password},
			authflow.WithFlowTimeout(c.GetRequestTimeout()),
		)
	default:
		return nil, pkgerrors.Wrapf(authflow.ErrConfiguration, "unknown grant type %q", grant)
	}
}

func httpClientFor(c config.Config) *http.Client {
	return &http.Client{Timeout: c.GetRequestTimeout()}
}

func configureLogging(c config.Config) {
	level, err := zerolog.ParseLevel(c.GetLogLevel())
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}

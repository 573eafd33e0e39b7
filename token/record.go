package token

import (
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/jrsteele09/go-oauth-client/oauth2x"
)

// DefaultLifetime is assumed when the token endpoint omits expires_in.
const DefaultLifetime = 3600 * time.Second

// Record is a single issued access token together with the metadata needed to
// use and expire it. Records are immutable: a refresh produces a new Record,
// never a partial update of an old one.
type Record struct {
	AccessToken string
	TokenType   string
	Scope       string
	ExpiresAt   time.Time // server-reported expiry; safety buffering is the cache's job
}

// IsZero reports whether the record holds no token.
func (r Record) IsZero() bool {
	return r.AccessToken == ""
}

// AuthorizationHeader returns the value for the Authorization header,
// normalising the common lowercase "bearer" that some servers emit.
func (r Record) AuthorizationHeader() string {
	tokenType := r.TokenType
	if tokenType == "" || strings.EqualFold(tokenType, oauth2x.BearerTokenType) {
		tokenType = oauth2x.BearerTokenType
	}
	return tokenType + " " + r.AccessToken
}

// FromToken converts an oauth2 library token into a Record. Tokens without a
// known expiry get the default lifetime from now.
func FromToken(t *oauth2.Token, now time.Time) Record {
	expiresAt := t.Expiry
	if expiresAt.IsZero() {
		expiresAt = now.Add(DefaultLifetime)
	}

	tokenType := t.TokenType
	if tokenType == "" {
		tokenType = oauth2x.BearerTokenType
	}

	scope, _ := t.Extra("scope").(string)

	return Record{
		AccessToken: t.AccessToken,
		TokenType:   tokenType,
		Scope:       scope,
		ExpiresAt:   expiresAt,
	}
}

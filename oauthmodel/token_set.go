package oauthmodel

import (
	"time"

	"golang.org/x/oauth2"
)

// TokenSet is what the token endpoint returns for the authorization code and
// refresh grants.
type TokenSet struct {
	// AccessToken is the short lived bearer credential.
	AccessToken string `json:"access_token"`

	// IDToken carries identity claims. It is kept for the logout id_token_hint.
	IDToken string `json:"id_token,omitempty"`

	// RefreshToken is optional and depends on the provider's client settings.
	RefreshToken string `json:"refresh_token,omitempty"`

	// Expiry of the access token; zero when the provider sent no expires_in.
	Expiry time.Time `json:"expiry,omitempty"`
}

// TokenSetFromOAuth2 converts an x/oauth2 token, pulling the id_token out of
// the raw response fields.
func TokenSetFromOAuth2(t *oauth2.Token) TokenSet {
	ts := TokenSet{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		Expiry:       t.Expiry,
	}
	if idToken, ok := t.Extra("id_token").(string); ok {
		ts.IDToken = idToken
	}
	return ts
}

// Expired reports whether the access token is past its expiry. A token with
// no known expiry never expires.
func (ts TokenSet) Expired(now time.Time) bool {
	return !ts.Expiry.IsZero() && !now.Before(ts.Expiry)
}

package strava

import (
	"context"

	"golang.org/x/oauth2"
)

const tokenURL = "https://www.strava.com/oauth/token"

// NewTokenSource exchanges the long-lived refresh token for short-lived
// access tokens, re-refreshing automatically as they expire. Strava refresh
// tokens do not rotate on use, so seeding the source once per run is enough.
func NewTokenSource(ctx context.Context, clientID, clientSecret, refreshToken string) oauth2.TokenSource {
	cfg := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     oauth2.Endpoint{TokenURL: tokenURL},
	}

	seed := &oauth2.Token{RefreshToken: refreshToken}
	return oauth2.ReuseTokenSource(nil, cfg.TokenSource(ctx, seed))
}

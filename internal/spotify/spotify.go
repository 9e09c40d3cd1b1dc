// Package spotify is a thin wrapper over the Spotify Web API for
// playback control. One mutex serializes access: the player endpoint
// is a single shared resource and only one logical caller should touch
// it at a time.
package spotify

import (
	"context"
	"errors"
	"fmt"
	"sync"

	spotifyapi "github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2"
)

type Control struct {
	mu     sync.Mutex
	client *spotifyapi.Client
}

// Scopes required for playback control.
var scopes = []string{
	spotifyauth.ScopeUserModifyPlaybackState,
	spotifyauth.ScopeUserReadPlaybackState,
}

// Authenticator builds the OAuth authenticator used during the
// first-run token exchange against the configured callback URL.
func Authenticator(clientID, clientSecret, redirectURI string) *spotifyauth.Authenticator {
	return spotifyauth.New(
		spotifyauth.WithClientID(clientID),
		spotifyauth.WithClientSecret(clientSecret),
		spotifyauth.WithRedirectURL(redirectURI),
		spotifyauth.WithScopes(scopes...),
	)
}

// New wraps an already-authorized token.
func New(ctx context.Context, auth *spotifyauth.Authenticator, token *oauth2.Token) *Control {
	httpClient := auth.Client(ctx, token)
	return &Control{client: spotifyapi.New(httpClient)}
}

// Play searches for the query and starts playback of the first track
// hit on the active device.
func (c *Control) Play(ctx context.Context, query string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if query == "" {
		return errors.New("empty query")
	}
	res, err := c.client.Search(ctx, query, spotifyapi.SearchTypeTrack, spotifyapi.Limit(1))
	if err != nil {
		return fmt.Errorf("search track: %w", err)
	}
	if res.Tracks == nil || len(res.Tracks.Tracks) == 0 {
		return fmt.Errorf("no track found for %q", query)
	}
	uri := res.Tracks.Tracks[0].URI
	if err := c.client.PlayOpt(ctx, &spotifyapi.PlayOptions{URIs: []spotifyapi.URI{uri}}); err != nil {
		return fmt.Errorf("start playback: %w", err)
	}
	return nil
}

func (c *Control) Pause(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.client.Pause(ctx); err != nil {
		return fmt.Errorf("pause playback: %w", err)
	}
	return nil
}

func (c *Control) Next(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.client.Next(ctx); err != nil {
		return fmt.Errorf("next track: %w", err)
	}
	return nil
}

func (c *Control) Previous(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.client.Previous(ctx); err != nil {
		return fmt.Errorf("previous track: %w", err)
	}
	return nil
}

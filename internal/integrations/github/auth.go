// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-02-02
// Last Modified: 2026-10-15

package github

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/go-github/v60/github"
	"golang.org/x/oauth2"
)

// HTTPClient returns an http.Client that authenticates with the token.
// If token is empty, it returns nil so callers fall back to the default client.
func HTTPClient(ctx context.Context, token string) *http.Client {
	if token == "" {
		return nil
	}
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	return oauth2.NewClient(ctx, ts)
}

// NewClient creates a new GitHub client using the provided token.
// A non-empty apiURL points the client at a GitHub Enterprise Server.
func NewClient(ctx context.Context, token, apiURL string) (*Client, error) {
	client := github.NewClient(HTTPClient(ctx, token))

	if apiURL != "" {
		var err error
		client, err = client.WithEnterpriseURLs(apiURL, apiURL)
		if err != nil {
			return nil, fmt.Errorf("invalid GitHub API URL %q: %w", apiURL, err)
		}
	}

	return &Client{
		client: client,
	}, nil
}

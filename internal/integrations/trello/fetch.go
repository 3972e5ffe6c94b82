// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-15
// Last Modified: 2026-10-15

// Package trello retrieves Trello board exports from disk or over HTTP.
package trello

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
)

// TransportError reports that an export could not be retrieved. It is
// distinct from a malformed export, which the parser reports.
type TransportError struct {
	Source     string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("failed to fetch board export %s: status %d", e.Source, e.StatusCode)
	}
	return fmt.Sprintf("failed to fetch board export %s: %v", e.Source, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Fetcher reads board exports from a file path or an http(s) URL.
type Fetcher struct {
	Client   *http.Client
	APIKey   string
	APIToken string
}

// NewFetcher creates a fetcher. Key and token are only sent to trello.com hosts.
func NewFetcher(key, token string) *Fetcher {
	return &Fetcher{
		Client:   &http.Client{},
		APIKey:   key,
		APIToken: token,
	}
}

// Fetch returns the raw export.
func (f *Fetcher) Fetch(ctx context.Context, source string) ([]byte, error) {
	if !isURL(source) {
		data, err := os.ReadFile(source)
		if err != nil {
			return nil, &TransportError{Source: source, Err: err}
		}
		return data, nil
	}

	target, err := f.exportURL(source)
	if err != nil {
		return nil, &TransportError{Source: source, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, &TransportError{Source: source, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, &TransportError{Source: source, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &TransportError{Source: source, StatusCode: resp.StatusCode}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Source: source, Err: err}
	}
	return data, nil
}

func isURL(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// exportURL turns a board page URL (https://trello.com/b/<id>/<slug>) into
// its JSON export URL and attaches credentials for Trello hosts.
func (f *Fetcher) exportURL(source string) (string, error) {
	u, err := url.Parse(source)
	if err != nil {
		return "", err
	}

	if !isTrelloHost(u.Host) {
		return u.String(), nil
	}

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) >= 2 && parts[0] == "b" && !strings.HasSuffix(parts[1], ".json") {
		u.Path = "/b/" + parts[1] + ".json"
	}

	q := u.Query()
	if f.APIKey != "" {
		q.Set("key", f.APIKey)
	}
	if f.APIToken != "" {
		q.Set("token", f.APIToken)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func isTrelloHost(host string) bool {
	host = strings.ToLower(host)
	return host == "trello.com" || strings.HasSuffix(host, ".trello.com")
}

// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-15
// Last Modified: 2026-10-15

package trello

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestFetch_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.json")
	if err := os.WriteFile(path, []byte(`{"name":"b"}`), 0644); err != nil {
		t.Fatalf("failed to write board: %v", err)
	}

	data, err := NewFetcher("", "").Fetch(context.Background(), path)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if string(data) != `{"name":"b"}` {
		t.Errorf("Unexpected data: %s", data)
	}
}

func TestFetch_MissingFile(t *testing.T) {
	_, err := NewFetcher("", "").Fetch(context.Background(), filepath.Join(t.TempDir(), "nope.json"))
	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("Expected TransportError, got %v", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected the underlying not-exist error, got %v", err)
	}
}

func TestFetch_URL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if r.URL.Query().Get("key") != "" {
			t.Error("Expected credentials to stay off non-Trello hosts")
		}
		fmt.Fprint(w, `{"name":"remote"}`)
	}))
	defer srv.Close()

	f := NewFetcher("k", "t")

	data, err := f.Fetch(context.Background(), srv.URL+"/board.json")
	if err != nil || string(data) != `{"name":"remote"}` {
		t.Fatalf("Fetch = (%s, %v)", data, err)
	}

	_, err = f.Fetch(context.Background(), srv.URL+"/missing")
	var te *TransportError
	if !errors.As(err, &te) || te.StatusCode != http.StatusNotFound {
		t.Errorf("Expected a 404 TransportError, got %v", err)
	}
}

func TestExportURL(t *testing.T) {
	f := NewFetcher("k", "t")

	tests := []struct {
		name   string
		source string
		want   string
	}{
		{"board page", "https://trello.com/b/abc123/my-board", "https://trello.com/b/abc123.json?key=k&token=t"},
		{"already json", "https://trello.com/b/abc123.json", "https://trello.com/b/abc123.json?key=k&token=t"},
		{"api host", "https://api.trello.com/1/boards/abc", "https://api.trello.com/1/boards/abc?key=k&token=t"},
		{"other host", "https://example.com/b/abc", "https://example.com/b/abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.exportURL(tt.source)
			if err != nil {
				t.Fatalf("exportURL failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("exportURL(%q) = %q, want %q", tt.source, got, tt.want)
			}
		})
	}
}

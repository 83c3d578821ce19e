package feed

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/matheuskafuri/spacegallery/internal/cache"
	"github.com/matheuskafuri/spacegallery/internal/config"
)

func serve(t *testing.T, status int, contentType, body string) (*httptest.Server, *http.Header) {
	t.Helper()
	var seen http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Header.Clone()
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &seen
}

func TestJSONFetcherDecodesArray(t *testing.T) {
	body := `[
		{"date":"2020-01-01","media_type":"image","url":"https://a/1.jpg","title":"One","explanation":"E1","copyright":"Someone"},
		{"date":"2020-01-02","media_type":"video","url":"https://youtube.com/embed/x","thumbnail_url":"https://img/x.jpg","title":"Two"},
		42
	]`
	srv, seen := serve(t, http.StatusOK, "application/json", body)

	entries, err := NewJSONFetcher(srv.URL, srv.Client()).Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries (non-object skipped), got %d", len(entries))
	}
	if entries[0].Copyright != "Someone" || entries[1].ThumbnailURL != "https://img/x.jpg" {
		t.Errorf("fields not decoded: %+v", entries)
	}
	if got := seen.Get("Cache-Control"); !strings.Contains(got, "no-store") {
		t.Errorf("expected cache-busting header, got %q", got)
	}
	if seen.Get("Pragma") != "no-cache" {
		t.Errorf("expected Pragma no-cache, got %q", seen.Get("Pragma"))
	}
}

func TestJSONFetcherRejectsObject(t *testing.T) {
	srv, _ := serve(t, http.StatusOK, "application/json", `{}`)

	_, err := NewJSONFetcher(srv.URL, srv.Client()).Fetch(context.Background())
	var fse *cache.FeedShapeError
	if !errors.As(err, &fse) {
		t.Fatalf("expected FeedShapeError, got %v", err)
	}
	if fse.Got != "object" {
		t.Errorf("expected Got=object, got %q", fse.Got)
	}
}

func TestJSONFetcherRejectsMalformedArray(t *testing.T) {
	srv, _ := serve(t, http.StatusOK, "application/json", `[{"date": "2020-01-01"`)

	_, err := NewJSONFetcher(srv.URL, srv.Client()).Fetch(context.Background())
	var fse *cache.FeedShapeError
	if !errors.As(err, &fse) {
		t.Fatalf("expected FeedShapeError, got %v", err)
	}
}

func TestJSONFetcherNon2xx(t *testing.T) {
	srv, _ := serve(t, http.StatusServiceUnavailable, "text/plain", "down")

	_, err := NewJSONFetcher(srv.URL, srv.Client()).Fetch(context.Background())
	var fe *cache.FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("expected FetchError, got %v", err)
	}
	if fe.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("expected status 503, got %d", fe.StatusCode)
	}
}

func TestJSONFetcherNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewJSONFetcher(url, &http.Client{Timeout: time.Second}).Fetch(context.Background())
	var fe *cache.FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("expected FetchError, got %v", err)
	}
	if fe.StatusCode != 0 {
		t.Errorf("expected no status for network error, got %d", fe.StatusCode)
	}
}

func TestJSONKind(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`{}`, "object"},
		{`"x"`, "string"},
		{`true`, "boolean"},
		{`null`, "null"},
		{`-1`, "number"},
		{`<html>`, "non-JSON body"},
		{``, "empty body"},
	}
	for _, tt := range tests {
		if got := jsonKind([]byte(tt.input)); got != tt.want {
			t.Errorf("jsonKind(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestNewPicksFetcherByType(t *testing.T) {
	if _, ok := mustNew(t, config.Source{Type: "json", URL: "https://a"}).(*JSONFetcher); !ok {
		t.Error("expected JSONFetcher for json")
	}
	if _, ok := mustNew(t, config.Source{Type: "rss", URL: "https://a"}).(*RSSFetcher); !ok {
		t.Error("expected RSSFetcher for rss")
	}
	if _, err := New(config.Source{Type: "atom"}, time.Second); err == nil {
		t.Error("expected error for unknown type")
	}
}

func mustNew(t *testing.T, src config.Source) cache.Fetcher {
	t.Helper()
	f, err := New(src, time.Second)
	if err != nil {
		t.Fatalf("New(%+v): %v", src, err)
	}
	return f
}

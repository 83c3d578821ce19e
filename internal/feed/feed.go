// Package feed retrieves the astronomy catalog from upstream.
//
// The primary source is a single JSON array served over HTTP. An RSS mirror
// is also supported for when the JSON feed is unavailable.
package feed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/matheuskafuri/spacegallery/internal/cache"
	"github.com/matheuskafuri/spacegallery/internal/config"
)

const userAgent = "spacegallery/1.0 (+https://github.com/matheuskafuri/spacegallery)"

// JSONFetcher fetches a JSON array of entries.
type JSONFetcher struct {
	url    string
	client *http.Client
}

func NewJSONFetcher(url string, client *http.Client) *JSONFetcher {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &JSONFetcher{url: url, client: client}
}

func (f *JSONFetcher) Fetch(ctx context.Context) ([]cache.Entry, error) {
	body, err := get(ctx, f.client, f.url, "application/json")
	if err != nil {
		return nil, err
	}
	return decodeEntries(f.url, body)
}

// decodeEntries requires the body to be a JSON array. Elements that are not
// objects are skipped rather than failing the whole feed.
func decodeEntries(url string, body []byte) ([]cache.Entry, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, &cache.FeedShapeError{URL: url, Got: jsonKind(trimmed)}
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, &cache.FeedShapeError{URL: url, Err: err}
	}

	entries := make([]cache.Entry, 0, len(raw))
	for _, r := range raw {
		var e cache.Entry
		if err := json.Unmarshal(r, &e); err != nil {
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func jsonKind(b []byte) string {
	if len(b) == 0 {
		return "empty body"
	}
	switch b[0] {
	case '{':
		return "object"
	case '"':
		return "string"
	case 't', 'f':
		return "boolean"
	case 'n':
		return "null"
	default:
		if b[0] == '-' || (b[0] >= '0' && b[0] <= '9') {
			return "number"
		}
		return "non-JSON body"
	}
}

// get performs a cache-busting GET and returns the body of a 2xx response.
func get(ctx context.Context, client *http.Client, url, accept string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &cache.FetchError{URL: url, Err: err}
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", accept)
	req.Header.Set("Cache-Control", "no-cache, no-store")
	req.Header.Set("Pragma", "no-cache")

	resp, err := client.Do(req)
	if err != nil {
		return nil, &cache.FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &cache.FetchError{URL: url, StatusCode: resp.StatusCode, Err: fmt.Errorf("%s", resp.Status)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &cache.FetchError{URL: url, Err: fmt.Errorf("reading body: %w", err)}
	}
	return body, nil
}

// New builds the fetcher for a configured source.
func New(src config.Source, timeout time.Duration) (cache.Fetcher, error) {
	client := &http.Client{Timeout: timeout}
	switch src.Type {
	case "json", "":
		return NewJSONFetcher(src.URL, client), nil
	case "rss":
		return NewRSSFetcher(src.URL, client), nil
	default:
		return nil, fmt.Errorf("unknown source type %q", src.Type)
	}
}

package lazyload

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"time"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// maxHeaderBytes bounds how much of a response is read to find the image
// dimensions.
const maxHeaderBytes = 1 << 20

// MediaFetcher retrieves the media behind a placeholder's source.
type MediaFetcher interface {
	Fetch(ctx context.Context, url string) (MediaInfo, error)
}

// HTTPMediaFetcher downloads the start of an image and reads its header.
type HTTPMediaFetcher struct {
	client *http.Client
}

func NewHTTPMediaFetcher(timeout time.Duration) *HTTPMediaFetcher {
	return &HTTPMediaFetcher{client: &http.Client{Timeout: timeout}}
}

func (f *HTTPMediaFetcher) Fetch(ctx context.Context, url string) (MediaInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return MediaInfo{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", "spacegallery/1.0")

	resp, err := f.client.Do(req)
	if err != nil {
		return MediaInfo{}, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return MediaInfo{}, fmt.Errorf("fetching %s: unexpected status %d", url, resp.StatusCode)
	}

	cfg, format, err := image.DecodeConfig(io.LimitReader(resp.Body, maxHeaderBytes))
	if err != nil {
		return MediaInfo{}, fmt.Errorf("decoding %s: %w", url, err)
	}
	return MediaInfo{
		Format: format,
		Width:  cfg.Width,
		Height: cfg.Height,
		Bytes:  resp.ContentLength,
	}, nil
}

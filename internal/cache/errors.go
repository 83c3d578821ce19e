package cache

import "fmt"

// FetchError reports a network failure or a non-2xx response from the feed.
type FetchError struct {
	URL        string
	StatusCode int // 0 when the request never got a response
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetching %s: unexpected status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetching %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// FeedShapeError reports a feed body that is not a sequence of entries.
type FeedShapeError struct {
	URL string
	Got string // JSON kind actually received, e.g. "object"
	Err error
}

func (e *FeedShapeError) Error() string {
	if e.Got != "" {
		return fmt.Sprintf("feed %s did not return an array (got %s)", e.URL, e.Got)
	}
	return fmt.Sprintf("feed %s did not return an array: %v", e.URL, e.Err)
}

func (e *FeedShapeError) Unwrap() error { return e.Err }

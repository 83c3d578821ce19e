package cmd

import (
	"context"

	"github.com/matheuskafuri/spacegallery/internal/cache"
)

type stubFetcher []cache.Entry

func (f stubFetcher) Fetch(context.Context) ([]cache.Entry, error) {
	return f, nil
}

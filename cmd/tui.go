package cmd

import (
	"context"
	"fmt"

	"github.com/matheuskafuri/spacegallery/internal/cache"
	"github.com/matheuskafuri/spacegallery/internal/config"
	"github.com/matheuskafuri/spacegallery/internal/feed"
	"github.com/matheuskafuri/spacegallery/internal/lazyload"
	"github.com/matheuskafuri/spacegallery/internal/logging"
	"github.com/matheuskafuri/spacegallery/internal/tui"
	"github.com/spf13/cobra"
)

// loadFeed loads config, applies --feed and builds the catalog fetcher.
func loadFeed() (*config.Config, cache.Fetcher, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}
	if flagFeed != "" {
		if err := cfg.OverrideFeed(flagFeed); err != nil {
			return nil, nil, fmt.Errorf("invalid --feed value: %w", err)
		}
	}

	f, err := feed.New(cfg.Feed(), cfg.FetchTimeoutDuration())
	if err != nil {
		return nil, nil, fmt.Errorf("building feed: %w", err)
	}
	return cfg, f, nil
}

func setup() (*config.Config, *cache.Cache, error) {
	cfg, f, err := loadFeed()
	if err != nil {
		return nil, nil, err
	}
	return cfg, cache.New(f), nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, c, err := setup()
	if err != nil {
		return err
	}

	if err := logging.Init(cfg.LogLevel); err != nil {
		return fmt.Errorf("starting log: %w", err)
	}
	defer logging.Close()
	logging.Info("starting", "version", version, "feed", cfg.Feed().URL)

	// Search is optional; the gallery works without it.
	ix, err := cache.OpenIndex()
	if err != nil {
		logging.Warn("search index unavailable", "err", err)
	} else {
		defer ix.Close()
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	return tui.Run(tui.RunOpts{
		Ctx:   ctx,
		Cfg:   cfg,
		Cache: c,
		Index: ix,
		Media: lazyload.NewHTTPMediaFetcher(cfg.MediaTimeoutDuration()),
		Start: flagStart,
		End:   flagEnd,
	})
}

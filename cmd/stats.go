package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/matheuskafuri/spacegallery/internal/cache"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show catalog statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, c, err := setup()
		if err != nil {
			return err
		}

		ds, err := c.Load(cmd.Context())
		if err != nil {
			return fmt.Errorf("loading catalog: %w", err)
		}

		ix, err := cache.OpenIndex()
		if err != nil {
			return fmt.Errorf("opening index: %w", err)
		}
		defer ix.Close()
		if err := ix.Build(ds); err != nil {
			return fmt.Errorf("indexing catalog: %w", err)
		}
		counts, err := ix.MediaCounts()
		if err != nil {
			return fmt.Errorf("reading stats: %w", err)
		}

		printStats(cmd.OutOrStdout(), cfg.Feed().URL, ds.Stats(), counts)
		return nil
	},
}

// printStats uses the dataset for totals and bounds and the index for the
// per media type breakdown of dated entries.
func printStats(w io.Writer, feedURL string, st cache.Stats, counts map[string]int) {
	fmt.Fprintf(w, "Feed: %s\n", feedURL)
	fmt.Fprintf(w, "Entries: %d", st.Total)
	if st.Undated > 0 {
		fmt.Fprintf(w, " (%d undated)", st.Undated)
	}
	fmt.Fprintln(w)
	if !st.Earliest.IsZero() {
		fmt.Fprintf(w, "Dates: %s to %s\n", st.Earliest.Human(), st.Latest.Human())
	}

	types := make([]string, 0, len(counts))
	for t := range counts {
		types = append(types, t)
	}
	sort.Strings(types)
	for _, t := range types {
		fmt.Fprintf(w, "  %-8s %d\n", t, counts[t])
	}
}

// Exit codes of the check command.
const (
	checkFetchFailed = 1
	checkNotArray    = 2
	checkEmpty       = 3
	checkNoDate      = 4
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the catalog feed is reachable and well formed",
	Long: `Fetch the feed once and verify it is a non-empty array whose first entry
has a date. Exits 1 on fetch failure, 2 when the body is not an array,
3 when it is empty and 4 when the first entry has no date.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, f, err := loadFeed()
		if err != nil {
			return err
		}
		n, err := checkFeed(cmd.Context(), f)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "OK: feed returned %d entries.\n", n)
		return nil
	},
}

// checkFeed inspects the feed as served, before any sorting.
func checkFeed(ctx context.Context, f cache.Fetcher) (int, error) {
	entries, err := f.Fetch(ctx)
	if err != nil {
		var se *cache.FeedShapeError
		if errors.As(err, &se) {
			return 0, &exitError{code: checkNotArray, err: err}
		}
		return 0, &exitError{code: checkFetchFailed, err: err}
	}
	if len(entries) == 0 {
		return 0, &exitError{code: checkEmpty, err: errors.New("feed returned no entries")}
	}
	if entries[0].Date == "" {
		return 0, &exitError{code: checkNoDate, err: errors.New("first entry has no date")}
	}
	return len(entries), nil
}

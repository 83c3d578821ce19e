package cmd

import (
	"fmt"
	"io"

	"github.com/matheuskafuri/spacegallery/internal/cache"
	"github.com/matheuskafuri/spacegallery/internal/gallery"
	"github.com/spf13/cobra"
)

var (
	flagListStart  string
	flagListEnd    string
	flagListSearch string
	flagListPage   int
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print one page of catalog entries",
	Long: `Print a page of the catalog. Without a range or search the whole catalog is
listed newest first; with one, matching entries are listed oldest first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, c, err := setup()
		if err != nil {
			return err
		}

		var opts []gallery.Option
		if flagListSearch != "" {
			ix, err := cache.OpenIndex()
			if err != nil {
				return fmt.Errorf("opening search index: %w", err)
			}
			defer ix.Close()
			opts = append(opts, gallery.WithIndex(ix))
		}

		obs := &pageCollector{}
		s := gallery.NewSession(c, cfg.GetPageSize(), obs, opts...)

		ctx := cmd.Context()
		q := gallery.Query{Start: flagListStart, End: flagListEnd, Search: flagListSearch}
		if q == (gallery.Query{}) {
			err = s.Init(ctx)
		} else {
			_, err = s.Run(ctx, q)
		}
		if gallery.IsFetchFailure(err) {
			return fmt.Errorf("fetching catalog: %w", err)
		}
		if err != nil {
			return err
		}

		for page := 1; page < flagListPage; page++ {
			if s.LoadMore() == 0 {
				break
			}
		}

		printPage(cmd.OutOrStdout(), obs, s)
		return nil
	},
}

func init() {
	listCmd.Flags().StringVar(&flagListStart, "start", "", "range start date (YYYY-MM-DD)")
	listCmd.Flags().StringVar(&flagListEnd, "end", "", "range end date (YYYY-MM-DD)")
	listCmd.Flags().StringVar(&flagListSearch, "search", "", "keyword to match in title or explanation")
	listCmd.Flags().IntVar(&flagListPage, "page", 1, "page number, starting at 1")
}

// pageCollector keeps the most recent batch and the empty/failed signals.
type pageCollector struct {
	gallery.NopObserver
	last  gallery.Batch
	empty *gallery.Range
	more  bool
}

func (p *pageCollector) Rendered(b gallery.Batch) { p.last = b }
func (p *pageCollector) HasMoreChanged(more bool) { p.more = more }
func (p *pageCollector) Empty(r gallery.Range) { p.empty = &r }

func printPage(w io.Writer, p *pageCollector, s *gallery.Session) {
	if p.empty != nil {
		fmt.Fprintf(w, "No entries between %s and %s.\n", p.empty.Start.Human(), p.empty.End.Human())
		return
	}
	if r, ok := s.Range(); ok {
		fmt.Fprintf(w, "Range: %s (%d days)\n", r, r.Days())
	}
	if len(p.last.Entries) == 0 {
		fmt.Fprintln(w, "No entries.")
		return
	}
	for _, e := range p.last.Entries {
		fmt.Fprintf(w, "%-10s  %-5s  %s\n", e.Date, e.MediaType, e.Title)
	}
	shown := p.last.Offset + len(p.last.Entries)
	fmt.Fprintf(w, "Showing %d-%d of %d", p.last.Offset+1, shown, s.Total())
	if p.more {
		fmt.Fprint(w, " (more available)")
	}
	fmt.Fprintln(w)
}

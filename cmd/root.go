package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	flagConfig string
	flagFeed   string
	flagStart  string
	flagEnd    string
)

var rootCmd = &cobra.Command{
	Use:   "spacegallery",
	Short: "Terminal gallery of astronomy pictures",
	Long:  "spacegallery browses the Astronomy Picture of the Day catalog by date range, a page of cards at a time.",
	RunE:  runTUI,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&flagFeed, "feed", "", "override the catalog feed URL (JSON array)")
	rootCmd.Flags().StringVar(&flagStart, "start", "", "range start date (YYYY-MM-DD)")
	rootCmd.Flags().StringVar(&flagEnd, "end", "", "range end date (YYYY-MM-DD)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(checkCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "spacegallery %s (commit: %s, built: %s)\n", version, commit, date)
	},
}

// exitError carries a process exit code out of a command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		var ee *exitError
		if errors.As(err, &ee) {
			os.Exit(ee.code)
		}
		os.Exit(1)
	}
}

func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
}

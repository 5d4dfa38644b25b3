package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"
	"seatmap/config"
	"seatmap/logger"
)

const appName = "seatmap"

var (
	buildVersion = "dev"
	buildCommit  = "none"
)

type globalOptions struct {
	file     string
	apiURL   string
	venueID  string
	logLevel string
}

var (
	opts      globalOptions
	cfg       *config.Config
	log       = logger.Discard()
	logCloser io.Closer
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of seatmap",
	// version needs neither config nor a log file
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s %s", appName, buildVersion)
		if buildCommit != "none" && buildCommit != "" {
			fmt.Fprintf(out, " (%s)", buildCommit)
		}
		fmt.Fprintln(out)
	},
}

var rootCmd = &cobra.Command{
	Use:   appName,
	Short: "Venue seat map viewer and editor",
	Long: `Browse the sectors of a venue, zoom into a sector and drag seats into place,
generate rows of seats and save the result to a venue file or the venue API.

Without a subcommand the interactive editor is opened.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: teardown,
	RunE:              runEdit,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&opts.file, "file", "f", "", "venue JSON file (default $SEATMAP_VENUE_FILE)")
	pf.StringVar(&opts.apiURL, "api", "", "venue API base URL (default $SEATMAP_API_URL)")
	pf.StringVar(&opts.venueID, "venue", "", "venue id on the API")
	pf.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn or error")

	rootCmd.AddCommand(editCmd, renderCmd, generateCmd, sectorsCmd, versionCmd)
}

// Execute runs the command line and returns the first error.
func Execute(version string, commit string) error {
	buildVersion = version
	buildCommit = commit

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func setup(cmd *cobra.Command, args []string) error {
	c, err := config.New()
	if err != nil {
		return err
	}
	if opts.file == "" {
		opts.file = c.VenueFile
	}
	if opts.apiURL == "" {
		opts.apiURL = c.API.URL
	}
	if opts.logLevel != "" {
		c.Log.Level = opts.logLevel
	}
	cfg = c

	var w io.Writer = io.Discard
	f, err := openLogFile(c.Log.File)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: logging disabled: %v\n", err)
	} else {
		w = f
		logCloser = f
	}
	log = logger.New(w, c.Log.Level, c.Log.Format)
	slog.SetDefault(log.Logger)
	log.Debug("starting", slog.String("command", cmd.Name()), slog.String("version", buildVersion))
	return nil
}

func teardown(cmd *cobra.Command, args []string) {
	if logCloser != nil {
		_ = logCloser.Close()
		logCloser = nil
	}
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
}

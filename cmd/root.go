package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/xrsl/cvlift/pkg/config"
	clog "github.com/xrsl/cvlift/pkg/log"
	"github.com/xrsl/cvlift/pkg/style"
)

var (
	quiet     bool
	verbose   bool
	noColor   bool
	logFormat string
)

var rootCmd = &cobra.Command{
	Use:   "cvlift",
	Short: "AI resume enhancement for Google Docs",
	Long: `cvlift serves the AI resume enhancement landing page and editor, and runs
the same enhancement workflow from the command line.

Paste a Google Docs link, pick how the resume should be improved, and follow
the progress as the document is accessed, analyzed, improved and updated.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupLogging,
}

// reportedError marks an error the user has already seen as a notification.
type reportedError struct{ error }

func (e reportedError) Unwrap() error { return e.error }

func Execute() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		var reported reportedError
		if !errors.As(err, &reported) {
			fmt.Fprintln(os.Stderr, style.Cross(), err)
		}
		os.Exit(1)
	}
}

func init() {
	// Setup Typer-style help formatting
	style.SetupHelp(rootCmd)

	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-essential output")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format: text or json (default from config)")
}

func setupLogging(cmd *cobra.Command, args []string) error {
	if noColor {
		style.DisableColor()
	}

	level, format := "info", "text"
	if cfg, err := config.Load(); err == nil {
		level, format = cfg.Log.Level, cfg.Log.Format
	}
	if logFormat != "" {
		format = logFormat
	}
	if format != "text" && format != "json" {
		return fmt.Errorf("unknown log format %q (use text or json)", format)
	}
	clog.SetFormat(format)
	if !clog.SetLevel(level) {
		clog.Warn("unknown log level, using info", "level", level)
	}

	switch {
	case verbose:
		clog.SetVerbose(true)
	case quiet:
		clog.SetQuiet(true)
	}
	return nil
}

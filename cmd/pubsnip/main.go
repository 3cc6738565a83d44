// Package main provides the pubsnip CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/matsen/pubsnippet/internal/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Version is set at build time via ldflags
var Version = "dev"

var (
	// humanOutput controls whether to use human-readable output
	humanOutput bool
	verbose     bool
)

// logger traces pipeline stages; it discards everything unless --verbose.
var logger = zap.NewNop()

func main() {
	defer func() { _ = logger.Sync() }()

	if err := rootCmd.Execute(); err != nil {
		// Print the error since we have SilenceErrors: true
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "pubsnip",
	Short: "Turn citation exports into HTML bibliography snippets",
	Long: `pubsnip converts a Scopus-style citation export into an HTML snippet,
numbered and sorted A–Z by first author, ready to paste into a CMS.

Inputs:
  - CSV exports with the columns Authors, Year, Title, Source title,
    Volume, Issue, Page start, Page end, DOI
  - Paperpile JSON exports
  - BibTeX files
  - SQLite tables with the same columns

Settings are read from ~/.config/pubsnip/config.yml, a .pubsnip.yml in the
current directory or its parents, PUBSNIP_* environment variables (a .env file
is loaded if present) and command-line flags, in increasing precedence.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if !verbose {
			return nil
		}
		l, err := zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("creating logger: %w", err)
		}
		logger = l
		return nil
	},
}

func init() {
	// A missing .env file is not an error.
	_ = godotenv.Load()

	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log pipeline steps to stderr")
	rootCmd.Version = Version
}

// mustLoadConfig loads the effective configuration for the working directory,
// exits on error.
func mustLoadConfig() *config.Config {
	cwd, err := os.Getwd()
	if err != nil {
		exitWithError(ExitError, "getting current directory: %v", err)
	}
	cfg, err := config.Load(cwd)
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	logger.Debug("loaded config", zap.String("dir", cwd), zap.Any("config", cfg))
	return cfg
}

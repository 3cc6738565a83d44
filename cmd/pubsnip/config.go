package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/matsen/pubsnippet/internal/config"
	"github.com/spf13/cobra"
)

var configProject bool

func init() {
	configCmd.Flags().BoolVar(&configProject, "project", false, "Write to .pubsnip.yml in the current directory instead of the global config")
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Get or set configuration values",
	Long: `Get or set configuration values.

Usage:
  pubsnip config                        # Show effective config
  pubsnip config max-authors            # Get specific value
  pubsnip config max-authors 6          # Set value in the global config
  pubsnip config --project header-file header.html

Keys:
  max-authors   Authors shown before "et al." (0 for no limit, default 10)
  escape-html   HTML-escape author names, title, venue and DOI (default false)
  font-family   CSS font-family for entry paragraphs
  header-file   Header template file
  footer-file   Footer template file
  output-file   Output file name (default scholarly_publications.html)
  table         SQLite table to read (default publications)`,
	Args: cobra.MaximumNArgs(2),
	RunE: runConfig,
}

func runConfig(cmd *cobra.Command, args []string) error {
	// No args or one arg: read the effective config
	if len(args) < 2 {
		cfg := mustLoadConfig()

		if len(args) == 0 {
			if humanOutput {
				for _, key := range config.Keys {
					v, _ := cfg.Get(key)
					outputHuman("%-12s %s\n", key+":", v)
				}
				return nil
			}
			return outputJSON(cfg)
		}

		value, err := cfg.Get(args[0])
		if err != nil {
			exitWithError(ExitConfigError, "%v", err)
		}
		if humanOutput {
			fmt.Println(value)
			return nil
		}
		return outputJSON(map[string]string{config.NormalizeKey(args[0]): value})
	}

	// Two args: set value in a single file
	path := config.GlobalConfigPath()
	if configProject {
		cwd, err := os.Getwd()
		if err != nil {
			exitWithError(ExitError, "getting current directory: %v", err)
		}
		path = filepath.Join(cwd, config.ProjectFile)
	}
	if path == "" {
		exitWithError(ExitConfigError, "cannot determine config location")
	}

	cfg, err := config.LoadFile(path)
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	key, value := args[0], args[1]
	if err := cfg.Set(key, value); err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	if err := cfg.Save(path); err != nil {
		exitWithError(ExitError, "saving config: %v", err)
	}

	if humanOutput {
		fmt.Printf("Updated %s to %s in %s\n", key, value, path)
		return nil
	}
	return outputJSON(UpdateResponse{
		Status: "updated",
		Key:    config.NormalizeKey(key),
		Value:  value,
		Path:   path,
	})
}

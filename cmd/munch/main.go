// Package main provides the munch CLI entry point.
package main

import (
	"fmt"
	"os"

	"munch/internal/config"
	"munch/internal/logging"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose    bool
	configPath string
	apiURL     string

	// Loaded in PersistentPreRunE
	cfg *config.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "munch [location]",
	Short: "munch - find a restaurant for the occasion",
	Long: `munch is a terminal client for the restaurant recommendation API.

Describe what you need in plain words, narrow it down by cuisine, price and
city, and browse three lanes of results: partner-approved places, places near
you, and recommendations for your query.

Run without arguments to start the interactive screen. An optional location
such as "/?query=sushi&city=Tokyo" opens a shared search directly.`,
	Args: cobra.MaximumNArgs(1),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path := configPath
		if path == "" {
			path = config.DefaultPath()
		}
		loaded, err := config.Load(path)
		if err != nil {
			return err
		}
		if apiURL != "" {
			loaded.API.BaseURL = apiURL
		}
		if verbose {
			loaded.Logging.DebugMode = true
			loaded.Logging.Level = "debug"
		}
		cfg = loaded

		if err := logging.Initialize(cfg.LogsDir(), cfg.Logging.Settings()); err != nil {
			return fmt.Errorf("failed to initialize logging: %w", err)
		}
		logging.Boot("munch %s starting (api=%s)", cmd.Name(), cfg.API.BaseURL)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.CloseAll()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		start := ""
		if len(args) > 0 {
			start = args[0]
		}
		return runInteractive(cmd.Context(), start)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: ~/.munch/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Restaurant API base URL (or set MUNCH_API_URL)")

	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(urlCmd)
	rootCmd.AddCommand(keyCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

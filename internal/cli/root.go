// Package cli defines the cobra command tree for build-your-day.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/evcraddock/build-your-day/internal/config"
	"github.com/evcraddock/build-your-day/internal/dataset"
)

var (
	flagFormat string
	flagConfig string
	flagRoutes string
	flagVenues string
)

// NewRootCmd creates the root cobra command with global flags.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "byd",
		Short:         "Build a day out in Manchester",
		Long:          "Build a five-stop day out in Manchester: brunch, an activity, afternoon drinks, dinner and an evening venue. Swap any stop for a nearby alternative from the web UI, the terminal browser or the command line.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&flagFormat, "format", "text", "output format (text|json)")
	root.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (default: ./byd.yaml if present)")
	root.PersistentFlags().StringVar(&flagRoutes, "routes", "", "route table CSV (overrides config)")
	root.PersistentFlags().StringVar(&flagVenues, "venues", "", "venue table CSV (overrides config)")

	root.AddCommand(
		newServeCmd(),
		newGenerateCmd(),
		newCheckCmd(),
		newBrowseCmd(),
		newVersionCmd(),
	)

	return root
}

// loadConfig reads the config and applies the global flag overrides.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return config.Config{}, err
	}
	if flagRoutes != "" {
		cfg.Data.Routes = flagRoutes
	}
	if flagVenues != "" {
		cfg.Data.Venues = flagVenues
	}
	return cfg, nil
}

// loadTables loads the configured route and venue tables.
func loadTables() (config.Config, *dataset.Tables, error) {
	cfg, err := loadConfig()
	if err != nil {
		return config.Config{}, nil, err
	}
	tables, err := dataset.Load(cfg.Data.Routes, cfg.Data.Venues)
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, tables, nil
}

// isJSON returns true if the --format flag is set to json.
func isJSON() bool {
	return flagFormat == "json"
}

package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/evcraddock/build-your-day/internal/asset"
	"github.com/evcraddock/build-your-day/internal/itinerary"
	"github.com/evcraddock/build-your-day/internal/tui"
)

func newBrowseCmd() *cobra.Command {
	var images string

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse itineraries in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, tables, err := loadTables()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("images") {
				cfg.Data.Images = images
			}

			m := tui.New(tables, asset.NewResolver(cfg.Data.Images), itinerary.GlobalRand{})
			if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
				return fmt.Errorf("running browser: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&images, "images", "images", "directory of venue images")

	return cmd
}

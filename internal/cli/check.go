package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check the route and venue tables",
		Long:  "Report route stops and neighbours that point at missing venues, empty neighbour cells and coordinates that cannot be plotted.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, tables, err := loadTables()
			if err != nil {
				return err
			}

			problems := tables.Check()
			if isJSON() {
				if err := printJSON(cmd.OutOrStdout(), problems); err != nil {
					return err
				}
			} else if err := printProblems(cmd.OutOrStdout(), problems); err != nil {
				return err
			}

			if len(problems) > 0 {
				return fmt.Errorf("%d problems found", len(problems))
			}
			return nil
		},
	}
}

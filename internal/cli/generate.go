package cli

import (
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/spf13/cobra"

	"github.com/evcraddock/build-your-day/internal/client"
	"github.com/evcraddock/build-your-day/internal/itinerary"
	"github.com/evcraddock/build-your-day/internal/mapview"
	"github.com/evcraddock/build-your-day/internal/slot"
)

// generateResult is the JSON form of a generated itinerary.
type generateResult struct {
	RouteIndex int              `json:"route_index"`
	States     slot.States      `json:"states"`
	Stops      []itinerary.Stop `json:"stops"`
	Map        *mapview.View    `json:"map"`
	Skipped    []string         `json:"skipped_markers,omitempty"`
}

func newGenerateCmd() *cobra.Command {
	var (
		route  int
		states string
		seed   uint64
		server string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Print an itinerary",
		Long: `Pick a route and print its five stops with the map center.

By default the route is chosen at random and every slot shows its suggested
venue. Use --states to pick alternates, e.g. --states 3,0,3,3,3 swaps brunch
for its first alternative.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := slot.ParseStates(states)
			if err != nil {
				return fmt.Errorf("invalid --states: %w", err)
			}

			if server != "" {
				if cmd.Flags().Changed("route") || cmd.Flags().Changed("seed") {
					return fmt.Errorf("--route and --seed cannot be used with --server")
				}
				return generateRemote(cmd, server, st)
			}

			_, tables, err := loadTables()
			if err != nil {
				return err
			}

			sel := itinerary.NewSelection()
			sel.States = st
			if route >= 0 {
				sel.RouteIndex, sel.HasRoute = route, true
			} else {
				var rng itinerary.Rand = itinerary.GlobalRand{}
				if cmd.Flags().Changed("seed") {
					rng = rand.New(rand.NewPCG(seed, seed))
				}
				if err := sel.Generate(rng, tables.RouteCount()); err != nil {
					return err
				}
			}

			it, err := itinerary.NewAssembler(tables).Resolve(sel.RouteIndex, sel.States)
			if err != nil {
				return fmt.Errorf("resolving itinerary: %w", err)
			}

			view, errs := mapview.Render(it)
			var skipped []string
			for _, e := range errs {
				slog.Debug("skipping marker", "error", e)
				skipped = append(skipped, e.Error())
			}
			return writeItinerary(cmd, it, sel.States, view, skipped)
		},
	}

	cmd.Flags().IntVar(&route, "route", -1, "route index (-1 picks one at random)")
	cmd.Flags().StringVar(&states, "states", "3,3,3,3,3", "slot states, 0-2 for an alternative and 3 for the suggestion")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "seed for the random route choice")
	cmd.Flags().StringVar(&server, "server", "", "ask a running server instead of reading the tables (e.g. http://localhost:8080)")

	return cmd
}

// generateRemote asks a running server for a route, then walks each slot
// forward from its suggestion to the requested state.
func generateRemote(cmd *cobra.Command, server string, states slot.States) error {
	c, err := client.New(server)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	res, err := c.Generate(ctx)
	if err != nil {
		return fmt.Errorf("generating on %s: %w", server, err)
	}
	for _, s := range slot.All {
		for cur := res.States[s]; cur != states[s]; cur = cur.Advance() {
			if _, err := c.Navigate(ctx, s, client.Next); err != nil {
				return fmt.Errorf("moving %s on %s: %w", s, server, err)
			}
		}
	}
	if res, err = c.Itinerary(ctx); err != nil {
		return fmt.Errorf("reading itinerary from %s: %w", server, err)
	}

	it, view, err := res.Assembled()
	if err != nil {
		return err
	}
	return writeItinerary(cmd, it, res.States, view, nil)
}

func writeItinerary(cmd *cobra.Command, it *itinerary.Itinerary, states slot.States, view *mapview.View, skipped []string) error {
	if isJSON() {
		return printJSON(cmd.OutOrStdout(), generateResult{
			RouteIndex: it.RouteIndex,
			States:     states,
			Stops:      it.Stops[:],
			Map:        view,
			Skipped:    skipped,
		})
	}
	return printItinerary(cmd.OutOrStdout(), it, view, skipped)
}

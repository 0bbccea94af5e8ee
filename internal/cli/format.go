package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/evcraddock/build-your-day/internal/dataset"
	"github.com/evcraddock/build-your-day/internal/itinerary"
	"github.com/evcraddock/build-your-day/internal/mapview"
)

// printJSON marshals v as indented JSON and writes it to w.
func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printItinerary prints the stops as a table followed by the map center.
func printItinerary(out io.Writer, it *itinerary.Itinerary, view *mapview.View, skipped []string) error {
	if _, err := fmt.Fprintf(out, "Route #%d\n\n", it.RouteIndex); err != nil {
		return err
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintln(w, "SLOT\tVENUE\tCHOICE\tADDRESS\tLINK"); err != nil {
		return fmt.Errorf("writing table header: %w", err)
	}
	if _, err := fmt.Fprintln(w, "----\t-----\t------\t-------\t----"); err != nil {
		return fmt.Errorf("writing table separator: %w", err)
	}

	for _, stop := range it.Stops {
		if _, err := fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			stop.Title, truncate(stop.Venue.Name, 32), stop.State.Label(),
			truncate(stop.Venue.Address, 40), mapview.SafeLink(stop.Venue.Link)); err != nil {
			return fmt.Errorf("writing table row: %w", err)
		}
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("flushing table: %w", err)
	}

	if len(view.Plotted()) > 0 {
		if _, err := fmt.Fprintf(out, "\nMap center: %.4f, %.4f (zoom %d)\n", view.Center.Lat, view.Center.Long, view.Zoom); err != nil {
			return err
		}
	}
	for _, s := range skipped {
		if _, err := fmt.Fprintf(out, "Not on map: %s\n", s); err != nil {
			return err
		}
	}
	return nil
}

// printProblems prints dataset problems as a table.
func printProblems(out io.Writer, problems []dataset.Problem) error {
	if len(problems) == 0 {
		_, err := fmt.Fprintln(out, "No problems found.")
		return err
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintln(w, "TABLE\tID\tCOLUMN\tKIND\tDETAIL"); err != nil {
		return fmt.Errorf("writing table header: %w", err)
	}
	if _, err := fmt.Fprintln(w, "-----\t--\t------\t----\t------"); err != nil {
		return fmt.Errorf("writing table separator: %w", err)
	}

	for _, p := range problems {
		if _, err := fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\n",
			p.Table, p.ID, p.Column, p.Kind, truncate(p.Detail, 40)); err != nil {
			return fmt.Errorf("writing table row: %w", err)
		}
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("flushing table: %w", err)
	}

	_, err := fmt.Fprintf(out, "\nTotal: %d problems\n", len(problems))
	return err
}

// truncate shortens a string to maxLen, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

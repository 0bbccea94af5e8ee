package dataset

import (
	"fmt"

	"github.com/evcraddock/build-your-day/internal/slot"
)

// ProblemKind classifies a data consistency problem.
type ProblemKind string

const (
	ProblemStopOutOfRange      ProblemKind = "stop_out_of_range"
	ProblemNeighbourOutOfRange ProblemKind = "neighbour_out_of_range"
	ProblemMissingNeighbour    ProblemKind = "missing_neighbour"
	ProblemBadCoordinates      ProblemKind = "bad_coordinates"
)

// Problem is a single finding from Check. ID is the route index or venue
// id the problem belongs to, not the line in the file.
type Problem struct {
	Kind   ProblemKind `json:"kind"`
	Table  string      `json:"table"`
	ID     int         `json:"id"`
	Column string      `json:"column"`
	Detail string      `json:"detail"`
}

func (p Problem) String() string {
	return fmt.Sprintf("%s %d %s: %s", p.Table, p.ID, p.Column, p.Detail)
}

// Check reports references that do not resolve and coordinates that cannot
// be plotted. Loading does not enforce these so a bad row only breaks the
// itineraries that actually reach it.
func (t *Tables) Check() []Problem {
	var problems []Problem

	for _, r := range t.routes {
		for _, s := range slot.All {
			id := r.Stop(s)
			if _, ok := t.Venue(id); !ok {
				problems = append(problems, Problem{
					Kind:   ProblemStopOutOfRange,
					Table:  "routes",
					ID:     r.Index,
					Column: fmt.Sprintf("stop_%d", int(s)+1),
					Detail: fmt.Sprintf("venue %d does not exist", id),
				})
			}
		}
	}

	for _, v := range t.venues {
		for n, id := range v.Neighbours {
			col := fmt.Sprintf("neighbour_%d", n+1)
			if id == NoNeighbour {
				problems = append(problems, Problem{
					Kind:   ProblemMissingNeighbour,
					Table:  "venues",
					ID:     v.ID,
					Column: col,
					Detail: "empty",
				})
				continue
			}
			if _, ok := t.Venue(id); !ok {
				problems = append(problems, Problem{
					Kind:   ProblemNeighbourOutOfRange,
					Table:  "venues",
					ID:     v.ID,
					Column: col,
					Detail: fmt.Sprintf("venue %d does not exist", id),
				})
			}
		}
		if _, _, err := v.Coordinates(); err != nil {
			problems = append(problems, Problem{
				Kind:   ProblemBadCoordinates,
				Table:  "venues",
				ID:     v.ID,
				Column: "lat_coordinates/long_coordinates",
				Detail: fmt.Sprintf("%q, %q", v.Latitude, v.Longitude),
			})
		}
	}

	return problems
}

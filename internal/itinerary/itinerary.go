// Package itinerary turns a route choice and the per-slot states into the
// five concrete venues of a day out.
package itinerary

import (
	"github.com/evcraddock/build-your-day/internal/dataset"
	"github.com/evcraddock/build-your-day/internal/slot"
)

// Stop is one resolved slot of an itinerary.
type Stop struct {
	Slot  slot.Slot     `json:"-"`
	Key   string        `json:"slot"`
	Title string        `json:"title"`
	State slot.State    `json:"state"`
	Venue dataset.Venue `json:"venue"`
}

// Itinerary is the ordered list of resolved stops for one route.
type Itinerary struct {
	RouteIndex int              `json:"route_index"`
	Stops      [slot.Count]Stop `json:"stops"`
}

// Replace swaps in a freshly resolved stop for its slot.
func (it *Itinerary) Replace(s Stop) {
	it.Stops[s.Slot] = s
}

// Assembler resolves itineraries against a set of tables.
type Assembler struct {
	tables *dataset.Tables
}

// NewAssembler creates an assembler over the given tables.
func NewAssembler(tables *dataset.Tables) *Assembler {
	return &Assembler{tables: tables}
}

// Resolve builds the full itinerary for a route. Any id that falls outside
// its table fails the whole itinerary with a *ResolutionError.
func (a *Assembler) Resolve(routeIdx int, states slot.States) (*Itinerary, error) {
	it := &Itinerary{RouteIndex: routeIdx}
	for _, s := range slot.All {
		stop, err := a.ResolveSlot(routeIdx, s, states[s])
		if err != nil {
			return nil, err
		}
		it.Stops[s] = stop
	}
	return it, nil
}

// ResolveSlot resolves a single slot. State Primary uses the route's own
// venue; 0-2 use that venue's neighbour at the same position.
func (a *Assembler) ResolveSlot(routeIdx int, s slot.Slot, state slot.State) (Stop, error) {
	route, ok := a.tables.Route(routeIdx)
	if !ok {
		return Stop{}, &ResolutionError{Slot: s, RouteIndex: routeIdx, VenueID: -1, Reason: "route does not exist"}
	}

	primaryID := route.Stop(s)
	primary, ok := a.tables.Venue(primaryID)
	if !ok {
		return Stop{}, &ResolutionError{Slot: s, RouteIndex: routeIdx, VenueID: primaryID, Reason: "primary venue does not exist"}
	}

	venue := primary
	if !state.IsPrimary() {
		if !state.Valid() {
			return Stop{}, &ResolutionError{Slot: s, RouteIndex: routeIdx, VenueID: primaryID, Reason: "invalid slot state"}
		}
		id, ok := primary.Neighbour(int(state))
		if !ok {
			return Stop{}, &ResolutionError{Slot: s, RouteIndex: routeIdx, VenueID: primaryID, Reason: "neighbour is empty"}
		}
		venue, ok = a.tables.Venue(id)
		if !ok {
			return Stop{}, &ResolutionError{Slot: s, RouteIndex: routeIdx, VenueID: id, Reason: "neighbour venue does not exist"}
		}
	}

	return Stop{
		Slot:  s,
		Key:   s.String(),
		Title: s.Title(),
		State: state,
		Venue: venue,
	}, nil
}

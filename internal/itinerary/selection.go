package itinerary

import (
	"errors"
	"math/rand/v2"

	"github.com/evcraddock/build-your-day/internal/slot"
)

// ErrNoRoutes is returned when there is nothing to pick a route from.
var ErrNoRoutes = errors.New("route table is empty")

// Rand is the random source used to pick routes. *rand.Rand satisfies it.
type Rand interface {
	IntN(n int) int
}

// GlobalRand draws from the math/rand/v2 top-level source, which is safe for
// concurrent use.
type GlobalRand struct{}

func (GlobalRand) IntN(n int) int { return rand.IntN(n) }

// Selection is one session's choice: the active route plus a state per slot.
// RouteIndex is only meaningful once HasRoute is true.
type Selection struct {
	RouteIndex int         `json:"route_index"`
	HasRoute   bool        `json:"has_route"`
	States     slot.States `json:"states"`
}

// NewSelection returns a selection with no route and every slot on Primary.
func NewSelection() *Selection {
	return &Selection{States: slot.DefaultStates()}
}

// Generate picks a new route uniformly from [0, routeCount). Slot states are
// kept; they only change through Advance and Retreat.
func (s *Selection) Generate(rng Rand, routeCount int) error {
	if routeCount <= 0 {
		return ErrNoRoutes
	}
	s.RouteIndex = rng.IntN(routeCount)
	s.HasRoute = true
	return nil
}

// Advance moves one slot to its next alternate.
func (s *Selection) Advance(sl slot.Slot) slot.State {
	return s.States.Advance(sl)
}

// Retreat moves one slot to its previous alternate.
func (s *Selection) Retreat(sl slot.Slot) slot.State {
	return s.States.Retreat(sl)
}

package itinerary

import (
	"fmt"

	"github.com/evcraddock/build-your-day/internal/slot"
)

// ResolutionError means a route or venue id pointed outside its table. It
// indicates inconsistent data rather than a user mistake.
type ResolutionError struct {
	Slot       slot.Slot
	RouteIndex int
	VenueID    int
	Reason     string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("resolving %s for route %d: %s (venue %d)", e.Slot, e.RouteIndex, e.Reason, e.VenueID)
}

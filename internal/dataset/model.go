// Package dataset loads the venue and route tables the itineraries are built
// from. Both tables are immutable once loaded and shared by every session.
package dataset

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/evcraddock/build-your-day/internal/slot"
)

// NoNeighbour marks an empty neighbour cell.
const NoNeighbour = -1

// Venue is one row of the venue table. Its ID is the row index. Coordinates
// are kept as stored; the map renderer parses them.
type Venue struct {
	ID          int                  `json:"id"`
	Name        string               `json:"name" validate:"required"`
	Address     string               `json:"address"`
	Link        string               `json:"link"`
	ImageSource string               `json:"img_source"`
	Longitude   string               `json:"long_coordinates"`
	Latitude    string               `json:"lat_coordinates"`
	Neighbours  [slot.Alternates]int `json:"neighbours" validate:"dive,gte=-1"`
}

// Neighbour returns the venue id of the nth alternate, if present.
func (v Venue) Neighbour(n int) (int, bool) {
	if n < 0 || n >= len(v.Neighbours) {
		return 0, false
	}
	id := v.Neighbours[n]
	if id == NoNeighbour {
		return 0, false
	}
	return id, true
}

// Coordinates parses the stored latitude and longitude. Values that are not
// finite or fall outside the valid degree ranges are rejected.
func (v Venue) Coordinates() (lat, long float64, err error) {
	lat, err = parseDegrees(v.Latitude, 90)
	if err != nil {
		return 0, 0, fmt.Errorf("latitude: %w", err)
	}
	long, err = parseDegrees(v.Longitude, 180)
	if err != nil {
		return 0, 0, fmt.Errorf("longitude: %w", err)
	}
	return lat, long, nil
}

func parseDegrees(s string, limit float64) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%q is not a finite number", s)
	}
	if f < -limit || f > limit {
		return 0, fmt.Errorf("%v is outside ±%v", f, limit)
	}
	return f, nil
}

// RouteTemplate is one precomputed day plan: a primary venue id per slot.
type RouteTemplate struct {
	Index int             `json:"index"`
	Stops [slot.Count]int `json:"stops" validate:"dive,gte=0"`
}

// Stop returns the primary venue id for a slot.
func (r RouteTemplate) Stop(s slot.Slot) int {
	return r.Stops[s]
}

// Tables holds the loaded route and venue tables.
type Tables struct {
	routes []RouteTemplate
	venues []Venue
}

// NewTables builds tables from already-parsed rows. IDs and indexes are
// reassigned from slice position.
func NewTables(routes []RouteTemplate, venues []Venue) *Tables {
	t := &Tables{
		routes: make([]RouteTemplate, len(routes)),
		venues: make([]Venue, len(venues)),
	}
	for i, r := range routes {
		r.Index = i
		t.routes[i] = r
	}
	for i, v := range venues {
		v.ID = i
		t.venues[i] = v
	}
	return t
}

// Venue returns the venue with the given id.
func (t *Tables) Venue(id int) (Venue, bool) {
	if id < 0 || id >= len(t.venues) {
		return Venue{}, false
	}
	return t.venues[id], true
}

// Route returns the route template at the given index.
func (t *Tables) Route(idx int) (RouteTemplate, bool) {
	if idx < 0 || idx >= len(t.routes) {
		return RouteTemplate{}, false
	}
	return t.routes[idx], true
}

// RouteCount returns the number of route templates.
func (t *Tables) RouteCount() int {
	return len(t.routes)
}

// VenueCount returns the number of venues.
func (t *Tables) VenueCount() int {
	return len(t.venues)
}

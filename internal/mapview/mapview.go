// Package mapview projects a resolved itinerary onto map markers.
package mapview

import (
	"encoding/json"
	"fmt"
	"html/template"
	"strings"

	"github.com/evcraddock/build-your-day/internal/itinerary"
	"github.com/evcraddock/build-your-day/internal/slot"
)

// DefaultZoom is the initial zoom level of the itinerary map.
const DefaultZoom = 11

// RenderError reports a stop whose coordinates cannot be plotted. Only that
// marker is dropped.
type RenderError struct {
	Slot  slot.Slot
	Venue string
	Err   error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("plotting %s (%s): %v", e.Slot, e.Venue, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

// LatLng is a map position.
type LatLng struct {
	Lat  float64 `json:"lat"`
	Long float64 `json:"long"`
}

// Marker is one pinned venue.
type Marker struct {
	Slot     slot.Slot     `json:"-"`
	Key      string        `json:"slot"`
	Title    string        `json:"title"`
	Name     string        `json:"name"`
	Position LatLng        `json:"position"`
	Popup    template.HTML `json:"popup"`
}

// View is the map for one itinerary. Markers is indexed by slot; a nil entry
// means that stop could not be plotted.
type View struct {
	Center  LatLng              `json:"center"`
	Zoom    int                 `json:"zoom"`
	Markers [slot.Count]*Marker `json:"-"`
}

var popupTmpl = template.Must(template.New("popup").Parse(
	`<b>{{.Title}}</b><br><b>{{.Name}}</b><br><a href="{{.Link}}" target="_blank" rel="noopener">Link to website</a><br><b>Address:</b> {{.Address}}`,
))

// Render builds a marker per stop. Stops with non-numeric coordinates are
// left out and reported as *RenderError; the rest of the map still renders.
func Render(it *itinerary.Itinerary) (*View, []error) {
	v := &View{Zoom: DefaultZoom}
	var errs []error
	for _, stop := range it.Stops {
		m, err := NewMarker(stop)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		v.Markers[stop.Slot] = m
	}
	v.recenter()
	return v, errs
}

// Update rebuilds the marker for a single stop. Other markers are untouched.
func (v *View) Update(stop itinerary.Stop) error {
	m, err := NewMarker(stop)
	v.Markers[stop.Slot] = m
	v.recenter()
	return err
}

// Plotted returns the markers that rendered, in slot order.
func (v *View) Plotted() []*Marker {
	out := make([]*Marker, 0, slot.Count)
	for _, m := range v.Markers {
		if m != nil {
			out = append(out, m)
		}
	}
	return out
}

// MarshalJSON writes the plotted markers as a list.
func (v *View) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Center  LatLng    `json:"center"`
		Zoom    int       `json:"zoom"`
		Markers []*Marker `json:"markers"`
	}{v.Center, v.Zoom, v.Plotted()})
}

// recenter sets the center to the mean position of the plotted markers.
func (v *View) recenter() {
	var lat, long float64
	n := 0
	for _, m := range v.Markers {
		if m == nil {
			continue
		}
		lat += m.Position.Lat
		long += m.Position.Long
		n++
	}
	if n == 0 {
		v.Center = LatLng{}
		return
	}
	v.Center = LatLng{Lat: lat / float64(n), Long: long / float64(n)}
}

// NewMarker builds the marker for one stop, or a *RenderError if its
// coordinates are not numeric.
func NewMarker(stop itinerary.Stop) (*Marker, error) {
	lat, long, err := stop.Venue.Coordinates()
	if err != nil {
		return nil, &RenderError{Slot: stop.Slot, Venue: stop.Venue.Name, Err: err}
	}

	var b strings.Builder
	err = popupTmpl.Execute(&b, struct {
		Title, Name, Address string
		Link                 template.URL
	}{
		Title:   stop.Title,
		Name:    stop.Venue.Name,
		Address: stop.Venue.Address,
		Link:    SafeLink(stop.Venue.Link),
	})
	if err != nil {
		return nil, &RenderError{Slot: stop.Slot, Venue: stop.Venue.Name, Err: err}
	}

	return &Marker{
		Slot:     stop.Slot,
		Key:      stop.Slot.String(),
		Title:    stop.Title,
		Name:     stop.Venue.Name,
		Position: LatLng{Lat: lat, Long: long},
		Popup:    template.HTML(b.String()),
	}, nil
}

// SafeLink adds a scheme to bare host links and drops anything that is not
// http(s).
func SafeLink(link string) template.URL {
	l := strings.TrimSpace(link)
	lower := strings.ToLower(l)
	switch {
	case l == "":
		return ""
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
	case strings.Contains(lower, ":"):
		return ""
	default:
		l = "https://" + l
	}
	return template.URL(l)
}

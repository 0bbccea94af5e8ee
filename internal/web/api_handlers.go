package web

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/evcraddock/build-your-day/internal/asset"
	"github.com/evcraddock/build-your-day/internal/itinerary"
	"github.com/evcraddock/build-your-day/internal/mapview"
	"github.com/evcraddock/build-your-day/internal/slot"
)

// apiError writes a JSON error response.
func apiError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	resp := map[string]string{"error": msg}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		http.Error(w, `{"error":"encode failed"}`, http.StatusInternalServerError)
	}
}

// apiJSON writes a JSON response with the given status code.
func apiJSON(w http.ResponseWriter, data interface{}, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, `{"error":"encode failed"}`, http.StatusInternalServerError)
	}
}

type apiStop struct {
	itinerary.Stop
	Label  string     `json:"label"`
	Link   string     `json:"link"`
	Images []apiImage `json:"images"`
}

type apiImage struct {
	asset.Image
	URL string `json:"url"`
}

type itineraryResponse struct {
	RouteIndex *int          `json:"route_index"`
	States     slot.States   `json:"states"`
	Stops      []apiStop     `json:"stops"`
	Map        *mapview.View `json:"map,omitempty"`
}

type slotResponse struct {
	Slot   string          `json:"slot"`
	State  slot.State      `json:"state"`
	Stop   *apiStop        `json:"stop,omitempty"`
	Marker *mapview.Marker `json:"marker,omitempty"`
}

func (s *Server) apiStopFor(r *http.Request, stop itinerary.Stop) apiStop {
	images := s.imagesFor(r, stop)
	out := apiStop{
		Stop:   stop,
		Label:  stop.State.Label(),
		Link:   string(mapview.SafeLink(stop.Venue.Link)),
		Images: make([]apiImage, len(images)),
	}
	for i, img := range images {
		out.Images[i] = apiImage{Image: img, URL: tmplImageURL(img.File)}
	}
	return out
}

// itineraryPayload builds the full response for a selection.
func (s *Server) itineraryPayload(r *http.Request, sel *itinerary.Selection) (*itineraryResponse, error) {
	resp := &itineraryResponse{States: sel.States, Stops: []apiStop{}}
	if !sel.HasRoute {
		return resp, nil
	}

	a, err := s.assemble(r, sel)
	if err != nil {
		return nil, err
	}
	idx := sel.RouteIndex
	resp.RouteIndex = &idx
	resp.Map = a.Map
	for _, stop := range a.Itinerary.Stops {
		resp.Stops = append(resp.Stops, s.apiStopFor(r, stop))
	}
	return resp, nil
}

// apiGetItinerary returns the session's current itinerary.
func (s *Server) apiGetItinerary(w http.ResponseWriter, r *http.Request) {
	_, sel, err := s.sessions.LoadOrCreate(w, r)
	if err != nil {
		s.fail(r, "load session", err)
		apiError(w, failureMessage, http.StatusInternalServerError)
		return
	}

	resp, err := s.itineraryPayload(r, sel)
	if err != nil {
		s.fail(r, "render", err)
		apiError(w, failureMessage, http.StatusInternalServerError)
		return
	}
	apiJSON(w, resp, http.StatusOK)
}

// apiGenerate picks a new route and returns the resulting itinerary.
func (s *Server) apiGenerate(w http.ResponseWriter, r *http.Request) {
	sel, err := s.generate(w, r)
	if err != nil {
		s.fail(r, "generate", err)
		apiError(w, failureMessage, http.StatusInternalServerError)
		return
	}

	resp, err := s.itineraryPayload(r, sel)
	if err != nil {
		s.fail(r, "render", err)
		apiError(w, failureMessage, http.StatusInternalServerError)
		return
	}
	apiJSON(w, resp, http.StatusOK)
}

// apiNavigate moves one slot and returns only that slot's stop and marker.
func (s *Server) apiNavigate(w http.ResponseWriter, r *http.Request) {
	sl, ok := slotFromRequest(r)
	if !ok {
		apiError(w, "unknown slot", http.StatusNotFound)
		return
	}

	sel, state, err := s.navigate(w, r, sl)
	if err != nil {
		s.fail(r, "navigate", err)
		apiError(w, failureMessage, http.StatusInternalServerError)
		return
	}

	resp := slotResponse{Slot: sl.String(), State: state}
	if !sel.HasRoute {
		apiJSON(w, resp, http.StatusOK)
		return
	}

	tables, err := s.data.Tables()
	if err != nil {
		s.fail(r, "navigate", err)
		apiError(w, failureMessage, http.StatusInternalServerError)
		return
	}
	stop, err := itinerary.NewAssembler(tables).ResolveSlot(sel.RouteIndex, sl, state)
	if err != nil {
		s.fail(r, "navigate", err)
		apiError(w, failureMessage, http.StatusInternalServerError)
		return
	}

	out := s.apiStopFor(r, stop)
	resp.Stop = &out
	if m, err := mapview.NewMarker(stop); err == nil {
		resp.Marker = m
	} else {
		slog.WarnContext(r.Context(), "skipping marker", "error", err)
	}
	apiJSON(w, resp, http.StatusOK)
}

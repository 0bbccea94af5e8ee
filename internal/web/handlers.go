package web

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/evcraddock/build-your-day/internal/asset"
	"github.com/evcraddock/build-your-day/internal/itinerary"
	"github.com/evcraddock/build-your-day/internal/mapview"
	"github.com/evcraddock/build-your-day/internal/slot"
)

type card struct {
	Key     string
	Title   string
	Label   string
	Name    string
	Address string
	Link    template.URL
	Images  []asset.Image
}

type indexData struct {
	HasRoute bool
	Error    string
	Cards    []card
	Map      *mapview.View
}

// assembled is one session's itinerary plus its map.
type assembled struct {
	Itinerary *itinerary.Itinerary
	Map       *mapview.View
}

// assemble resolves the session's itinerary. Unplottable markers are logged
// and left off the map.
func (s *Server) assemble(r *http.Request, sel *itinerary.Selection) (*assembled, error) {
	tables, err := s.data.Tables()
	if err != nil {
		return nil, err
	}
	it, err := itinerary.NewAssembler(tables).Resolve(sel.RouteIndex, sel.States)
	if err != nil {
		return nil, err
	}
	view, errs := mapview.Render(it)
	for _, e := range errs {
		slog.WarnContext(r.Context(), "skipping marker", "error", e)
	}
	return &assembled{Itinerary: it, Map: view}, nil
}

// imagesFor returns the venue images that exist on disk.
func (s *Server) imagesFor(r *http.Request, stop itinerary.Stop) []asset.Image {
	images, errs := s.images.Available(s.images.Images(stop.Venue.Name, stop.Venue.ImageSource))
	for _, e := range errs {
		slog.DebugContext(r.Context(), "image not found", "venue", stop.Venue.Name, "error", e)
	}
	return images
}

func (s *Server) cardFor(r *http.Request, stop itinerary.Stop) card {
	return card{
		Key:     stop.Key,
		Title:   stop.Title,
		Label:   stop.State.Label(),
		Name:    stop.Venue.Name,
		Address: stop.Venue.Address,
		Link:    mapview.SafeLink(stop.Venue.Link),
		Images:  s.imagesFor(r, stop),
	}
}

// handleIndex renders the itinerary page.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	_, sel, err := s.sessions.LoadOrCreate(w, r)
	if err != nil {
		s.fail(r, "load session", err)
		s.renderStatus(w, http.StatusInternalServerError, "index.html", indexData{Error: failureMessage})
		return
	}

	if !sel.HasRoute {
		s.render(w, "index.html", indexData{})
		return
	}

	a, err := s.assemble(r, sel)
	if err != nil {
		s.fail(r, "render", err)
		s.renderStatus(w, http.StatusInternalServerError, "index.html", indexData{Error: failureMessage})
		return
	}

	data := indexData{HasRoute: true, Map: a.Map}
	for _, stop := range a.Itinerary.Stops {
		data.Cards = append(data.Cards, s.cardFor(r, stop))
	}
	s.render(w, "index.html", data)
}

// handleGenerate picks a new route for the session.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if _, err := s.generate(w, r); err != nil {
		s.fail(r, "generate", err)
		s.renderStatus(w, http.StatusInternalServerError, "index.html", indexData{Error: failureMessage})
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleNavigate moves one slot to its next or previous alternate.
func (s *Server) handleNavigate(w http.ResponseWriter, r *http.Request) {
	sl, ok := slotFromRequest(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	if _, _, err := s.navigate(w, r, sl); err != nil {
		s.fail(r, "navigate", err)
		s.renderStatus(w, http.StatusInternalServerError, "index.html", indexData{Error: failureMessage})
		return
	}
	http.Redirect(w, r, "/#"+sl.String(), http.StatusSeeOther)
}

// handleImage serves a venue photo from the image directory.
func (s *Server) handleImage(w http.ResponseWriter, r *http.Request) {
	f, err := s.images.Open(mux.Vars(r)["file"])
	if err != nil {
		if asset.IsMissing(err) {
			http.NotFound(w, r)
			return
		}
		slog.ErrorContext(r.Context(), "opening image", "error", err)
		http.Error(w, "Error loading image", http.StatusInternalServerError)
		return
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			slog.Warn("closing image", "error", cerr)
		}
	}()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		http.NotFound(w, r)
		return
	}
	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
}

// handleHealth reports whether the tables loaded and the session store
// answers.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if _, err := s.data.Tables(); err != nil {
		apiJSON(w, map[string]string{"status": "unhealthy", "error": "dataset failed to load"}, http.StatusServiceUnavailable)
		return
	}
	if _, err := s.sessions.Count(); err != nil {
		apiJSON(w, map[string]string{"status": "unhealthy", "error": "session store unavailable"}, http.StatusServiceUnavailable)
		return
	}
	apiJSON(w, map[string]string{"status": "healthy", "service": "build-your-day"}, http.StatusOK)
}

// generate loads or creates the session, picks a route and saves it.
func (s *Server) generate(w http.ResponseWriter, r *http.Request) (*itinerary.Selection, error) {
	id, sel, err := s.sessions.LoadOrCreate(w, r)
	if err != nil {
		return nil, fmt.Errorf("loading session: %w", err)
	}
	tables, err := s.data.Tables()
	if err != nil {
		return nil, err
	}
	if err := sel.Generate(s.rng, tables.RouteCount()); err != nil {
		return nil, err
	}
	if err := s.sessions.Save(w, id, sel); err != nil {
		return nil, fmt.Errorf("saving session: %w", err)
	}
	s.metrics.Generated()
	slog.DebugContext(r.Context(), "generated itinerary", "route", sel.RouteIndex)
	return sel, nil
}

// navigate applies next or prev to one slot and saves the session.
func (s *Server) navigate(w http.ResponseWriter, r *http.Request, sl slot.Slot) (*itinerary.Selection, slot.State, error) {
	id, sel, err := s.sessions.LoadOrCreate(w, r)
	if err != nil {
		return nil, 0, fmt.Errorf("loading session: %w", err)
	}

	direction := mux.Vars(r)["direction"]
	var state slot.State
	switch direction {
	case "next":
		state = sel.Advance(sl)
	case "prev":
		state = sel.Retreat(sl)
	default:
		return nil, 0, errors.New("unknown direction " + direction)
	}

	if err := s.sessions.Save(w, id, sel); err != nil {
		return nil, 0, fmt.Errorf("saving session: %w", err)
	}
	s.metrics.Navigated(sl.String(), direction)
	return sel, state, nil
}

func slotFromRequest(r *http.Request) (slot.Slot, bool) {
	sl, err := slot.ParseSlot(mux.Vars(r)["slot"])
	return sl, err == nil
}

// render executes a full page template.
func (s *Server) render(w http.ResponseWriter, name string, data interface{}) {
	s.renderStatus(w, http.StatusOK, name, data)
}

// renderStatus executes a page template with the given status code.
func (s *Server) renderStatus(w http.ResponseWriter, code int, name string, data interface{}) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		http.Error(w, fmt.Sprintf("Error rendering template: %v", err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.Warn("writing response", "error", err)
	}
}

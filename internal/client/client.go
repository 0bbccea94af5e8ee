// Package client provides an HTTP client for the build-your-day JSON API.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"time"

	"github.com/evcraddock/build-your-day/internal/asset"
	"github.com/evcraddock/build-your-day/internal/dataset"
	"github.com/evcraddock/build-your-day/internal/itinerary"
	"github.com/evcraddock/build-your-day/internal/mapview"
	"github.com/evcraddock/build-your-day/internal/slot"
)

// Client is an HTTP client for one browser-like session. The session cookie
// is kept between calls.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a new API client with its own session.
func New(baseURL string) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("creating cookie jar: %w", err)
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second, Jar: jar},
	}, nil
}

// Image is a venue image as served by the API.
type Image struct {
	asset.Image
	URL string `json:"url"`
}

// Stop is one resolved slot as returned by the API.
type Stop struct {
	Slot   string        `json:"slot"`
	Title  string        `json:"title"`
	State  slot.State    `json:"state"`
	Label  string        `json:"label"`
	Link   string        `json:"link"`
	Venue  dataset.Venue `json:"venue"`
	Images []Image       `json:"images"`
}

// Map is the itinerary map as returned by the API.
type Map struct {
	Center  mapview.LatLng    `json:"center"`
	Zoom    int               `json:"zoom"`
	Markers []*mapview.Marker `json:"markers"`
}

// Itinerary is the response from GET /api/itinerary and POST /api/generate.
// RouteIndex is nil until a route has been generated.
type Itinerary struct {
	RouteIndex *int        `json:"route_index"`
	States     slot.States `json:"states"`
	Stops      []Stop      `json:"stops"`
	Map        *Map        `json:"map"`
}

// SlotResult is the response from POST /api/slots/{slot}/{direction}.
type SlotResult struct {
	Slot   string          `json:"slot"`
	State  slot.State      `json:"state"`
	Stop   *Stop           `json:"stop"`
	Marker *mapview.Marker `json:"marker"`
}

// Direction moves a slot forward or backward through its choices.
type Direction string

const (
	Next Direction = "next"
	Prev Direction = "prev"
)

// Itinerary returns the session's current itinerary.
func (c *Client) Itinerary(ctx context.Context) (*Itinerary, error) {
	var it Itinerary
	if err := c.do(ctx, http.MethodGet, "/api/itinerary", &it); err != nil {
		return nil, err
	}
	return &it, nil
}

// Generate picks a new random route for the session.
func (c *Client) Generate(ctx context.Context) (*Itinerary, error) {
	var it Itinerary
	if err := c.do(ctx, http.MethodPost, "/api/generate", &it); err != nil {
		return nil, err
	}
	return &it, nil
}

// Navigate moves one slot and returns its new stop.
func (c *Client) Navigate(ctx context.Context, s slot.Slot, dir Direction) (*SlotResult, error) {
	var res SlotResult
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/slots/%s/%s", s, dir), &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Assembled converts the response back into an itinerary and map view. It
// fails when no route has been generated.
func (it *Itinerary) Assembled() (*itinerary.Itinerary, *mapview.View, error) {
	if it.RouteIndex == nil {
		return nil, nil, fmt.Errorf("no route generated")
	}
	if len(it.Stops) != slot.Count {
		return nil, nil, fmt.Errorf("expected %d stops, got %d", slot.Count, len(it.Stops))
	}

	out := &itinerary.Itinerary{RouteIndex: *it.RouteIndex}
	for _, st := range it.Stops {
		s, err := slot.ParseSlot(st.Slot)
		if err != nil {
			return nil, nil, err
		}
		out.Stops[s] = itinerary.Stop{Slot: s, Key: st.Slot, Title: st.Title, State: st.State, Venue: st.Venue}
	}

	view := &mapview.View{Zoom: mapview.DefaultZoom}
	if it.Map != nil {
		view.Center, view.Zoom = it.Map.Center, it.Map.Zoom
		for _, m := range it.Map.Markers {
			s, err := slot.ParseSlot(m.Key)
			if err != nil {
				return nil, nil, err
			}
			m.Slot = s
			view.Markers[s] = m
		}
	}
	return out, view, nil
}

// do executes an HTTP request and decodes the JSON response.
func (c *Client) do(ctx context.Context, method, path string, result interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			slog.Warn("closing response body", "error", cerr)
		}
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Error != "" {
			return fmt.Errorf("%s", errResp.Error)
		}
		return fmt.Errorf("server error: %s", http.StatusText(resp.StatusCode))
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}

	return nil
}

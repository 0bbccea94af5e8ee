package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/evcraddock/build-your-day/internal/asset"
	"github.com/evcraddock/build-your-day/internal/dataset"
	"github.com/evcraddock/build-your-day/internal/dataset/datasettest"
	"github.com/evcraddock/build-your-day/internal/db"
	"github.com/evcraddock/build-your-day/internal/mapview"
	"github.com/evcraddock/build-your-day/internal/session"
	"github.com/evcraddock/build-your-day/internal/slot"
	"github.com/evcraddock/build-your-day/internal/web"
)

type fixedRand struct{ n int }

func (f fixedRand) IntN(int) int { return f.n }

func newTestClient(t *testing.T) *Client {
	t.Helper()
	d, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() {
		if cerr := d.Close(); cerr != nil {
			t.Errorf("close db: %v", cerr)
		}
	})

	srv, err := web.NewServer(web.Config{
		Data:     dataset.NewStoreFromTables(datasettest.Sample(t)),
		Sessions: session.NewStore(d, 0),
		Images:   asset.NewResolver(t.TempDir()),
		Rand:     fixedRand{0},
	})
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)

	c, err := New(ts.URL)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c
}

func TestItineraryBeforeGenerate(t *testing.T) {
	c := newTestClient(t)

	it, err := c.Itinerary(context.Background())
	if err != nil {
		t.Fatalf("itinerary: %v", err)
	}
	if it.RouteIndex != nil {
		t.Errorf("route = %d, want none", *it.RouteIndex)
	}
	if _, _, err := it.Assembled(); err == nil {
		t.Error("expected an error without a route")
	}
}

func TestGenerateAndNavigate(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	it, err := c.Generate(ctx)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if it.RouteIndex == nil || *it.RouteIndex != 0 {
		t.Fatalf("route = %v, want 0", it.RouteIndex)
	}

	res, err := c.Navigate(ctx, slot.Brunch, Next)
	if err != nil {
		t.Fatalf("navigate: %v", err)
	}
	if res.State != 0 || res.Stop == nil || res.Stop.Venue.Name != "Pot Kettle Black" {
		t.Errorf("navigate = %+v", res)
	}

	// The cookie jar keeps the session, so the change is visible.
	it, err = c.Itinerary(ctx)
	if err != nil {
		t.Fatalf("itinerary: %v", err)
	}
	local, view, err := it.Assembled()
	if err != nil {
		t.Fatalf("assembled: %v", err)
	}
	if got := local.Stops[slot.Brunch].Venue.Name; got != "Pot Kettle Black" {
		t.Errorf("brunch = %q", got)
	}
	if got := local.Stops[slot.Evening].Slot; got != slot.Evening {
		t.Errorf("evening slot = %v", got)
	}
	if m := view.Markers[slot.Brunch]; m == nil || m.Name != "Pot Kettle Black" {
		t.Errorf("brunch marker = %+v", m)
	}
	if view.Zoom != mapview.DefaultZoom {
		t.Errorf("zoom = %d", view.Zoom)
	}
}

func TestNavigateUnknownSlot(t *testing.T) {
	c := newTestClient(t)

	if _, err := c.Navigate(context.Background(), slot.Slot(9), Next); err == nil {
		t.Error("expected error")
	}
}

func TestServerErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"json error", `{"error":"That didn't go quite as planned! Please try again."}`, "That didn't go quite as planned! Please try again."},
		{"plain body", "boom", "server error: Internal Server Error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				if _, err := w.Write([]byte(tt.body)); err != nil {
					t.Errorf("write: %v", err)
				}
			}))
			defer srv.Close()

			c, err := New(srv.URL)
			if err != nil {
				t.Fatalf("new client: %v", err)
			}
			_, err = c.Generate(context.Background())
			if err == nil {
				t.Fatal("expected error")
			}
			if err.Error() != tt.want {
				t.Errorf("error = %q, want %q", err, tt.want)
			}
		})
	}
}

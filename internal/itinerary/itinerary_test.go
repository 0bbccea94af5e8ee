package itinerary

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/evcraddock/build-your-day/internal/dataset/datasettest"
	"github.com/evcraddock/build-your-day/internal/slot"
)

func TestResolveDefaults(t *testing.T) {
	a := NewAssembler(datasettest.Sample(t))

	it, err := a.Resolve(0, slot.DefaultStates())
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	want := []int{2, 5, 9, 1, 7}
	for i, stop := range it.Stops {
		if stop.Venue.ID != want[i] {
			t.Errorf("stop %d venue = %d, want %d", i, stop.Venue.ID, want[i])
		}
		if stop.Slot != slot.All[i] {
			t.Errorf("stop %d slot = %v", i, stop.Slot)
		}
		if stop.Title != slot.All[i].Title() {
			t.Errorf("stop %d title = %q", i, stop.Title)
		}
	}
}

func TestResolveActivityAlternate(t *testing.T) {
	a := NewAssembler(datasettest.Sample(t))

	it, err := a.Resolve(0, slot.States{3, 0, 3, 3, 3})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	got := make([]int, 0, slot.Count)
	for _, s := range it.Stops {
		got = append(got, s.Venue.ID)
	}
	// Activity state 0 follows venue 5's first neighbour (6); brunch stays 2.
	want := []int{2, 6, 9, 1, 7}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("venues = %v, want %v", got, want)
		}
	}
}

func TestResolveWorkedExample(t *testing.T) {
	a := NewAssembler(datasettest.Sample(t))

	it, err := a.Resolve(0, slot.States{0, 3, 3, 3, 3})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	want := []int{4, 5, 9, 1, 7}
	for i, stop := range it.Stops {
		if stop.Venue.ID != want[i] {
			t.Errorf("stop %d venue = %d, want %d", i, stop.Venue.ID, want[i])
		}
	}
}

func TestResolveAllStateVectors(t *testing.T) {
	tables := datasettest.Sample(t)
	a := NewAssembler(tables)
	route, _ := tables.Route(0)

	// Every slot independently through all four states.
	for _, s := range slot.All {
		for st := slot.State(0); st <= slot.Primary; st++ {
			states := slot.DefaultStates()
			states[s] = st

			it, err := a.Resolve(0, states)
			if err != nil {
				t.Fatalf("resolve %s=%d: %v", s, st, err)
			}

			primary, _ := tables.Venue(route.Stop(s))
			want := primary.ID
			if !st.IsPrimary() {
				want = primary.Neighbours[st]
			}
			if got := it.Stops[s].Venue.ID; got != want {
				t.Errorf("%s state %d: venue %d, want %d", s, st, got, want)
			}
		}
	}
}

func TestResolveErrors(t *testing.T) {
	tests := []struct {
		name     string
		routes   string
		venues   string
		route    int
		states   slot.States
		wantSlot slot.Slot
	}{
		{
			name:     "route out of range",
			routes:   datasettest.RoutesCSV,
			venues:   datasettest.VenuesCSV,
			route:    1,
			states:   slot.DefaultStates(),
			wantSlot: slot.Brunch,
		},
		{
			name:     "primary out of range",
			routes:   "stop_1,stop_2,stop_3,stop_4,stop_5\n2,5,9,1,70\n",
			venues:   datasettest.VenuesCSV,
			states:   slot.DefaultStates(),
			wantSlot: slot.Evening,
		},
		{
			name:     "neighbour out of range",
			routes:   datasettest.RoutesCSV,
			venues:   datasettest.ReplaceVenueRow(9, "9,Albert's Schloss,27 Peter St,x,y,-2.2,53.4,7,80,0"),
			states:   slot.States{3, 3, 1, 3, 3},
			wantSlot: slot.Drinks,
		},
		{
			name:     "empty neighbour",
			routes:   datasettest.RoutesCSV,
			venues:   datasettest.ReplaceVenueRow(1, "1,Mackie Mayor,1 Eagle St,x,y,-2.2,53.4,0,2,"),
			states:   slot.States{3, 3, 3, 2, 3},
			wantSlot: slot.Dinner,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewAssembler(datasettest.Load(t, tt.routes, tt.venues))

			_, err := a.Resolve(tt.route, tt.states)
			var resErr *ResolutionError
			if !errors.As(err, &resErr) {
				t.Fatalf("expected ResolutionError, got %v", err)
			}
			if resErr.Slot != tt.wantSlot {
				t.Errorf("slot = %v, want %v", resErr.Slot, tt.wantSlot)
			}
		})
	}
}

func TestResolveSlotAndReplace(t *testing.T) {
	a := NewAssembler(datasettest.Sample(t))
	sel := NewSelection()

	it, err := a.Resolve(0, sel.States)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	before := it.Stops

	state := sel.Advance(slot.Dinner)
	stop, err := a.ResolveSlot(0, slot.Dinner, state)
	if err != nil {
		t.Fatalf("resolve slot: %v", err)
	}
	it.Replace(stop)

	// Venue 1's first neighbour is 0.
	if it.Stops[slot.Dinner].Venue.ID != 0 {
		t.Errorf("dinner = %d, want 0", it.Stops[slot.Dinner].Venue.ID)
	}
	for _, s := range slot.All {
		if s == slot.Dinner {
			continue
		}
		if it.Stops[s] != before[s] {
			t.Errorf("slot %s changed", s)
		}
	}
}

type fixedRand struct{ n int }

func (f fixedRand) IntN(int) int { return f.n }

func TestSelectionGenerateKeepsStates(t *testing.T) {
	sel := NewSelection()
	sel.Advance(slot.Brunch)

	if err := sel.Generate(fixedRand{n: 4}, 10); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !sel.HasRoute || sel.RouteIndex != 4 {
		t.Errorf("route = %d (has %v), want 4", sel.RouteIndex, sel.HasRoute)
	}
	if sel.States[slot.Brunch] != 0 {
		t.Errorf("brunch state = %d, want 0", sel.States[slot.Brunch])
	}
}

func TestSelectionNavigationKeepsRoute(t *testing.T) {
	sel := NewSelection()
	if err := sel.Generate(fixedRand{n: 2}, 3); err != nil {
		t.Fatalf("generate: %v", err)
	}

	sel.Advance(slot.Evening)
	sel.Retreat(slot.Activity)
	sel.Retreat(slot.Activity)

	if sel.RouteIndex != 2 {
		t.Errorf("route = %d, want 2", sel.RouteIndex)
	}
	if want := (slot.States{3, 1, 3, 3, 0}); sel.States != want {
		t.Errorf("states = %v, want %v", sel.States, want)
	}
}

func TestSelectionGenerateBounds(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for _, n := range []int{1, 2, 7} {
		seen := make(map[int]bool)
		sel := NewSelection()
		for i := 0; i < 500; i++ {
			if err := sel.Generate(rng, n); err != nil {
				t.Fatalf("generate: %v", err)
			}
			if sel.RouteIndex < 0 || sel.RouteIndex >= n {
				t.Fatalf("route %d out of [0, %d)", sel.RouteIndex, n)
			}
			seen[sel.RouteIndex] = true
		}
		if len(seen) != n {
			t.Errorf("n=%d: saw %d distinct routes", n, len(seen))
		}
	}
}

func TestSelectionGenerateEmpty(t *testing.T) {
	sel := NewSelection()
	if err := sel.Generate(fixedRand{}, 0); !errors.Is(err, ErrNoRoutes) {
		t.Errorf("err = %v, want ErrNoRoutes", err)
	}
	if sel.HasRoute {
		t.Error("selection should have no route")
	}
}

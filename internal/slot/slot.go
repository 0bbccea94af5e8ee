// Package slot defines the five itinerary slots and the cyclic state that
// selects between a slot's primary venue and its three alternates.
package slot

import (
	"fmt"
	"strconv"
	"strings"
)

// Slot is one of the five fixed positions in a day itinerary.
type Slot int

const (
	Brunch Slot = iota
	Activity
	Drinks
	Dinner
	Evening
)

// Count is the number of slots in an itinerary.
const Count = 5

// All lists the slots in itinerary order.
var All = [Count]Slot{Brunch, Activity, Drinks, Dinner, Evening}

var (
	names  = [Count]string{"brunch", "activity", "drinks", "dinner", "evening"}
	titles = [Count]string{"1. Brunch", "2. Activity", "3. Afternoon Drinks", "4. Dinner", "5. Evening Out"}
)

// Valid returns true if s is one of the five slots.
func (s Slot) Valid() bool {
	return s >= Brunch && s <= Evening
}

// String returns the lowercase key used in URLs and storage.
func (s Slot) String() string {
	if !s.Valid() {
		return fmt.Sprintf("slot(%d)", int(s))
	}
	return names[s]
}

// Title returns the numbered heading shown for the slot.
func (s Slot) Title() string {
	if !s.Valid() {
		return ""
	}
	return titles[s]
}

// ParseSlot converts a slot key (or its 1-based position) back to a Slot.
func ParseSlot(name string) (Slot, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for i, n := range names {
		if key == n || key == strconv.Itoa(i+1) {
			return Slot(i), nil
		}
	}
	return 0, fmt.Errorf("unknown slot %q", name)
}

// State selects the venue used for a slot. Primary (3) means the route's own
// venue; 0, 1 and 2 pick the primary venue's neighbours in stored order.
type State int

// Primary is the default state of every slot.
const Primary State = 3

// Alternates is the number of neighbour venues a slot can cycle through.
const Alternates = 3

// IsPrimary reports whether the state selects the route's own venue.
func (s State) IsPrimary() bool {
	return s == Primary
}

// Valid returns true if the state is within 0-3.
func (s State) Valid() bool {
	return s >= 0 && s <= Primary
}

// Advance moves to the next alternate, wrapping from Primary to 0.
func (s State) Advance() State {
	if s < Primary {
		return s + 1
	}
	return 0
}

// Retreat moves to the previous alternate, wrapping from 0 to Primary.
func (s State) Retreat() State {
	if s > 0 && s <= Primary {
		return s - 1
	}
	return Primary
}

// Label describes the state for display.
func (s State) Label() string {
	if s.IsPrimary() {
		return "suggested"
	}
	return fmt.Sprintf("alternative %d of %d", int(s)+1, Alternates)
}

// States holds one State per slot.
type States [Count]State

// DefaultStates returns every slot set to Primary.
func DefaultStates() States {
	return States{Primary, Primary, Primary, Primary, Primary}
}

// Advance moves a single slot forward and leaves the others untouched.
func (st *States) Advance(s Slot) State {
	st[s] = st[s].Advance()
	return st[s]
}

// Retreat moves a single slot backward and leaves the others untouched.
func (st *States) Retreat(s Slot) State {
	st[s] = st[s].Retreat()
	return st[s]
}

// ParseStates reads a comma-separated list of five states, e.g. "3,0,3,3,3".
func ParseStates(v string) (States, error) {
	parts := strings.Split(v, ",")
	if len(parts) != Count {
		return States{}, fmt.Errorf("expected %d slot states, got %d", Count, len(parts))
	}
	var st States
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return States{}, fmt.Errorf("slot %d: invalid state %q", i+1, p)
		}
		if !State(n).Valid() {
			return States{}, fmt.Errorf("slot %d: state must be 0-3, got %d", i+1, n)
		}
		st[i] = State(n)
	}
	return st, nil
}

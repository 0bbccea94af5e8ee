package slot

import "testing"

func TestAdvance(t *testing.T) {
	tests := []struct {
		from State
		want State
	}{
		{0, 1},
		{1, 2},
		{2, 3},
		{3, 0},
	}

	for _, tt := range tests {
		if got := tt.from.Advance(); got != tt.want {
			t.Errorf("Advance(%d) = %d, want %d", tt.from, got, tt.want)
		}
	}
}

func TestRetreat(t *testing.T) {
	tests := []struct {
		from State
		want State
	}{
		{0, 3},
		{1, 0},
		{2, 1},
		{3, 2},
	}

	for _, tt := range tests {
		if got := tt.from.Retreat(); got != tt.want {
			t.Errorf("Retreat(%d) = %d, want %d", tt.from, got, tt.want)
		}
	}
}

func TestAdvanceRetreatInverse(t *testing.T) {
	for s := State(0); s <= Primary; s++ {
		if got := s.Retreat().Advance(); got != s {
			t.Errorf("Advance(Retreat(%d)) = %d", s, got)
		}
		if got := s.Advance().Retreat(); got != s {
			t.Errorf("Retreat(Advance(%d)) = %d", s, got)
		}
	}
}

func TestOutOfRangeStatesNormalize(t *testing.T) {
	if got := State(7).Advance(); got != 0 {
		t.Errorf("Advance(7) = %d, want 0", got)
	}
	if got := State(-2).Retreat(); got != Primary {
		t.Errorf("Retreat(-2) = %d, want %d", got, Primary)
	}
}

func TestAdvanceSequenceFromPrimary(t *testing.T) {
	st := DefaultStates()
	want := []State{0, 1, 2, 3}

	for i, w := range want {
		if got := st.Advance(Brunch); got != w {
			t.Fatalf("advance #%d = %d, want %d", i+1, got, w)
		}
	}

	for _, s := range All[1:] {
		if st[s] != Primary {
			t.Errorf("slot %s changed to %d", s, st[s])
		}
	}
}

func TestStatesRetreatTouchesOneSlot(t *testing.T) {
	st := DefaultStates()
	st.Retreat(Dinner)

	want := States{3, 3, 3, 2, 3}
	if st != want {
		t.Errorf("states = %v, want %v", st, want)
	}
}

func TestSlotTitles(t *testing.T) {
	want := []string{"1. Brunch", "2. Activity", "3. Afternoon Drinks", "4. Dinner", "5. Evening Out"}
	for i, s := range All {
		if s.Title() != want[i] {
			t.Errorf("Title(%d) = %q, want %q", i, s.Title(), want[i])
		}
	}
}

func TestParseSlot(t *testing.T) {
	tests := []struct {
		in      string
		want    Slot
		wantErr bool
	}{
		{"brunch", Brunch, false},
		{"Drinks", Drinks, false},
		{" evening ", Evening, false},
		{"4", Dinner, false},
		{"lunch", 0, true},
		{"6", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSlot(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseStates(t *testing.T) {
	st, err := ParseStates("3, 0,3,3,1")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if want := (States{3, 0, 3, 3, 1}); st != want {
		t.Errorf("got %v, want %v", st, want)
	}

	for _, bad := range []string{"3,3,3", "3,3,3,3,4", "a,3,3,3,3", ""} {
		if _, err := ParseStates(bad); err == nil {
			t.Errorf("ParseStates(%q): expected error", bad)
		}
	}
}

func TestStateLabel(t *testing.T) {
	if got := Primary.Label(); got != "suggested" {
		t.Errorf("Primary.Label() = %q", got)
	}
	if got := State(1).Label(); got != "alternative 2 of 3" {
		t.Errorf("State(1).Label() = %q", got)
	}
}

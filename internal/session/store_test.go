package session

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/evcraddock/build-your-day/internal/db"
	"github.com/evcraddock/build-your-day/internal/slot"
)

func TestCreateAndLoad(t *testing.T) {
	store := testStore(t)

	w := httptest.NewRecorder()
	id, sel, err := store.Create(w)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if sel.HasRoute {
		t.Error("new selection should have no route")
	}
	if sel.States != slot.DefaultStates() {
		t.Errorf("states = %v, want all primary", sel.States)
	}

	cookie := sessionCookie(t, w)
	if cookie.Value != id {
		t.Errorf("cookie value = %q, want %q", cookie.Value, id)
	}
	if !cookie.HttpOnly {
		t.Error("expected HttpOnly cookie")
	}

	r := httptest.NewRequest("GET", "/", nil)
	r.AddCookie(cookie)
	gotID, loaded, err := store.Load(r)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if gotID != id {
		t.Errorf("id = %q, want %q", gotID, id)
	}
	if *loaded != *sel {
		t.Errorf("loaded = %+v, want %+v", loaded, sel)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	store := testStore(t)

	id, sel, err := store.Create(httptest.NewRecorder())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	sel.RouteIndex = 12
	sel.HasRoute = true
	sel.Advance(slot.Brunch)
	sel.Retreat(slot.Evening)

	if err := store.Save(nil, id, sel); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := store.Get(id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.HasRoute || got.RouteIndex != 12 {
		t.Errorf("route = %d (has %v), want 12", got.RouteIndex, got.HasRoute)
	}
	if want := (slot.States{0, 3, 3, 3, 2}); got.States != want {
		t.Errorf("states = %v, want %v", got.States, want)
	}
}

func TestSessionsAreIsolated(t *testing.T) {
	store := testStore(t)

	idA, selA, err := store.Create(httptest.NewRecorder())
	if err != nil {
		t.Fatalf("create a: %v", err)
	}
	idB, _, err := store.Create(httptest.NewRecorder())
	if err != nil {
		t.Fatalf("create b: %v", err)
	}
	if idA == idB {
		t.Fatal("expected distinct session ids")
	}

	selA.Advance(slot.Dinner)
	if err := store.Save(nil, idA, selA); err != nil {
		t.Fatalf("save a: %v", err)
	}

	selB, err := store.Get(idB)
	if err != nil {
		t.Fatalf("get b: %v", err)
	}
	if selB.States != slot.DefaultStates() {
		t.Errorf("session b changed: %v", selB.States)
	}
}

func TestLoadNoCookie(t *testing.T) {
	store := testStore(t)

	r := httptest.NewRequest("GET", "/", nil)
	if _, _, err := store.Load(r); !errors.Is(err, ErrNoSession) {
		t.Errorf("err = %v, want ErrNoSession", err)
	}
}

func TestLoadUnknownCookie(t *testing.T) {
	store := testStore(t)

	r := httptest.NewRequest("GET", "/", nil)
	r.AddCookie(&http.Cookie{Name: cookieName, Value: "does-not-exist"})
	if _, _, err := store.Load(r); !errors.Is(err, ErrNoSession) {
		t.Errorf("err = %v, want ErrNoSession", err)
	}
}

func TestLoadOrCreate(t *testing.T) {
	store := testStore(t)

	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/", nil)
	id, _, err := store.LoadOrCreate(w, r)
	if err != nil {
		t.Fatalf("load or create: %v", err)
	}

	r2 := httptest.NewRequest("GET", "/", nil)
	r2.AddCookie(sessionCookie(t, w))
	id2, _, err := store.LoadOrCreate(httptest.NewRecorder(), r2)
	if err != nil {
		t.Fatalf("second load or create: %v", err)
	}
	if id2 != id {
		t.Errorf("id = %q, want existing %q", id2, id)
	}

	n, err := store.Count()
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Errorf("sessions = %d, want 1", n)
	}
}

func TestExpiredSession(t *testing.T) {
	store := testStore(t)
	now := time.Now()
	store.now = func() time.Time { return now }

	id, _, err := store.Create(httptest.NewRecorder())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	store.now = func() time.Time { return now.Add(DefaultTTL + time.Minute) }
	if _, err := store.Get(id); !errors.Is(err, ErrNoSession) {
		t.Errorf("err = %v, want ErrNoSession", err)
	}
}

func TestCleanup(t *testing.T) {
	store := testStore(t)
	now := time.Now()
	store.now = func() time.Time { return now }

	if _, _, err := store.Create(httptest.NewRecorder()); err != nil {
		t.Fatalf("create: %v", err)
	}

	store.now = func() time.Time { return now.Add(2 * DefaultTTL) }
	if _, _, err := store.Create(httptest.NewRecorder()); err != nil {
		t.Fatalf("create: %v", err)
	}

	removed, err := store.Cleanup()
	if err != nil {
		t.Fatalf("cleanup: %v", err)
	}
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}
}

func TestSaveUnknownSession(t *testing.T) {
	store := testStore(t)
	_, sel, err := store.Create(httptest.NewRecorder())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := store.Save(nil, "missing", sel); !errors.Is(err, ErrNoSession) {
		t.Errorf("err = %v, want ErrNoSession", err)
	}
}

func TestDestroy(t *testing.T) {
	store := testStore(t)

	w := httptest.NewRecorder()
	id, _, err := store.Create(w)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	r := httptest.NewRequest("POST", "/", nil)
	r.AddCookie(sessionCookie(t, w))
	if err := store.Destroy(httptest.NewRecorder(), r); err != nil {
		t.Fatalf("destroy: %v", err)
	}
	if _, err := store.Get(id); !errors.Is(err, ErrNoSession) {
		t.Errorf("err = %v, want ErrNoSession", err)
	}
}

func testStore(t *testing.T) *Store {
	t.Helper()
	d, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() {
		if err := d.Close(); err != nil {
			t.Errorf("close db: %v", err)
		}
	})
	return NewStore(d, 0)
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == cookieName {
			return c
		}
	}
	t.Fatalf("expected cookie named %q", cookieName)
	return nil
}

// Package session keeps each visitor's itinerary selection, keyed by cookie.
package session

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/evcraddock/build-your-day/internal/itinerary"
	"github.com/evcraddock/build-your-day/internal/slot"
)

const (
	// DefaultTTL is how long an idle selection is kept.
	DefaultTTL = 24 * time.Hour
	cookieName = "byd_session"
)

// ErrNoSession is returned when the request carries no usable session.
var ErrNoSession = errors.New("no session")

// Store manages selections in SQLite.
type Store struct {
	db  *sql.DB
	ttl time.Duration
	now func() time.Time
}

// NewStore creates a session store. A zero ttl uses DefaultTTL.
func NewStore(db *sql.DB, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{db: db, ttl: ttl, now: time.Now}
}

// Create starts a session with no route and every slot on its primary
// venue, and sets the cookie.
func (s *Store) Create(w http.ResponseWriter) (string, *itinerary.Selection, error) {
	id := uuid.NewString()
	sel := itinerary.NewSelection()
	expiresAt := s.now().Add(s.ttl)

	st := sel.States
	if _, err := s.db.Exec(
		`INSERT INTO selections (id, route_idx, brunch, activity, drinks, dinner, evening, expires_at)
		 VALUES (?, NULL, ?, ?, ?, ?, ?, ?)`,
		id, st[slot.Brunch], st[slot.Activity], st[slot.Drinks], st[slot.Dinner], st[slot.Evening], expiresAt,
	); err != nil {
		return "", nil, fmt.Errorf("storing session: %w", err)
	}

	s.setCookie(w, id, expiresAt)
	return id, sel, nil
}

// Load reads the selection for the request's session cookie.
func (s *Store) Load(r *http.Request) (string, *itinerary.Selection, error) {
	cookie, err := r.Cookie(cookieName)
	if err != nil {
		return "", nil, ErrNoSession
	}
	sel, err := s.Get(cookie.Value)
	if err != nil {
		return "", nil, err
	}
	return cookie.Value, sel, nil
}

// Get reads a selection by session id.
func (s *Store) Get(id string) (*itinerary.Selection, error) {
	var (
		route     sql.NullInt64
		st        [slot.Count]int
		expiresAt time.Time
	)
	err := s.db.QueryRow(
		`SELECT route_idx, brunch, activity, drinks, dinner, evening, expires_at
		 FROM selections WHERE id = ?`, id,
	).Scan(&route, &st[0], &st[1], &st[2], &st[3], &st[4], &expiresAt)
	if err == sql.ErrNoRows {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("querying session: %w", err)
	}

	if s.now().After(expiresAt) {
		if _, delErr := s.db.Exec("DELETE FROM selections WHERE id = ?", id); delErr != nil {
			return nil, fmt.Errorf("deleting expired session: %w", delErr)
		}
		return nil, ErrNoSession
	}

	sel := &itinerary.Selection{}
	if route.Valid {
		sel.RouteIndex = int(route.Int64)
		sel.HasRoute = true
	}
	for i, v := range st {
		sel.States[i] = slot.State(v)
	}
	return sel, nil
}

// LoadOrCreate returns the request's selection, starting a new session when
// there is none.
func (s *Store) LoadOrCreate(w http.ResponseWriter, r *http.Request) (string, *itinerary.Selection, error) {
	id, sel, err := s.Load(r)
	if err == nil {
		return id, sel, nil
	}
	if !errors.Is(err, ErrNoSession) {
		return "", nil, err
	}
	return s.Create(w)
}

// Save writes the selection back and extends the session.
func (s *Store) Save(w http.ResponseWriter, id string, sel *itinerary.Selection) error {
	var route sql.NullInt64
	if sel.HasRoute {
		route = sql.NullInt64{Int64: int64(sel.RouteIndex), Valid: true}
	}
	st := sel.States
	expiresAt := s.now().Add(s.ttl)

	res, err := s.db.Exec(
		`UPDATE selections
		 SET route_idx = ?, brunch = ?, activity = ?, drinks = ?, dinner = ?, evening = ?,
		     expires_at = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		route, st[slot.Brunch], st[slot.Activity], st[slot.Drinks], st[slot.Dinner], st[slot.Evening],
		expiresAt, id,
	)
	if err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	if n == 0 {
		return ErrNoSession
	}

	if w != nil {
		s.setCookie(w, id, expiresAt)
	}
	return nil
}

// Destroy removes the session and clears the cookie.
func (s *Store) Destroy(w http.ResponseWriter, r *http.Request) error {
	cookie, err := r.Cookie(cookieName)
	if err != nil {
		return nil // no session to destroy
	}

	if _, err := s.db.Exec("DELETE FROM selections WHERE id = ?", cookie.Value); err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Cleanup removes expired sessions and returns how many were dropped.
func (s *Store) Cleanup() (int64, error) {
	res, err := s.db.Exec("DELETE FROM selections WHERE expires_at < ?", s.now())
	if err != nil {
		return 0, fmt.Errorf("cleaning up sessions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("cleaning up sessions: %w", err)
	}
	return n, nil
}

// Count returns the number of stored sessions.
func (s *Store) Count() (int, error) {
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM selections").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting sessions: %w", err)
	}
	return n, nil
}

func (s *Store) setCookie(w http.ResponseWriter, id string, expiresAt time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    id,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

package dataset

import "sync"

// Store loads the tables once and hands the same copy to every caller for
// the rest of the process.
type Store struct {
	routesPath string
	venuesPath string

	once   sync.Once
	tables *Tables
	err    error
}

// NewStore creates a store for the given table files. Nothing is read until
// Tables is first called.
func NewStore(routesPath, venuesPath string) *Store {
	return &Store{routesPath: routesPath, venuesPath: venuesPath}
}

// NewStoreFromTables wraps tables that are already loaded.
func NewStoreFromTables(t *Tables) *Store {
	s := &Store{tables: t}
	s.once.Do(func() {})
	return s
}

// Tables returns the cached tables, loading them on first use. A load
// failure is cached too.
func (s *Store) Tables() (*Tables, error) {
	s.once.Do(func() {
		s.tables, s.err = Load(s.routesPath, s.venuesPath)
	})
	return s.tables, s.err
}

package db

import (
	"database/sql"
	"fmt"
)

// migrations is an ordered list of SQL statements to run.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS selections (
		id         TEXT     PRIMARY KEY,
		route_idx  INTEGER,
		brunch     INTEGER  NOT NULL DEFAULT 3 CHECK (brunch BETWEEN 0 AND 3),
		activity   INTEGER  NOT NULL DEFAULT 3 CHECK (activity BETWEEN 0 AND 3),
		drinks     INTEGER  NOT NULL DEFAULT 3 CHECK (drinks BETWEEN 0 AND 3),
		dinner     INTEGER  NOT NULL DEFAULT 3 CHECK (dinner BETWEEN 0 AND 3),
		evening    INTEGER  NOT NULL DEFAULT 3 CHECK (evening BETWEEN 0 AND 3),
		expires_at DATETIME NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_selections_expires_at ON selections (expires_at)`,
}

// migrate runs all migrations in order.
func migrate(db *sql.DB) error {
	for i, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

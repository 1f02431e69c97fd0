// Package sqlite persists AI judgments across process restarts so repeat
// scans of the same unknown ingredient skip the collaborator call.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	_ "modernc.org/sqlite"

	"github.com/vegcheck/vegcheck/pkg/vegcheck/dataset"
	"github.com/vegcheck/vegcheck/pkg/vegcheck/judge"
)

// sqliteCache implements judge.Cache on a SQLite database.
type sqliteCache struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) a judgment cache with WAL mode enabled.
func OpenSQLite(ctx context.Context, path string) (judge.Cache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteCache{db: db}, nil
}

func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS judgments (
	name TEXT PRIMARY KEY,
	vegetarian INTEGER,
	vegan INTEGER,
	risk TEXT NOT NULL,
	reason TEXT,
	cached_at TEXT NOT NULL
);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

// Close closes the database connection.
func (c *sqliteCache) Close() error {
	return c.db.Close()
}

// Get returns the stored judgment for an ingredient name, if any.
func (c *sqliteCache) Get(ctx context.Context, name string) (judge.Judgment, bool, error) {
	row := c.db.QueryRowContext(ctx,
		`SELECT name, vegetarian, vegan, risk, reason FROM judgments WHERE name = ?`,
		judge.CacheKey(name))

	var (
		j                 judge.Judgment
		vegetarian, vegan sql.NullBool
		risk              string
	)
	err := row.Scan(&j.Ingredient, &vegetarian, &vegan, &risk, &j.Reason)
	if errors.Is(err, sql.ErrNoRows) {
		return judge.Judgment{}, false, nil
	}
	if err != nil {
		return judge.Judgment{}, false, err
	}

	if vegetarian.Valid {
		j.Vegetarian = dataset.Bool(vegetarian.Bool)
	}
	if vegan.Valid {
		j.Vegan = dataset.Bool(vegan.Bool)
	}
	j.Risk = dataset.Risk(risk)
	return j, true, nil
}

// Set upserts a judgment under the normalized ingredient name.
func (c *sqliteCache) Set(ctx context.Context, name string, j judge.Judgment) error {
	var vegetarian, vegan sql.NullBool
	if j.Vegetarian != nil {
		vegetarian = sql.NullBool{Bool: *j.Vegetarian, Valid: true}
	}
	if j.Vegan != nil {
		vegan = sql.NullBool{Bool: *j.Vegan, Valid: true}
	}

	_, err := c.db.ExecContext(ctx, `
INSERT INTO judgments (name, vegetarian, vegan, risk, reason, cached_at)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(name) DO UPDATE SET
	vegetarian = excluded.vegetarian,
	vegan = excluded.vegan,
	risk = excluded.risk,
	reason = excluded.reason,
	cached_at = excluded.cached_at`,
		judge.CacheKey(name), vegetarian, vegan, string(j.Risk), j.Reason,
		time.Now().UTC().Format(time.RFC3339))
	return err
}

// Package sqlite keeps items in an embedded sqlite database, for deployments
// that want durable single-file storage without an external server.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/glyphmint/glyphmint/model/item"
	"github.com/glyphmint/glyphmint/model/seed"
	"github.com/glyphmint/glyphmint/service/dao"
	"github.com/glyphmint/glyphmint/service/dao/criteria"
)

const schema = `CREATE TABLE IF NOT EXISTS items (
	id INTEGER PRIMARY KEY,
	state TEXT NOT NULL,
	seed TEXT NOT NULL,
	content_locator TEXT NOT NULL DEFAULT '',
	requested_at TEXT NOT NULL,
	seeded_at TEXT,
	finalized_at TEXT
)`

// Service implements sqlite-backed item storage.
type Service struct {
	db *sql.DB
}

// Ensure Service implements dao.Service
var _ dao.Service[uint64, item.Item] = (*Service)(nil)

// Save upserts an item row.
func (s *Service) Save(ctx context.Context, i *item.Item) error {
	if i == nil {
		return dao.ErrNilEntity
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO items (id, state, seed, content_locator, requested_at, seeded_at, finalized_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			state = excluded.state,
			seed = excluded.seed,
			content_locator = excluded.content_locator,
			requested_at = excluded.requested_at,
			seeded_at = excluded.seeded_at,
			finalized_at = excluded.finalized_at`,
		int64(i.ID), string(i.State), i.Seed.String(), i.ContentLocator,
		formatTime(&i.RequestedAt), formatTime(i.SeededAt), formatTime(i.FinalizedAt))
	if err != nil {
		return fmt.Errorf("failed to save item %v: %w", i.ID, err)
	}
	return nil
}

// Load retrieves an item row or dao.ErrNotFound.
func (s *Service) Load(ctx context.Context, id uint64) (*item.Item, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, state, seed, content_locator, requested_at, seeded_at, finalized_at
		FROM items WHERE id = ?`, int64(id))
	result, err := scanItem(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, dao.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load item %v: %w", id, err)
	}
	return result, nil
}

// Delete removes an item row.
func (s *Service) Delete(ctx context.Context, id uint64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, int64(id))
	if err != nil {
		return fmt.Errorf("failed to delete item %v: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete item %v: %w", id, err)
	}
	if affected == 0 {
		return dao.ErrNotFound
	}
	return nil
}

// List returns all items passing the optional State parameter, in id order.
func (s *Service) List(ctx context.Context, parameters ...*dao.Parameter) ([]*item.Item, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, state, seed, content_locator, requested_at, seeded_at, finalized_at
		FROM items ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer rows.Close()

	var items []*item.Item
	for rows.Next() {
		candidate, err := scanItem(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		if !criteria.MatchesState(candidate.State, parameters) {
			continue
		}
		items = append(items, candidate)
	}
	return items, rows.Err()
}

// Close releases the underlying database handle.
func (s *Service) Close() error {
	return s.db.Close()
}

func scanItem(scan func(dest ...any) error) (*item.Item, error) {
	var (
		id          int64
		state       string
		seedHex     string
		locator     string
		requestedAt string
		seededAt    sql.NullString
		finalizedAt sql.NullString
	)
	if err := scan(&id, &state, &seedHex, &locator, &requestedAt, &seededAt, &finalizedAt); err != nil {
		return nil, err
	}
	parsedSeed, err := seed.FromHex(seedHex)
	if err != nil {
		return nil, err
	}
	result := &item.Item{
		ID:             uint64(id),
		State:          item.State(state),
		Seed:           parsedSeed,
		ContentLocator: locator,
	}
	if result.RequestedAt, err = time.Parse(time.RFC3339Nano, requestedAt); err != nil {
		return nil, err
	}
	if result.SeededAt, err = parseTime(seededAt); err != nil {
		return nil, err
	}
	if result.FinalizedAt, err = parseTime(finalizedAt); err != nil {
		return nil, err
	}
	return result, nil
}

func formatTime(value *time.Time) interface{} {
	if value == nil {
		return nil
	}
	return value.UTC().Format(time.RFC3339Nano)
}

func parseTime(value sql.NullString) (*time.Time, error) {
	if !value.Valid {
		return nil, nil
	}
	parsed, err := time.Parse(time.RFC3339Nano, value.String)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

// New opens (and if needed initializes) sqlite item storage at the given DSN,
// i.e. a file path or ":memory:".
func New(dsn string) (*Service, error) {
	if dsn == "" {
		return nil, fmt.Errorf("dsn cannot be empty")
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite at %s: %w", dsn, err)
	}
	// sqlite allows a single writer; serializing the pool avoids SQLITE_BUSY
	db.SetMaxOpenConns(1)
	if _, err = db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize item schema: %w", err)
	}
	return &Service{db: db}, nil
}

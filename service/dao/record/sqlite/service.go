// Package sqlite keeps request records in an embedded sqlite database.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/glyphmint/glyphmint/model/item"
	"github.com/glyphmint/glyphmint/service/dao"
)

const schema = `CREATE TABLE IF NOT EXISTS records (
	handle TEXT PRIMARY KEY,
	requester TEXT NOT NULL DEFAULT '',
	item_id INTEGER NOT NULL,
	created_at TEXT NOT NULL
)`

// Service implements sqlite-backed request record storage.
type Service struct {
	db *sql.DB
}

// Ensure Service implements dao.Service
var _ dao.Service[string, item.Record] = (*Service)(nil)

// Save upserts a record row.
func (s *Service) Save(ctx context.Context, r *item.Record) error {
	if r == nil {
		return dao.ErrNilEntity
	}
	if r.Handle == "" {
		return dao.ErrInvalidID
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO records (handle, requester, item_id, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(handle) DO UPDATE SET
			requester = excluded.requester,
			item_id = excluded.item_id,
			created_at = excluded.created_at`,
		r.Handle, r.Requester, int64(r.ItemID), r.CreatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to save record %s: %w", r.Handle, err)
	}
	return nil
}

// Load retrieves a record row or dao.ErrNotFound.
func (s *Service) Load(ctx context.Context, handle string) (*item.Record, error) {
	if handle == "" {
		return nil, dao.ErrInvalidID
	}
	row := s.db.QueryRowContext(ctx, `SELECT handle, requester, item_id, created_at
		FROM records WHERE handle = ?`, handle)
	result, err := scanRecord(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, dao.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load record %s: %w", handle, err)
	}
	return result, nil
}

// Delete removes a record row.
func (s *Service) Delete(ctx context.Context, handle string) error {
	if handle == "" {
		return dao.ErrInvalidID
	}
	result, err := s.db.ExecContext(ctx, `DELETE FROM records WHERE handle = ?`, handle)
	if err != nil {
		return fmt.Errorf("failed to delete record %s: %w", handle, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete record %s: %w", handle, err)
	}
	if affected == 0 {
		return dao.ErrNotFound
	}
	return nil
}

// List returns all records in insertion order.
func (s *Service) List(ctx context.Context, _ ...*dao.Parameter) ([]*item.Record, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT handle, requester, item_id, created_at
		FROM records ORDER BY item_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	defer rows.Close()

	var records []*item.Record
	for rows.Next() {
		candidate, err := scanRecord(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		records = append(records, candidate)
	}
	return records, rows.Err()
}

// Close releases the underlying database handle.
func (s *Service) Close() error {
	return s.db.Close()
}

func scanRecord(scan func(dest ...any) error) (*item.Record, error) {
	var (
		handle    string
		requester string
		itemID    int64
		createdAt string
	)
	if err := scan(&handle, &requester, &itemID, &createdAt); err != nil {
		return nil, err
	}
	result := &item.Record{
		Handle:    handle,
		Requester: requester,
		ItemID:    uint64(itemID),
	}
	var err error
	if result.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, err
	}
	return result, nil
}

// New opens (and if needed initializes) sqlite record storage at the given DSN.
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
		return nil, fmt.Errorf("failed to initialize record schema: %w", err)
	}
	return &Service{db: db}, nil
}

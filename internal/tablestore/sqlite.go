package tablestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// SQLite stores rows in a single-file database. Useful for single-node
// deployments and integration tests that want real durability without a
// running Postgres.
type SQLite struct {
	db *sql.DB
}

// NewSQLite wraps an open database handle using the modernc sqlite driver.
func NewSQLite(db *sql.DB) *SQLite {
	return &SQLite{db: db}
}

// EnsureSchema creates the catalog table if it does not exist yet.
func (s *SQLite) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS catalog_rows (
			kind       TEXT NOT NULL,
			id         TEXT NOT NULL,
			version    TEXT NOT NULL,
			doc        BLOB NOT NULL,
			updated_at TEXT NOT NULL DEFAULT (datetime('now')),
			PRIMARY KEY (kind, id)
		)`)
	if err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// Get returns the row at (kind, id) or ErrNotFound.
func (s *SQLite) Get(ctx context.Context, kind, id string) (Row, error) {
	row := Row{Kind: kind, ID: id}
	err := s.db.QueryRowContext(ctx, `
		SELECT version, doc
		FROM catalog_rows
		WHERE kind = ? AND id = ?
	`, kind, id).Scan(&row.Version, &row.Doc)
	if errors.Is(err, sql.ErrNoRows) {
		return Row{}, ErrNotFound
	}
	if err != nil {
		return Row{}, fmt.Errorf("get row: %w", err)
	}
	return row, nil
}

// Scan returns the full partition for a kind.
func (s *SQLite) Scan(ctx context.Context, kind string) ([]Row, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, version, doc
		FROM catalog_rows
		WHERE kind = ?
		ORDER BY id ASC
	`, kind)
	if err != nil {
		return nil, fmt.Errorf("scan partition: %w", err)
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		row := Row{Kind: kind}
		if err := rows.Scan(&row.ID, &row.Version, &row.Doc); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate partition: %w", err)
	}
	return out, nil
}

// Insert writes a new row, reporting ErrExists on a key collision.
func (s *SQLite) Insert(ctx context.Context, row Row) (Row, error) {
	row.Version = uuid.NewString()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO catalog_rows (kind, id, version, doc)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (kind, id) DO NOTHING
	`, row.Kind, row.ID, row.Version, row.Doc)
	if err != nil {
		return Row{}, fmt.Errorf("insert row: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return Row{}, fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return Row{}, ErrExists
	}
	return row, nil
}

// Update rewrites the document, gated on the caller's version tag.
func (s *SQLite) Update(ctx context.Context, row Row) (Row, error) {
	next := uuid.NewString()
	res, err := s.db.ExecContext(ctx, `
		UPDATE catalog_rows
		SET version = ?, doc = ?, updated_at = datetime('now')
		WHERE kind = ? AND id = ? AND version = ?
	`, next, row.Doc, row.Kind, row.ID, row.Version)
	if err != nil {
		return Row{}, fmt.Errorf("update row: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return Row{}, fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return Row{}, s.missOrConflict(ctx, row.Kind, row.ID)
	}
	row.Version = next
	return row, nil
}

// Delete removes the row, version-gated when a version is supplied.
func (s *SQLite) Delete(ctx context.Context, kind, id, version string) error {
	query := `DELETE FROM catalog_rows WHERE kind = ? AND id = ?`
	args := []any{kind, id}
	if version != "" {
		query += ` AND version = ?`
		args = append(args, version)
	}
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete row: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		if version == "" {
			return ErrNotFound
		}
		return s.missOrConflict(ctx, kind, id)
	}
	return nil
}

// Close releases the database handle.
func (s *SQLite) Close() error { return s.db.Close() }

func (s *SQLite) missOrConflict(ctx context.Context, kind, id string) error {
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM catalog_rows WHERE kind = ? AND id = ?)
	`, kind, id).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check row: %w", err)
	}
	if !exists {
		return ErrNotFound
	}
	return ErrVersionMismatch
}

package tablestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

// Postgres stores rows in a single catalog_rows table with a jsonb document
// column. All writes are single-row statements; the version column carries
// the optimistic concurrency tag.
type Postgres struct {
	db *sql.DB
}

// NewPostgres wraps an open database handle.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// EnsureSchema creates the catalog table if it does not exist yet.
func (s *Postgres) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS catalog_rows (
			kind       text NOT NULL,
			id         text NOT NULL,
			version    text NOT NULL,
			doc        jsonb NOT NULL,
			updated_at timestamptz NOT NULL DEFAULT now(),
			PRIMARY KEY (kind, id)
		)`)
	if err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// Get returns the row at (kind, id) or ErrNotFound.
func (s *Postgres) Get(ctx context.Context, kind, id string) (Row, error) {
	row := Row{Kind: kind, ID: id}
	err := s.db.QueryRowContext(ctx, `
		SELECT version, doc
		FROM catalog_rows
		WHERE kind = $1 AND id = $2
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
func (s *Postgres) Scan(ctx context.Context, kind string) ([]Row, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, version, doc
		FROM catalog_rows
		WHERE kind = $1
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

// Insert writes a new row, mapping a primary-key violation to ErrExists.
func (s *Postgres) Insert(ctx context.Context, row Row) (Row, error) {
	row.Version = uuid.NewString()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO catalog_rows (kind, id, version, doc)
		VALUES ($1, $2, $3, $4)
	`, row.Kind, row.ID, row.Version, row.Doc)
	if err != nil {
		if isUniqueViolation(err) {
			return Row{}, ErrExists
		}
		return Row{}, fmt.Errorf("insert row: %w", err)
	}
	return row, nil
}

// Update rewrites the document, gated on the caller's version tag.
func (s *Postgres) Update(ctx context.Context, row Row) (Row, error) {
	next := uuid.NewString()
	res, err := s.db.ExecContext(ctx, `
		UPDATE catalog_rows
		SET version = $1, doc = $2, updated_at = now()
		WHERE kind = $3 AND id = $4 AND version = $5
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
func (s *Postgres) Delete(ctx context.Context, kind, id, version string) error {
	query := `DELETE FROM catalog_rows WHERE kind = $1 AND id = $2`
	args := []any{kind, id}
	if version != "" {
		query += ` AND version = $3`
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
func (s *Postgres) Close() error { return s.db.Close() }

// missOrConflict distinguishes a vanished row from a lost version race after
// a conditional write touched zero rows.
func (s *Postgres) missOrConflict(ctx context.Context, kind, id string) error {
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM catalog_rows WHERE kind = $1 AND id = $2)
	`, kind, id).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check row: %w", err)
	}
	if !exists {
		return ErrNotFound
	}
	return ErrVersionMismatch
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

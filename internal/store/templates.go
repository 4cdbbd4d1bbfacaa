package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/roach88/qctoolkit/internal/serialization"
)

// Revision is one stored version of a template document.
type Revision struct {
	ID         string
	Seq        int64
	Identifier string
	Data       []byte
}

// Put stores data under identifier and appends a revision.
// Without overwrite, an existing identifier fails with serialization.ErrExists.
func (s *Store) Put(ctx context.Context, identifier string, data []byte, overwrite bool) error {
	revisionID, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("put %q: revision id: %w", identifier, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("put %q: %w", identifier, err)
	}
	defer tx.Rollback()

	var exists bool
	if err := tx.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM templates WHERE identifier = ?)`, identifier,
	).Scan(&exists); err != nil {
		return fmt.Errorf("put %q: %w", identifier, err)
	}
	if exists && !overwrite {
		return fmt.Errorf("%w: %s", serialization.ErrExists, identifier)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO template_revisions (id, identifier, data)
		VALUES (?, ?, ?)
	`, revisionID.String(), identifier, string(data)); err != nil {
		return fmt.Errorf("put %q: %w", identifier, err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO templates (identifier, data, revision)
		VALUES (?, ?, ?)
		ON CONFLICT(identifier) DO UPDATE SET data = excluded.data, revision = excluded.revision
	`, identifier, string(data), revisionID.String()); err != nil {
		return fmt.Errorf("put %q: %w", identifier, err)
	}

	return tx.Commit()
}

// Get returns the current document of identifier.
func (s *Store) Get(ctx context.Context, identifier string) ([]byte, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM templates WHERE identifier = ?`, identifier,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", serialization.ErrNotFound, identifier)
	}
	if err != nil {
		return nil, fmt.Errorf("get %q: %w", identifier, err)
	}
	return []byte(data), nil
}

// Exists reports whether identifier has a current document.
func (s *Store) Exists(ctx context.Context, identifier string) (bool, error) {
	var exists bool
	if err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM templates WHERE identifier = ?)`, identifier,
	).Scan(&exists); err != nil {
		return false, fmt.Errorf("exists %q: %w", identifier, err)
	}
	return exists, nil
}

// Identifiers lists all stored identifiers in binary order.
func (s *Store) Identifiers(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT identifier FROM templates ORDER BY identifier ASC COLLATE BINARY`)
	if err != nil {
		return nil, fmt.Errorf("list identifiers: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan identifier: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Revisions returns every stored version of identifier, oldest first.
func (s *Store) Revisions(ctx context.Context, identifier string) ([]Revision, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, id, identifier, data
		FROM template_revisions
		WHERE identifier = ?
		ORDER BY seq ASC
	`, identifier)
	if err != nil {
		return nil, fmt.Errorf("list revisions %q: %w", identifier, err)
	}
	defer rows.Close()

	var revisions []Revision
	for rows.Next() {
		var rev Revision
		var data string
		if err := rows.Scan(&rev.Seq, &rev.ID, &rev.Identifier, &data); err != nil {
			return nil, fmt.Errorf("scan revision: %w", err)
		}
		rev.Data = []byte(data)
		revisions = append(revisions, rev)
	}
	return revisions, rows.Err()
}

package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hookdex-labs/hookdex-cli/internal/core/domain"
	"github.com/hookdex-labs/hookdex-cli/internal/core/ports/driven"
)

// sourceStore implements driven.SourceStore.
type sourceStore struct {
	store *Store
}

var _ driven.SourceStore = (*sourceStore)(nil)

// Save stores or updates a source. The name is unique across sources;
// inserting a second source under an existing name fails with
// domain.ErrAlreadyExists.
func (s *sourceStore) Save(ctx context.Context, source domain.Source) error {
	configJSON, err := json.Marshal(source.Config)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}

	now := time.Now().UTC()
	if source.CreatedAt.IsZero() {
		source.CreatedAt = now
	}
	source.UpdatedAt = now

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO sources (id, type, name, config, content_type, enabled, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			type = excluded.type,
			name = excluded.name,
			config = excluded.config,
			content_type = excluded.content_type,
			enabled = excluded.enabled,
			updated_at = excluded.updated_at
	`, source.ID, source.Type, source.Name, string(configJSON),
		string(source.ContentType), source.Enabled,
		source.CreatedAt, source.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: source name %q", domain.ErrAlreadyExists, source.Name)
		}
		return fmt.Errorf("saving source: %w", err)
	}
	return nil
}

// GetByName retrieves a source by its unique name.
func (s *sourceStore) GetByName(ctx context.Context, name string) (*domain.Source, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, type, name, config, content_type, enabled, created_at, updated_at
		FROM sources WHERE name = ?
	`, name)

	return scanSource(row)
}

// List returns all registered sources ordered by name.
func (s *sourceStore) List(ctx context.Context) ([]domain.Source, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, type, name, config, content_type, enabled, created_at, updated_at
		FROM sources ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("querying sources: %w", err)
	}
	defer rows.Close()

	var sources []domain.Source //nolint:prealloc // size unknown from query
	for rows.Next() {
		source, err := scanSourceRows(rows)
		if err != nil {
			return nil, err
		}
		sources = append(sources, *source)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sources: %w", err)
	}

	return sources, nil
}

// Delete removes a source. Declarations, doc pages and cache rows go
// with it through the foreign-key cascades; the shadow search rows are
// cleaned up explicitly since virtual tables carry no foreign keys.
func (s *sourceStore) Delete(ctx context.Context, id string) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	for _, q := range []string{
		"DELETE FROM hooks_fts WHERE rowid IN (SELECT id FROM hooks WHERE source_id = ?)",
		"DELETE FROM registrations_fts WHERE rowid IN (SELECT id FROM registrations WHERE source_id = ?)",
		"DELETE FROM api_usages_fts WHERE rowid IN (SELECT id FROM api_usages WHERE source_id = ?)",
		"DELETE FROM doc_pages_fts WHERE rowid IN (SELECT id FROM doc_pages WHERE source_id = ?)",
	} {
		if _, err := tx.ExecContext(ctx, q, id); err != nil {
			return fmt.Errorf("deleting search rows: %w", err)
		}
	}

	res, err := tx.ExecContext(ctx, "DELETE FROM sources WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting source: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting source: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func scanSource(row *sql.Row) (*domain.Source, error) {
	var source domain.Source
	var configJSON, contentType string
	if err := row.Scan(&source.ID, &source.Type, &source.Name, &configJSON,
		&contentType, &source.Enabled, &source.CreatedAt, &source.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning source: %w", err)
	}

	if err := json.Unmarshal([]byte(configJSON), &source.Config); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	source.ContentType = domain.ContentType(contentType)
	return &source, nil
}

func scanSourceRows(rows *sql.Rows) (*domain.Source, error) {
	var source domain.Source
	var configJSON, contentType string
	if err := rows.Scan(&source.ID, &source.Type, &source.Name, &configJSON,
		&contentType, &source.Enabled, &source.CreatedAt, &source.UpdatedAt); err != nil {
		return nil, fmt.Errorf("scanning source: %w", err)
	}

	if err := json.Unmarshal([]byte(configJSON), &source.Config); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	source.ContentType = domain.ContentType(contentType)
	return &source, nil
}

// isUniqueViolation detects SQLite unique constraint failures without
// depending on driver-specific error types.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

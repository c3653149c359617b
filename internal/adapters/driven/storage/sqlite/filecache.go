package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/hookdex-labs/hookdex-cli/internal/core/domain"
	"github.com/hookdex-labs/hookdex-cli/internal/core/ports/driven"
)

// fileCacheStore implements driven.FileCacheStore.
type fileCacheStore struct {
	store *Store
}

var _ driven.FileCacheStore = (*fileCacheStore)(nil)

// Get returns the cache row for a file.
func (f *fileCacheStore) Get(ctx context.Context, sourceID, filePath string) (*domain.IndexedFile, error) {
	row := f.store.db.QueryRowContext(ctx, `
		SELECT source_id, file_path, mod_time, content_hash, scanned_at
		FROM indexed_files WHERE source_id = ? AND file_path = ?
	`, sourceID, filePath)

	var file domain.IndexedFile
	if err := row.Scan(&file.SourceID, &file.FilePath, &file.ModTime,
		&file.ContentHash, &file.ScannedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning indexed file: %w", err)
	}
	return &file, nil
}

// Put inserts or refreshes a cache row.
func (f *fileCacheStore) Put(ctx context.Context, file domain.IndexedFile) error {
	_, err := f.store.db.ExecContext(ctx, `
		INSERT INTO indexed_files (source_id, file_path, mod_time, content_hash, scanned_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(source_id, file_path) DO UPDATE SET
			mod_time = excluded.mod_time,
			content_hash = excluded.content_hash,
			scanned_at = excluded.scanned_at
	`, file.SourceID, file.FilePath, file.ModTime, file.ContentHash, file.ScannedAt)
	if err != nil {
		return fmt.Errorf("saving indexed file: %w", err)
	}
	return nil
}

// ListPaths returns every cached file path for a source.
func (f *fileCacheStore) ListPaths(ctx context.Context, sourceID string) ([]string, error) {
	rows, err := f.store.db.QueryContext(ctx, `
		SELECT file_path FROM indexed_files WHERE source_id = ? ORDER BY file_path
	`, sourceID)
	if err != nil {
		return nil, fmt.Errorf("querying indexed files: %w", err)
	}
	defer rows.Close()

	var paths []string //nolint:prealloc // size unknown from query
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, fmt.Errorf("scanning file path: %w", err)
		}
		paths = append(paths, path)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating indexed files: %w", err)
	}
	return paths, nil
}

// Delete drops the cache row for a vanished file.
func (f *fileCacheStore) Delete(ctx context.Context, sourceID, filePath string) error {
	_, err := f.store.db.ExecContext(ctx,
		"DELETE FROM indexed_files WHERE source_id = ? AND file_path = ?", sourceID, filePath)
	if err != nil {
		return fmt.Errorf("deleting indexed file: %w", err)
	}
	return nil
}

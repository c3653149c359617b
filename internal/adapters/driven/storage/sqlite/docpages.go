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

// docPageStore implements driven.DocPageStore.
type docPageStore struct {
	store *Store
}

var _ driven.DocPageStore = (*docPageStore)(nil)

// ReconcilePage upserts one parsed page by its (source, file path) key.
func (d *docPageStore) ReconcilePage(ctx context.Context, page *domain.DocPage) (domain.RecordCounts, error) {
	var counts domain.RecordCounts

	tx, err := d.store.db.BeginTx(ctx, nil)
	if err != nil {
		return counts, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	now := time.Now().UTC()

	var id int64
	var storedHash, status string
	err = tx.QueryRowContext(ctx, `
		SELECT id, content_hash, status FROM doc_pages WHERE source_id = ? AND file_path = ?
	`, page.SourceID, page.FilePath).Scan(&id, &storedHash, &status)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		samplesJSON, metadataJSON, err := marshalPageFields(page)
		if err != nil {
			return counts, err
		}
		res, err := tx.ExecContext(ctx, `
			INSERT INTO doc_pages (source_id, file_path, title, category, subcategory,
				summary, code_samples, metadata, content_hash, status, first_seen_at, last_seen_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, 'active', ?, ?)
		`, page.SourceID, page.FilePath, page.Title, page.Category, page.Subcategory,
			page.Summary, samplesJSON, metadataJSON, page.ContentHash, now, now)
		if err != nil {
			return counts, fmt.Errorf("inserting doc page: %w", err)
		}
		if id, err = res.LastInsertId(); err != nil {
			return counts, fmt.Errorf("inserting doc page: %w", err)
		}
		if err := writePageFTS(ctx, tx, id, page); err != nil {
			return counts, err
		}
		counts.Inserted++

	case err != nil:
		return counts, fmt.Errorf("loading doc page: %w", err)

	case storedHash == page.ContentHash:
		_, err := tx.ExecContext(ctx, `
			UPDATE doc_pages SET status = 'active', last_seen_at = ?, removed_at = NULL WHERE id = ?
		`, now, id)
		if err != nil {
			return counts, fmt.Errorf("refreshing doc page: %w", err)
		}
		if domain.Status(status) == domain.StatusRemoved {
			counts.Updated++
		} else {
			counts.Unchanged++
		}

	default:
		samplesJSON, metadataJSON, err := marshalPageFields(page)
		if err != nil {
			return counts, err
		}
		_, err = tx.ExecContext(ctx, `
			UPDATE doc_pages SET title = ?, category = ?, subcategory = ?, summary = ?,
				code_samples = ?, metadata = ?, content_hash = ?, status = 'active',
				last_seen_at = ?, removed_at = NULL
			WHERE id = ?
		`, page.Title, page.Category, page.Subcategory, page.Summary,
			samplesJSON, metadataJSON, page.ContentHash, now, id)
		if err != nil {
			return counts, fmt.Errorf("updating doc page: %w", err)
		}
		if err := writePageFTS(ctx, tx, id, page); err != nil {
			return counts, err
		}
		counts.Updated++
	}

	if err := tx.Commit(); err != nil {
		return counts, fmt.Errorf("committing transaction: %w", err)
	}
	page.ID = id
	return counts, nil
}

// MarkPageRemoved sweeps the page of a vanished file.
func (d *docPageStore) MarkPageRemoved(ctx context.Context, sourceID, filePath string) (domain.RecordCounts, error) {
	var counts domain.RecordCounts

	res, err := d.store.db.ExecContext(ctx, `
		UPDATE doc_pages SET status = 'removed', removed_at = ?
		WHERE source_id = ? AND file_path = ? AND status = 'active'
	`, time.Now().UTC(), sourceID, filePath)
	if err != nil {
		return counts, fmt.Errorf("sweeping doc page: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return counts, fmt.Errorf("sweeping doc page: %w", err)
	}
	counts.Removed = int(affected)
	return counts, nil
}

func marshalPageFields(page *domain.DocPage) (string, string, error) {
	samplesJSON, err := json.Marshal(page.CodeSamples)
	if err != nil {
		return "", "", fmt.Errorf("marshalling code samples: %w", err)
	}
	metadataJSON, err := json.Marshal(page.Metadata)
	if err != nil {
		return "", "", fmt.Errorf("marshalling metadata: %w", err)
	}
	return string(samplesJSON), string(metadataJSON), nil
}

func writePageFTS(ctx context.Context, tx *sql.Tx, id int64, page *domain.DocPage) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM doc_pages_fts WHERE rowid = ?", id); err != nil {
		return fmt.Errorf("clearing doc search row: %w", err)
	}
	_, err := tx.ExecContext(ctx, `
		INSERT INTO doc_pages_fts (rowid, title, category, subcategory, summary, code_samples)
		VALUES (?, ?, ?, ?, ?, ?)
	`, id, page.Title, page.Category, page.Subcategory, page.Summary,
		strings.Join(page.CodeSamples, "\n"))
	if err != nil {
		return fmt.Errorf("writing doc search row: %w", err)
	}
	return nil
}

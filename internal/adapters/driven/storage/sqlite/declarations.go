package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hookdex-labs/hookdex-cli/internal/core/domain"
	"github.com/hookdex-labs/hookdex-cli/internal/core/ports/driven"
)

// declarationStore implements driven.DeclarationStore.
type declarationStore struct {
	store *Store
}

var _ driven.DeclarationStore = (*declarationStore)(nil)

// existingRecord is the slice of a stored row needed for reconciliation.
type existingRecord struct {
	id          int64
	contentHash string
	status      domain.Status
}

// ReconcileFile merges one file's extracted records with the stored
// state inside a single transaction. Records are matched by natural key;
// active records absent from the extraction are swept to removed.
func (d *declarationStore) ReconcileFile(
	ctx context.Context,
	sourceID, filePath string,
	hooks []domain.Hook,
	registrations []domain.Registration,
	usages []domain.APIUsage,
) (domain.ReconcileCounts, error) {
	var counts domain.ReconcileCounts

	tx, err := d.store.db.BeginTx(ctx, nil)
	if err != nil {
		return counts, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	now := time.Now().UTC()

	if counts.Hooks, err = reconcileHooks(ctx, tx, sourceID, filePath, hooks, now); err != nil {
		return counts, err
	}
	if counts.Registrations, err = reconcileRegistrations(ctx, tx, sourceID, filePath, registrations, now); err != nil {
		return counts, err
	}
	if counts.APIUsages, err = reconcileUsages(ctx, tx, sourceID, filePath, usages, now); err != nil {
		return counts, err
	}

	if err := tx.Commit(); err != nil {
		return counts, fmt.Errorf("committing transaction: %w", err)
	}
	return counts, nil
}

// MarkFileRemoved sweeps every active record of a vanished file.
func (d *declarationStore) MarkFileRemoved(ctx context.Context, sourceID, filePath string) (domain.ReconcileCounts, error) {
	return d.ReconcileFile(ctx, sourceID, filePath, nil, nil, nil)
}

func reconcileHooks(
	ctx context.Context,
	tx *sql.Tx,
	sourceID, filePath string,
	hooks []domain.Hook,
	now time.Time,
) (domain.RecordCounts, error) {
	var counts domain.RecordCounts

	existing, err := loadExisting(ctx, tx,
		"SELECT id, line_number, name, content_hash, status FROM hooks WHERE source_id = ? AND file_path = ?",
		sourceID, filePath)
	if err != nil {
		return counts, fmt.Errorf("loading hooks: %w", err)
	}

	touched := make(map[int64]bool, len(hooks))
	seen := make(map[string]bool, len(hooks))
	for i := range hooks {
		h := &hooks[i]
		key := naturalKey(h.LineNumber, h.Name)
		// Two calls on one line can extract the same natural key; the
		// first occurrence wins, a second insert would hit the unique
		// index and abort the whole file.
		if seen[key] {
			continue
		}
		seen[key] = true
		ex, found := existing[key]

		switch {
		case !found:
			paramsJSON, err := json.Marshal(h.Params)
			if err != nil {
				return counts, fmt.Errorf("marshalling params: %w", err)
			}
			res, err := tx.ExecContext(ctx, `
				INSERT INTO hooks (source_id, file_path, line_number, name, kind, params,
					param_count, doc_comment, enclosing_scope, code_context, description,
					is_dynamic, content_hash, status, first_seen_at, last_seen_at)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 'active', ?, ?)
			`, sourceID, filePath, h.LineNumber, h.Name, string(h.Kind), string(paramsJSON),
				h.ParamCount, h.DocComment, h.EnclosingScope, h.CodeContext, h.Description,
				h.IsDynamic, h.ContentHash, now, now)
			if err != nil {
				return counts, fmt.Errorf("inserting hook: %w", err)
			}
			id, err := res.LastInsertId()
			if err != nil {
				return counts, fmt.Errorf("inserting hook: %w", err)
			}
			if err := writeHookFTS(ctx, tx, id, h); err != nil {
				return counts, err
			}
			counts.Inserted++

		case ex.contentHash == h.ContentHash:
			touched[ex.id] = true
			_, err := tx.ExecContext(ctx, `
				UPDATE hooks SET status = 'active', last_seen_at = ?, removed_at = NULL WHERE id = ?
			`, now, ex.id)
			if err != nil {
				return counts, fmt.Errorf("refreshing hook: %w", err)
			}
			if ex.status == domain.StatusRemoved {
				counts.Updated++
			} else {
				counts.Unchanged++
			}

		default:
			touched[ex.id] = true
			paramsJSON, err := json.Marshal(h.Params)
			if err != nil {
				return counts, fmt.Errorf("marshalling params: %w", err)
			}
			_, err = tx.ExecContext(ctx, `
				UPDATE hooks SET kind = ?, params = ?, param_count = ?, doc_comment = ?,
					enclosing_scope = ?, code_context = ?, description = ?, is_dynamic = ?,
					content_hash = ?, status = 'active', last_seen_at = ?, removed_at = NULL
				WHERE id = ?
			`, string(h.Kind), string(paramsJSON), h.ParamCount, h.DocComment,
				h.EnclosingScope, h.CodeContext, h.Description, h.IsDynamic,
				h.ContentHash, now, ex.id)
			if err != nil {
				return counts, fmt.Errorf("updating hook: %w", err)
			}
			if err := writeHookFTS(ctx, tx, ex.id, h); err != nil {
				return counts, err
			}
			counts.Updated++
		}
	}

	removed, err := sweepExisting(ctx, tx, "hooks", existing, touched, now)
	if err != nil {
		return counts, err
	}
	counts.Removed = removed
	return counts, nil
}

func reconcileRegistrations(
	ctx context.Context,
	tx *sql.Tx,
	sourceID, filePath string,
	registrations []domain.Registration,
	now time.Time,
) (domain.RecordCounts, error) {
	var counts domain.RecordCounts

	existing, err := loadExisting(ctx, tx,
		"SELECT id, line_number, name, content_hash, status FROM registrations WHERE source_id = ? AND file_path = ?",
		sourceID, filePath)
	if err != nil {
		return counts, fmt.Errorf("loading registrations: %w", err)
	}

	touched := make(map[int64]bool, len(registrations))
	seen := make(map[string]bool, len(registrations))
	for i := range registrations {
		r := &registrations[i]
		key := naturalKey(r.LineNumber, r.Name)
		if seen[key] {
			continue
		}
		seen[key] = true
		ex, found := existing[key]

		switch {
		case !found:
			res, err := tx.ExecContext(ctx, `
				INSERT INTO registrations (source_id, file_path, line_number, name, title,
					category, code_context, content_hash, status, first_seen_at, last_seen_at)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, 'active', ?, ?)
			`, sourceID, filePath, r.LineNumber, r.Name, r.Title, r.Category,
				r.CodeContext, r.ContentHash, now, now)
			if err != nil {
				return counts, fmt.Errorf("inserting registration: %w", err)
			}
			id, err := res.LastInsertId()
			if err != nil {
				return counts, fmt.Errorf("inserting registration: %w", err)
			}
			if err := writeRegistrationFTS(ctx, tx, id, r); err != nil {
				return counts, err
			}
			counts.Inserted++

		case ex.contentHash == r.ContentHash:
			touched[ex.id] = true
			_, err := tx.ExecContext(ctx, `
				UPDATE registrations SET status = 'active', last_seen_at = ?, removed_at = NULL WHERE id = ?
			`, now, ex.id)
			if err != nil {
				return counts, fmt.Errorf("refreshing registration: %w", err)
			}
			if ex.status == domain.StatusRemoved {
				counts.Updated++
			} else {
				counts.Unchanged++
			}

		default:
			touched[ex.id] = true
			_, err := tx.ExecContext(ctx, `
				UPDATE registrations SET title = ?, category = ?, code_context = ?,
					content_hash = ?, status = 'active', last_seen_at = ?, removed_at = NULL
				WHERE id = ?
			`, r.Title, r.Category, r.CodeContext, r.ContentHash, now, ex.id)
			if err != nil {
				return counts, fmt.Errorf("updating registration: %w", err)
			}
			if err := writeRegistrationFTS(ctx, tx, ex.id, r); err != nil {
				return counts, err
			}
			counts.Updated++
		}
	}

	removed, err := sweepExisting(ctx, tx, "registrations", existing, touched, now)
	if err != nil {
		return counts, err
	}
	counts.Removed = removed
	return counts, nil
}

func reconcileUsages(
	ctx context.Context,
	tx *sql.Tx,
	sourceID, filePath string,
	usages []domain.APIUsage,
	now time.Time,
) (domain.RecordCounts, error) {
	var counts domain.RecordCounts

	existing, err := loadExisting(ctx, tx,
		"SELECT id, line_number, namespace || '.' || method, content_hash, status FROM api_usages WHERE source_id = ? AND file_path = ?",
		sourceID, filePath)
	if err != nil {
		return counts, fmt.Errorf("loading api usages: %w", err)
	}

	touched := make(map[int64]bool, len(usages))
	seen := make(map[string]bool, len(usages))
	for i := range usages {
		u := &usages[i]
		key := naturalKey(u.LineNumber, u.Name())
		if seen[key] {
			continue
		}
		seen[key] = true
		ex, found := existing[key]

		switch {
		case !found:
			res, err := tx.ExecContext(ctx, `
				INSERT INTO api_usages (source_id, file_path, line_number, namespace, method,
					code_context, content_hash, status, first_seen_at, last_seen_at)
				VALUES (?, ?, ?, ?, ?, ?, ?, 'active', ?, ?)
			`, sourceID, filePath, u.LineNumber, u.Namespace, u.Method,
				u.CodeContext, u.ContentHash, now, now)
			if err != nil {
				return counts, fmt.Errorf("inserting api usage: %w", err)
			}
			id, err := res.LastInsertId()
			if err != nil {
				return counts, fmt.Errorf("inserting api usage: %w", err)
			}
			if err := writeUsageFTS(ctx, tx, id, u); err != nil {
				return counts, err
			}
			counts.Inserted++

		case ex.contentHash == u.ContentHash:
			touched[ex.id] = true
			_, err := tx.ExecContext(ctx, `
				UPDATE api_usages SET status = 'active', last_seen_at = ?, removed_at = NULL WHERE id = ?
			`, now, ex.id)
			if err != nil {
				return counts, fmt.Errorf("refreshing api usage: %w", err)
			}
			if ex.status == domain.StatusRemoved {
				counts.Updated++
			} else {
				counts.Unchanged++
			}

		default:
			touched[ex.id] = true
			_, err := tx.ExecContext(ctx, `
				UPDATE api_usages SET code_context = ?, content_hash = ?, status = 'active',
					last_seen_at = ?, removed_at = NULL
				WHERE id = ?
			`, u.CodeContext, u.ContentHash, now, ex.id)
			if err != nil {
				return counts, fmt.Errorf("updating api usage: %w", err)
			}
			if err := writeUsageFTS(ctx, tx, ex.id, u); err != nil {
				return counts, err
			}
			counts.Updated++
		}
	}

	removed, err := sweepExisting(ctx, tx, "api_usages", existing, touched, now)
	if err != nil {
		return counts, err
	}
	counts.Removed = removed
	return counts, nil
}

// loadExisting maps natural keys to the stored rows of one file.
func loadExisting(ctx context.Context, tx *sql.Tx, query, sourceID, filePath string) (map[string]existingRecord, error) {
	rows, err := tx.QueryContext(ctx, query, sourceID, filePath)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	existing := make(map[string]existingRecord)
	for rows.Next() {
		var rec existingRecord
		var line int
		var name, status string
		if err := rows.Scan(&rec.id, &line, &name, &rec.contentHash, &status); err != nil {
			return nil, err
		}
		rec.status = domain.Status(status)
		existing[naturalKey(line, name)] = rec
	}
	return existing, rows.Err()
}

// sweepExisting marks untouched active rows as removed and returns how
// many were swept. Shadow rows stay in place so removed records remain
// findable when a search opts in.
func sweepExisting(
	ctx context.Context,
	tx *sql.Tx,
	table string,
	existing map[string]existingRecord,
	touched map[int64]bool,
	now time.Time,
) (int, error) {
	removed := 0
	for _, rec := range existing {
		if touched[rec.id] || rec.status != domain.StatusActive {
			continue
		}
		_, err := tx.ExecContext(ctx,
			"UPDATE "+table+" SET status = 'removed', removed_at = ? WHERE id = ?", now, rec.id)
		if err != nil {
			return removed, fmt.Errorf("sweeping %s: %w", table, err)
		}
		removed++
	}
	return removed, nil
}

func naturalKey(line int, name string) string {
	return fmt.Sprintf("%d\x00%s", line, name)
}

func writeHookFTS(ctx context.Context, tx *sql.Tx, id int64, h *domain.Hook) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM hooks_fts WHERE rowid = ?", id); err != nil {
		return fmt.Errorf("clearing hook search row: %w", err)
	}
	_, err := tx.ExecContext(ctx, `
		INSERT INTO hooks_fts (rowid, name, kind, doc_comment, description, code_context)
		VALUES (?, ?, ?, ?, ?, ?)
	`, id, h.Name, string(h.Kind), h.DocComment, h.Description, h.CodeContext)
	if err != nil {
		return fmt.Errorf("writing hook search row: %w", err)
	}
	return nil
}

func writeRegistrationFTS(ctx context.Context, tx *sql.Tx, id int64, r *domain.Registration) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM registrations_fts WHERE rowid = ?", id); err != nil {
		return fmt.Errorf("clearing registration search row: %w", err)
	}
	_, err := tx.ExecContext(ctx, `
		INSERT INTO registrations_fts (rowid, name, title, category, code_context)
		VALUES (?, ?, ?, ?, ?)
	`, id, r.Name, r.Title, r.Category, r.CodeContext)
	if err != nil {
		return fmt.Errorf("writing registration search row: %w", err)
	}
	return nil
}

func writeUsageFTS(ctx context.Context, tx *sql.Tx, id int64, u *domain.APIUsage) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM api_usages_fts WHERE rowid = ?", id); err != nil {
		return fmt.Errorf("clearing api usage search row: %w", err)
	}
	_, err := tx.ExecContext(ctx, `
		INSERT INTO api_usages_fts (rowid, name, code_context)
		VALUES (?, ?, ?)
	`, id, u.Name(), u.CodeContext)
	if err != nil {
		return fmt.Errorf("writing api usage search row: %w", err)
	}
	return nil
}

package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/hookdex-labs/hookdex-cli/internal/core/domain"
	"github.com/hookdex-labs/hookdex-cli/internal/core/ports/driven"
	"github.com/hookdex-labs/hookdex-cli/internal/logger"
)

// maxSuggestions caps the fuzzy fallback list for NOT_FOUND answers.
const maxSuggestions = 5

// searchStore implements driven.SearchStore.
type searchStore struct {
	store *Store
}

var _ driven.SearchStore = (*searchStore)(nil)

const hookColumns = `h.id, h.source_id, h.file_path, h.line_number, h.name, h.kind,
	h.params, h.param_count, h.doc_comment, h.enclosing_scope, h.code_context,
	h.description, h.is_dynamic, h.content_hash, h.status,
	h.first_seen_at, h.last_seen_at, h.removed_at`

// SearchHooks runs a ranked full-text query over hook declarations.
func (s *searchStore) SearchHooks(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.SearchResult, error) {
	match := ftsQuery(query)
	if match == "" {
		return nil, nil
	}
	return s.runHookMatch(ctx, match, opts)
}

// runHookMatch executes a prepared FTS match expression.
func (s *searchStore) runHookMatch(ctx context.Context, match string, opts domain.SearchOptions) ([]domain.SearchResult, error) {
	w := s.store.weights
	q := `
		SELECT ` + hookColumns + `, src.name,
			bm25(hooks_fts, ?, ?, ?, ?, ?) AS rank
		FROM hooks_fts
		JOIN hooks h ON h.id = hooks_fts.rowid
		JOIN sources src ON src.id = h.source_id
		WHERE hooks_fts MATCH ?`
	args := []any{w.Name, w.Kind, w.Doc, w.Description, w.Context, match}

	if !opts.IncludeRemoved {
		q += " AND h.status = 'active'"
	}
	if opts.Kind != "" {
		q += " AND h.kind = ?"
		args = append(args, opts.Kind)
	}
	if opts.SourceName != "" {
		q += " AND src.name = ?"
		args = append(args, opts.SourceName)
	}
	if opts.DynamicOnly {
		q += " AND h.is_dynamic = 1"
	}
	q += " ORDER BY rank LIMIT ?"
	args = append(args, opts.Limit)

	rows, err := s.store.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("searching hooks: %w", err)
	}
	defer rows.Close()

	var results []domain.SearchResult //nolint:prealloc // size unknown from query
	for rows.Next() {
		var result domain.SearchResult
		var rank float64
		dest := hookScanDest(&result.Hook)
		dest = append(dest, &result.SourceName, &rank)
		if err := scanHookInto(rows, &result.Hook, dest); err != nil {
			return nil, err
		}
		// bm25 reports smaller-is-better; flip so larger means more
		// relevant.
		result.Score = -rank
		results = append(results, result)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating hook results: %w", err)
	}
	return results, nil
}

// SearchRegistrations matches only the structured columns, so context
// text can never produce a false positive.
func (s *searchStore) SearchRegistrations(ctx context.Context, query string, limit int) ([]domain.RegistrationResult, error) {
	match := ftsQuery(query)
	if match == "" {
		return nil, nil
	}
	match = "{name title category} : " + match

	rows, err := s.store.db.QueryContext(ctx, `
		SELECT r.id, r.source_id, r.file_path, r.line_number, r.name, r.title,
			r.category, r.code_context, r.content_hash, r.status,
			r.first_seen_at, r.last_seen_at, r.removed_at, src.name,
			bm25(registrations_fts, 10, 5, 3, 1) AS rank
		FROM registrations_fts
		JOIN registrations r ON r.id = registrations_fts.rowid
		JOIN sources src ON src.id = r.source_id
		WHERE registrations_fts MATCH ? AND r.status = 'active'
		ORDER BY rank LIMIT ?
	`, match, limit)
	if err != nil {
		return nil, fmt.Errorf("searching registrations: %w", err)
	}
	defer rows.Close()

	var results []domain.RegistrationResult //nolint:prealloc // size unknown from query
	for rows.Next() {
		var result domain.RegistrationResult
		var status string
		var removedAt sql.NullTime
		var rank float64
		r := &result.Registration
		if err := rows.Scan(&r.ID, &r.SourceID, &r.FilePath, &r.LineNumber, &r.Name,
			&r.Title, &r.Category, &r.CodeContext, &r.ContentHash, &status,
			&r.FirstSeenAt, &r.LastSeenAt, &removedAt, &result.SourceName, &rank); err != nil {
			return nil, fmt.Errorf("scanning registration: %w", err)
		}
		r.Status = domain.Status(status)
		r.RemovedAt = timePtr(removedAt)
		result.Score = -rank
		results = append(results, result)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating registration results: %w", err)
	}
	return results, nil
}

// SearchAPIUsages matches the dotted namespace/method names.
func (s *searchStore) SearchAPIUsages(ctx context.Context, query string, limit int) ([]domain.APIUsageResult, error) {
	match := ftsQuery(query)
	if match == "" {
		return nil, nil
	}
	match = "{name} : " + match

	rows, err := s.store.db.QueryContext(ctx, `
		SELECT u.id, u.source_id, u.file_path, u.line_number, u.namespace, u.method,
			u.code_context, u.content_hash, u.status,
			u.first_seen_at, u.last_seen_at, u.removed_at, src.name,
			bm25(api_usages_fts, 10, 1) AS rank
		FROM api_usages_fts
		JOIN api_usages u ON u.id = api_usages_fts.rowid
		JOIN sources src ON src.id = u.source_id
		WHERE api_usages_fts MATCH ? AND u.status = 'active'
		ORDER BY rank LIMIT ?
	`, match, limit)
	if err != nil {
		return nil, fmt.Errorf("searching api usages: %w", err)
	}
	defer rows.Close()

	var results []domain.APIUsageResult //nolint:prealloc // size unknown from query
	for rows.Next() {
		var result domain.APIUsageResult
		var status string
		var removedAt sql.NullTime
		var rank float64
		u := &result.Usage
		if err := rows.Scan(&u.ID, &u.SourceID, &u.FilePath, &u.LineNumber, &u.Namespace,
			&u.Method, &u.CodeContext, &u.ContentHash, &status,
			&u.FirstSeenAt, &u.LastSeenAt, &removedAt, &result.SourceName, &rank); err != nil {
			return nil, fmt.Errorf("scanning api usage: %w", err)
		}
		u.Status = domain.Status(status)
		u.RemovedAt = timePtr(removedAt)
		result.Score = -rank
		results = append(results, result)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating api usage results: %w", err)
	}
	return results, nil
}

// SearchDocs runs a ranked query over documentation pages.
func (s *searchStore) SearchDocs(ctx context.Context, query string, limit int) ([]domain.DocResult, error) {
	match := ftsQuery(query)
	if match == "" {
		return nil, nil
	}

	rows, err := s.store.db.QueryContext(ctx, `
		SELECT p.id, p.source_id, p.file_path, p.title, p.category, p.subcategory,
			p.summary, p.code_samples, p.metadata, p.content_hash, p.status,
			p.first_seen_at, p.last_seen_at, p.removed_at, src.name,
			bm25(doc_pages_fts, 10, 4, 3, 2, 1) AS rank
		FROM doc_pages_fts
		JOIN doc_pages p ON p.id = doc_pages_fts.rowid
		JOIN sources src ON src.id = p.source_id
		WHERE doc_pages_fts MATCH ? AND p.status = 'active'
		ORDER BY rank LIMIT ?
	`, match, limit)
	if err != nil {
		return nil, fmt.Errorf("searching docs: %w", err)
	}
	defer rows.Close()

	var results []domain.DocResult //nolint:prealloc // size unknown from query
	for rows.Next() {
		var result domain.DocResult
		var status, samplesJSON, metadataJSON string
		var removedAt sql.NullTime
		var rank float64
		p := &result.Page
		if err := rows.Scan(&p.ID, &p.SourceID, &p.FilePath, &p.Title, &p.Category,
			&p.Subcategory, &p.Summary, &samplesJSON, &metadataJSON, &p.ContentHash,
			&status, &p.FirstSeenAt, &p.LastSeenAt, &removedAt, &result.SourceName, &rank); err != nil {
			return nil, fmt.Errorf("scanning doc page: %w", err)
		}
		if err := json.Unmarshal([]byte(samplesJSON), &p.CodeSamples); err != nil {
			return nil, fmt.Errorf("unmarshaling code samples: %w", err)
		}
		if err := json.Unmarshal([]byte(metadataJSON), &p.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshaling metadata: %w", err)
		}
		p.Status = domain.Status(status)
		p.RemovedAt = timePtr(removedAt)
		result.Score = -rank
		results = append(results, result)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating doc results: %w", err)
	}
	return results, nil
}

// Validate checks a candidate hook name exactly. Fuzzy suggestions are
// best-effort; an error while computing them degrades to an empty list,
// never to a failed validation.
func (s *searchStore) Validate(ctx context.Context, name string) (*domain.ValidationResult, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT h.file_path, h.line_number, h.kind, h.status, h.removed_at, src.name
		FROM hooks h
		JOIN sources src ON src.id = h.source_id
		WHERE h.name = ?
		ORDER BY src.name, h.file_path, h.line_number
	`, name)
	if err != nil {
		return nil, fmt.Errorf("validating hook name: %w", err)
	}
	defer rows.Close()

	result := &domain.ValidationResult{Name: name, Status: domain.ValidationNotFound}
	var removedLocations []domain.Location
	var latestRemoved sql.NullTime

	for rows.Next() {
		var loc domain.Location
		var kind, status string
		var removedAt sql.NullTime
		if err := rows.Scan(&loc.FilePath, &loc.LineNumber, &kind, &status, &removedAt, &loc.SourceName); err != nil {
			return nil, fmt.Errorf("scanning hook location: %w", err)
		}
		loc.Kind = domain.HookKind(kind)

		if domain.Status(status) == domain.StatusActive {
			result.Locations = append(result.Locations, loc)
		} else {
			removedLocations = append(removedLocations, loc)
			if removedAt.Valid && (!latestRemoved.Valid || removedAt.Time.After(latestRemoved.Time)) {
				latestRemoved = removedAt
			}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating hook locations: %w", err)
	}

	switch {
	case len(result.Locations) > 0:
		result.Status = domain.ValidationValid
	case len(removedLocations) > 0:
		result.Status = domain.ValidationRemoved
		result.Locations = removedLocations
		result.RemovedAt = timePtr(latestRemoved)
	default:
		result.Suggestions = s.suggest(ctx, name)
	}
	return result, nil
}

// suggest searches for hooks sharing word fragments with the unknown
// name.
func (s *searchStore) suggest(ctx context.Context, name string) []domain.SearchResult {
	terms := fragmentTerms(name)
	if len(terms) == 0 {
		return nil
	}
	for i, term := range terms {
		terms[i] = `"` + term + `"*`
	}
	match := strings.Join(terms, " OR ")

	results, err := s.runHookMatch(ctx, match, domain.SearchOptions{Limit: maxSuggestions})
	if err != nil {
		logger.Debug("suggestion search failed: %v", err)
		return nil
	}
	return results
}

// Lookup fetches one hook by numeric id or exact name.
func (s *searchStore) Lookup(ctx context.Context, idOrName string) (*domain.Hook, string, error) {
	base := `
		SELECT ` + hookColumns + `, src.name
		FROM hooks h
		JOIN sources src ON src.id = h.source_id
	`

	if isAllDigits(idOrName) {
		row := s.store.db.QueryRowContext(ctx, base+" WHERE h.id = ?", idOrName)
		return scanHookRow(row)
	}

	// Most recently seen active declaration wins; a name that only
	// survives as removed history is still returned.
	row := s.store.db.QueryRowContext(ctx,
		base+` WHERE h.name = ? AND h.status = 'active' ORDER BY h.last_seen_at DESC, h.id DESC LIMIT 1`,
		idOrName)
	hook, sourceName, err := scanHookRow(row)
	if errors.Is(err, domain.ErrNotFound) {
		row = s.store.db.QueryRowContext(ctx,
			base+` WHERE h.name = ? ORDER BY h.last_seen_at DESC, h.id DESC LIMIT 1`, idOrName)
		return scanHookRow(row)
	}
	return hook, sourceName, err
}

// Stats aggregates index-wide counts.
func (s *searchStore) Stats(ctx context.Context) (*domain.IndexStats, error) {
	stats := &domain.IndexStats{
		HooksByKind:   map[string]int{},
		HooksBySource: map[string]int{},
	}

	counts := []struct {
		query string
		dest  *int
	}{
		{"SELECT COUNT(*) FROM sources", &stats.Sources},
		{"SELECT COUNT(*) FROM hooks WHERE status = 'active'", &stats.Hooks},
		{"SELECT COUNT(*) FROM hooks WHERE status = 'removed'", &stats.HooksRemoved},
		{"SELECT COUNT(*) FROM registrations WHERE status = 'active'", &stats.Registrations},
		{"SELECT COUNT(*) FROM api_usages WHERE status = 'active'", &stats.APIUsages},
		{"SELECT COUNT(*) FROM doc_pages WHERE status = 'active'", &stats.DocPages},
	}
	for _, c := range counts {
		if err := s.store.db.QueryRowContext(ctx, c.query).Scan(c.dest); err != nil {
			return nil, fmt.Errorf("counting records: %w", err)
		}
	}

	rows, err := s.store.db.QueryContext(ctx,
		"SELECT kind, COUNT(*) FROM hooks WHERE status = 'active' GROUP BY kind")
	if err != nil {
		return nil, fmt.Errorf("counting hooks by kind: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var kind string
		var count int
		if err := rows.Scan(&kind, &count); err != nil {
			return nil, fmt.Errorf("scanning kind count: %w", err)
		}
		stats.HooksByKind[kind] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating kind counts: %w", err)
	}

	srcRows, err := s.store.db.QueryContext(ctx, `
		SELECT src.name, COUNT(*) FROM hooks h
		JOIN sources src ON src.id = h.source_id
		WHERE h.status = 'active' GROUP BY src.name
	`)
	if err != nil {
		return nil, fmt.Errorf("counting hooks by source: %w", err)
	}
	defer srcRows.Close()
	for srcRows.Next() {
		var name string
		var count int
		if err := srcRows.Scan(&name, &count); err != nil {
			return nil, fmt.Errorf("scanning source count: %w", err)
		}
		stats.HooksBySource[name] = count
	}
	if err := srcRows.Err(); err != nil {
		return nil, fmt.Errorf("iterating source counts: %w", err)
	}

	return stats, nil
}

// RebuildFTS drops and repopulates every shadow search table from its
// primary table in one transaction.
func (s *searchStore) RebuildFTS(ctx context.Context) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	rebuilds := []string{
		"DELETE FROM hooks_fts",
		`INSERT INTO hooks_fts (rowid, name, kind, doc_comment, description, code_context)
			SELECT id, name, kind, doc_comment, description, code_context FROM hooks`,
		"DELETE FROM registrations_fts",
		`INSERT INTO registrations_fts (rowid, name, title, category, code_context)
			SELECT id, name, title, category, code_context FROM registrations`,
		"DELETE FROM api_usages_fts",
		`INSERT INTO api_usages_fts (rowid, name, code_context)
			SELECT id, namespace || '.' || method, code_context FROM api_usages`,
		"DELETE FROM doc_pages_fts",
	}
	for _, q := range rebuilds {
		if _, err := tx.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("rebuilding search tables: %w", err)
		}
	}
	if err := rebuildDocPagesFTS(ctx, tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing rebuild: %w", err)
	}
	return nil
}

// rebuildDocPagesFTS repopulates the doc shadow table row by row. The
// primary table stores code samples as JSON; the searchable rendering is
// the newline-joined samples, matching the incremental write path.
func rebuildDocPagesFTS(ctx context.Context, tx *sql.Tx) error {
	rows, err := tx.QueryContext(ctx,
		"SELECT id, title, category, subcategory, summary, code_samples FROM doc_pages")
	if err != nil {
		return fmt.Errorf("reading doc pages: %w", err)
	}
	defer rows.Close()

	type pageRow struct {
		id          int64
		title       string
		category    string
		subcategory string
		summary     string
		samples     string
	}
	var pages []pageRow
	for rows.Next() {
		var p pageRow
		if err := rows.Scan(&p.id, &p.title, &p.category, &p.subcategory, &p.summary, &p.samples); err != nil {
			return fmt.Errorf("scanning doc page: %w", err)
		}
		pages = append(pages, p)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating doc pages: %w", err)
	}

	for _, p := range pages {
		var samples []string
		if p.samples != "" {
			if err := json.Unmarshal([]byte(p.samples), &samples); err != nil {
				return fmt.Errorf("decoding code samples: %w", err)
			}
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO doc_pages_fts (rowid, title, category, subcategory, summary, code_samples)
			VALUES (?, ?, ?, ?, ?, ?)
		`, p.id, p.title, p.category, p.subcategory, p.summary, strings.Join(samples, "\n"))
		if err != nil {
			return fmt.Errorf("rewriting doc search row: %w", err)
		}
	}
	return nil
}

// ftsQuery sanitises user input into an FTS5 prefix query. Everything
// outside [A-Za-z0-9_] splits terms, terms get a prefix star and are
// implicitly ANDed. An empty result means "match nothing".
func ftsQuery(query string) string {
	var b strings.Builder
	for _, r := range query {
		if r == '_' ||
			(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte(' ')
		}
	}

	terms := strings.Fields(b.String())
	if len(terms) == 0 {
		return ""
	}
	// Quoting keeps words like AND or NOT from being read as operators.
	for i, term := range terms {
		terms[i] = `"` + term + `"*`
	}
	return strings.Join(terms, " ")
}

// fragmentTerms splits a hook name into prefix-search fragments for the
// fuzzy suggestion query. Short fragments are dropped as noise.
func fragmentTerms(name string) []string {
	raw := strings.FieldsFunc(name, func(r rune) bool {
		return !(r >= 'a' && r <= 'z') && !(r >= 'A' && r <= 'Z') && !(r >= '0' && r <= '9')
	})
	var terms []string
	for _, frag := range raw {
		if len(frag) >= 3 {
			terms = append(terms, frag)
		}
	}
	return terms
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// hookScanDest returns scan destinations for the hookColumns list. The
// params JSON, status and removed_at need post-processing, handled by
// scanHookInto / scanHookRow.
func hookScanDest(h *domain.Hook) []any {
	return []any{
		&h.ID, &h.SourceID, &h.FilePath, &h.LineNumber, &h.Name, new(string),
		new(string), &h.ParamCount, &h.DocComment, &h.EnclosingScope, &h.CodeContext,
		&h.Description, &h.IsDynamic, &h.ContentHash, new(string),
		&h.FirstSeenAt, &h.LastSeenAt, new(sql.NullTime),
	}
}

// scanHookInto finishes a hook scan started with hookScanDest.
func scanHookInto(rows *sql.Rows, h *domain.Hook, dest []any) error {
	if err := rows.Scan(dest...); err != nil {
		return fmt.Errorf("scanning hook: %w", err)
	}
	return finishHook(h, dest)
}

// scanHookRow scans one hook plus source name from a single-row query.
func scanHookRow(row *sql.Row) (*domain.Hook, string, error) {
	var h domain.Hook
	var sourceName string
	dest := hookScanDest(&h)
	dest = append(dest, &sourceName)
	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", domain.ErrNotFound
		}
		return nil, "", fmt.Errorf("scanning hook: %w", err)
	}
	if err := finishHook(&h, dest); err != nil {
		return nil, "", err
	}
	return &h, sourceName, nil
}

// finishHook decodes the indirect fields captured by hookScanDest.
func finishHook(h *domain.Hook, dest []any) error {
	kind := dest[5].(*string)
	paramsJSON := dest[6].(*string)
	status := dest[14].(*string)
	removedAt := dest[17].(*sql.NullTime)

	h.Kind = domain.HookKind(*kind)
	h.Status = domain.Status(*status)
	h.RemovedAt = timePtr(*removedAt)
	if err := json.Unmarshal([]byte(*paramsJSON), &h.Params); err != nil {
		return fmt.Errorf("unmarshaling params: %w", err)
	}
	return nil
}

package sqlite

import (
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/hookdex-labs/hookdex-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/hookdex-labs/hookdex-cli/internal/core/ports/driven"
)

// Store is a unified SQLite-based storage that provides access to all
// index store interfaces through wrapper types.
type Store struct {
	db      *sql.DB
	path    string
	weights Weights
}

// Weights are the bm25 column weights for hook search ranking. The
// declared name always outranks surrounding context.
type Weights struct {
	Name        float64
	Kind        float64
	Doc         float64
	Description float64
	Context     float64
}

// DefaultWeights returns the standard ranking weights.
func DefaultWeights() Weights {
	return Weights{Name: 10, Kind: 4, Doc: 3, Description: 2, Context: 1}
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.hookdex/data/index.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".hookdex", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "index.db")

	// WAL mode keeps searches readable during indexing runs.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:      db,
		path:    dbPath,
		weights: DefaultWeights(),
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// SetWeights overrides the default ranking weights. Zero-valued fields
// keep their defaults so a partial configuration stays sane.
func (s *Store) SetWeights(w Weights) {
	def := DefaultWeights()
	if w.Name > 0 {
		s.weights.Name = w.Name
	} else {
		s.weights.Name = def.Name
	}
	if w.Kind > 0 {
		s.weights.Kind = w.Kind
	} else {
		s.weights.Kind = def.Kind
	}
	if w.Doc > 0 {
		s.weights.Doc = w.Doc
	} else {
		s.weights.Doc = def.Doc
	}
	if w.Description > 0 {
		s.weights.Description = w.Description
	} else {
		s.weights.Description = def.Description
	}
	if w.Context > 0 {
		s.weights.Context = w.Context
	} else {
		s.weights.Context = def.Context
	}
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// SourceStore returns a SourceStore interface backed by this store.
func (s *Store) SourceStore() driven.SourceStore {
	return &sourceStore{store: s}
}

// DeclarationStore returns a DeclarationStore interface backed by this store.
func (s *Store) DeclarationStore() driven.DeclarationStore {
	return &declarationStore{store: s}
}

// DocPageStore returns a DocPageStore interface backed by this store.
func (s *Store) DocPageStore() driven.DocPageStore {
	return &docPageStore{store: s}
}

// FileCacheStore returns a FileCacheStore interface backed by this store.
func (s *Store) FileCacheStore() driven.FileCacheStore {
	return &fileCacheStore{store: s}
}

// SearchStore returns a SearchStore interface backed by this store.
func (s *Store) SearchStore() driven.SearchStore {
	return &searchStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}

		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(
			"INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// timePtr maps a scanned NullTime back to a *time.Time.
func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

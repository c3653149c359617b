package domain

import "time"

// ContentType discriminates what an indexed source contains.
type ContentType string

const (
	// ContentCode marks a source holding scannable plugin code.
	ContentCode ContentType = "code"

	// ContentDocs marks a source holding narrative documentation.
	ContentDocs ContentType = "documentation"
)

// Known source types.
const (
	// SourceTypeLocal reads files from a directory on disk.
	SourceTypeLocal = "local"

	// SourceTypeGitHub downloads a repository archive from GitHub.
	SourceTypeGitHub = "github"
)

// Source represents a registered origin of files to index.
// Each source is fetched to a local directory by a fetcher matching its
// Type and owns every declaration, doc page and file-cache row extracted
// from it (removal cascades).
type Source struct {
	// ID is the unique identifier for the source.
	ID string

	// Type identifies the fetcher type (e.g. "local", "github").
	Type string

	// Name is the unique, human-readable name for this source.
	// All CLI and MCP operations refer to sources by name.
	Name string

	// Config contains fetcher-specific configuration.
	// local: "path". github: "repo" (owner/name), optional "ref",
	// optional "subfolder".
	Config map[string]string

	// ContentType selects the extraction pipeline: code sources run the
	// declaration engines, documentation sources run the doc parsers.
	ContentType ContentType

	// Enabled controls whether indexing runs pick the source up.
	Enabled bool

	// CreatedAt is when the source was registered.
	CreatedAt time.Time

	// UpdatedAt is when the source was last updated.
	UpdatedAt time.Time
}

// IndexedFile is the per-file change-detection cache row.
// A file whose modification time matches is skipped outright; a touched
// file whose content hash matches is skipped with the mtime refreshed.
type IndexedFile struct {
	SourceID    string
	FilePath    string
	ModTime     time.Time
	ContentHash string
	ScannedAt   time.Time
}

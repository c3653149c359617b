package scan

import (
	"path/filepath"
	"strings"

	"github.com/hookdex-labs/hookdex-cli/internal/core/domain"
)

// Result is the ordered output of scanning one file. Records appear in
// the order their call sites occur in the text, which together with the
// content hashing makes repeated scans of identical input byte-stable.
type Result struct {
	Hooks         []domain.Hook
	Registrations []domain.Registration
	APIUsages     []domain.APIUsage
}

// Engine extracts declarations from one source dialect. Scan never
// returns an error: malformed call sites are dropped, malformed files
// simply yield fewer records.
type Engine interface {
	// Name identifies the dialect ("php", "js").
	Name() string

	// Extensions lists the file extensions the engine handles,
	// lowercase with leading dot.
	Extensions() []string

	// Scan extracts every declaration from the file content.
	Scan(path string, content []byte) *Result
}

var engines = []Engine{
	NewPHPEngine(),
	NewJSEngine(),
}

// ForFile returns the engine responsible for a file path, if any.
func ForFile(path string) (Engine, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range engines {
		for _, known := range e.Extensions() {
			if ext == known {
				return e, true
			}
		}
	}
	return nil, false
}

// CodeExtensions returns every extension any engine handles.
func CodeExtensions() []string {
	var exts []string
	for _, e := range engines {
		exts = append(exts, e.Extensions()...)
	}
	return exts
}

// splitLines splits file content for the context helpers. A single
// pre-split per file is shared by every extracted record.
func splitLines(content string) []string {
	return strings.Split(content, "\n")
}

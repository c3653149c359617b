package docparse

import (
	"path/filepath"
	"strings"
)

// Handler parses one family of documentation files.
type Handler interface {
	// Name identifies the handler in logs.
	Name() string

	// CanHandle reports whether this handler wants the file. Paths are
	// relative to the source root and use forward slashes.
	CanHandle(path string) bool

	// Parse extracts a page from the file content. The returned page
	// has no source or status fields set; the caller owns those.
	Parse(path string, content []byte) (*Page, error)
}

// Page is the handler output before it is bound to a source.
type Page struct {
	Title       string
	Category    string
	Subcategory string
	Summary     string
	CodeSamples []string
	Metadata    map[string]string
}

// Registry dispatches files to handlers in registration order.
type Registry struct {
	handlers []Handler
}

// NewRegistry returns a registry with the built-in handlers. The
// markdown fallback is registered last so it only sees files nothing
// else claimed.
func NewRegistry() *Registry {
	return &Registry{handlers: []Handler{
		newReadmeHandler(),
		newMarkdownHandler(),
	}}
}

// Register inserts a handler ahead of the built-ins so it is consulted
// first.
func (r *Registry) Register(h Handler) {
	r.handlers = append([]Handler{h}, r.handlers...)
}

// ForFile returns the first handler that claims the path.
func (r *Registry) ForFile(path string) (Handler, bool) {
	for _, h := range r.handlers {
		if h.CanHandle(path) {
			return h, true
		}
	}
	return nil, false
}

func normalisePath(path string) string {
	return strings.ToLower(filepath.ToSlash(path))
}

func hasMarkdownExt(path string) bool {
	switch filepath.Ext(normalisePath(path)) {
	case ".md", ".markdown", ".mdx":
		return true
	}
	return false
}

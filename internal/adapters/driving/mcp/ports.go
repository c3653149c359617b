package mcp

import (
	"github.com/hookdex-labs/hookdex-cli/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces required by the MCP
// server. This provides a single injection point.
type Ports struct {
	// Search answers search, lookup, and validation queries.
	Search driving.SearchService

	// Source manages source registrations.
	Source driving.SourceService

	// Index triggers indexing runs.
	Index driving.IndexService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Search == nil {
		return ErrMissingSearchService
	}
	// Source and Index are optional; their tools and resources degrade
	// gracefully when absent.
	return nil
}

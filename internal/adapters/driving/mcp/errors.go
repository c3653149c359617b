// Package mcp provides an MCP (Model Context Protocol) server adapter
// for hookdex. It lets AI assistants search and validate hooks against
// the local index.
package mcp

import "errors"

// ErrMissingSearchService is returned when the search service is not provided.
var ErrMissingSearchService = errors.New("mcp: search service is required")

// Package driving defines the interfaces the CLI and MCP adapters call
// into the core services through.
package driving

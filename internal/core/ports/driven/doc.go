// Package driven defines the interfaces the core services depend on:
// persistence stores, the search index, and the source fetch layer.
// Adapters under internal/adapters/driven implement them.
package driven

// Package sqlite provides a unified SQLite-backed implementation of the
// driven storage ports.
//
// The adapter uses modernc.org/sqlite, a pure Go SQLite build that needs
// no CGO. A single database connection serves every store interface:
//
//   - SourceStore: source registrations
//   - DeclarationStore: hooks, component registrations, API usages
//   - DocPageStore: documentation pages
//   - FileCacheStore: per-file change detection
//   - SearchStore: ranked FTS5 search, validation, stats
//
// # Schema
//
// The schema is managed through versioned .up.sql migrations embedded in
// the migrations/ directory. Each extracted-record table has a shadow
// FTS5 table whose rowids mirror the primary ids; shadow rows are
// maintained in the same transaction as the primary write, and
// RebuildFTS can repopulate them from scratch.
//
// # Data Location
//
// By default the database lives at ~/.hookdex/data/index.db.
//
// # Thread Safety
//
// All operations are safe for concurrent use. SQLite runs in WAL mode,
// so searches remain readable while an indexing run writes.
package sqlite

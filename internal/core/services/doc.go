// Package services implements the core use cases behind the driving
// ports: source management, incremental indexing and search.
package services

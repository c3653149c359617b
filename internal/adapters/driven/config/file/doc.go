// Package file loads and persists the TOML configuration file that
// controls the data directory, GitHub authentication, and search
// ranking weights.
package file

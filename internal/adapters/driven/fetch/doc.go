// Package fetch materialises registered sources as local directories.
//
// A local source is used in place; a GitHub source is downloaded as a
// repository tarball and extracted under the data directory, with the
// previous extraction kept as a fallback for transient failures.
package fetch

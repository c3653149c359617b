// Package scan contains the declaration extraction engines and the
// text-scanning primitives they share: line/offset math, code windows,
// doc-comment and enclosing-scope heuristics, and a bracket- and
// string-aware balanced-span scanner.
//
// Engines are deliberately lexical. They never build an AST and never
// fail on malformed input: a call site whose argument span cannot be
// balanced within the scan bound is dropped silently.
package scan

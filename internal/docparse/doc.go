// Package docparse turns documentation files into indexable pages.
//
// Parsing is capability-dispatched: handlers are tried in registration
// order and the first one that claims a file wins, so specialised
// handlers (READMEs) sit in front of the universal markdown fallback.
package docparse

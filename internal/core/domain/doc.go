// Package domain contains the core entities of the hookdex index:
// sources, extracted declarations (hooks, registrations, API usages),
// documentation pages, and the search/validation result types exchanged
// between the service layer and its adapters.
package domain

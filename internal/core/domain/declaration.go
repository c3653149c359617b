package domain

import "time"

// Status is the lifecycle state of an indexed record.
type Status string

const (
	// StatusActive marks a record present in the latest scan of its file.
	StatusActive Status = "active"

	// StatusRemoved marks a record absent from the latest scan. Removed
	// records are kept for history and for REMOVED validation answers.
	StatusRemoved Status = "removed"
)

// HookKind classifies a hook declaration call site.
type HookKind string

const (
	KindAction         HookKind = "action"
	KindFilter         HookKind = "filter"
	KindActionRefArray HookKind = "action_ref_array"
	KindFilterRefArray HookKind = "filter_ref_array"
)

// DynamicPlaceholder substitutes every non-literal segment of a hook
// name built from concatenation or interpolation.
const DynamicPlaceholder = "{dynamic}"

// Hook is one extracted hook declaration call site.
// Natural key: (source, file path, line number, name).
type Hook struct {
	ID         int64
	SourceID   string
	FilePath   string
	LineNumber int

	// Name is the declared hook name. Dynamic segments are rendered as
	// DynamicPlaceholder, e.g. "save_post_{dynamic}".
	Name string

	Kind       HookKind
	Params     []string
	ParamCount int

	// DocComment is the comment block immediately above the call site,
	// when one exists within the lookback window.
	DocComment string

	// EnclosingScope is the innermost function or class the call site
	// sits in, empty at top level.
	EnclosingScope string

	// CodeContext is the fixed-size window of lines around the call.
	CodeContext string

	// Description is a short human-readable summary assembled from the
	// classified fields.
	Description string

	IsDynamic bool

	// ContentHash covers the semantically meaningful fields only, so an
	// unchanged declaration never reports as updated.
	ContentHash string

	Status      Status
	FirstSeenAt time.Time
	LastSeenAt  time.Time
	RemovedAt   *time.Time
}

// Registration is one extracted component registration call site, e.g. a
// block registered with a settings object. Auxiliary record kind: shares
// the hook scanner machinery but carries no dynamic-name classification.
type Registration struct {
	ID         int64
	SourceID   string
	FilePath   string
	LineNumber int

	// Name is the registered component identifier.
	Name string

	// Title and Category come from the settings object's string
	// properties when present.
	Title    string
	Category string

	CodeContext string
	ContentHash string

	Status      Status
	FirstSeenAt time.Time
	LastSeenAt  time.Time
	RemovedAt   *time.Time
}

// APIUsage is one extracted client-API call site on a dotted namespace.
type APIUsage struct {
	ID         int64
	SourceID   string
	FilePath   string
	LineNumber int

	// Namespace and Method identify the call, e.g. "wp.data" / "select".
	Namespace string
	Method    string

	CodeContext string
	ContentHash string

	Status      Status
	FirstSeenAt time.Time
	LastSeenAt  time.Time
	RemovedAt   *time.Time
}

// Name returns the dotted form used for search and display.
func (u *APIUsage) Name() string {
	return u.Namespace + "." + u.Method
}

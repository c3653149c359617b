package scan

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/hookdex-labs/hookdex-cli/internal/core/domain"
)

// Code window defaults for hook declarations.
const (
	hookWindowBefore = 8
	hookWindowAfter  = 4

	// docLookback bounds the upward doc-comment scan so an unrelated
	// comment further up the file is never attached to a declaration.
	docLookback = 5
)

// hookCallRe locates hook declaration keywords and their opening
// parenthesis. Longer keywords come first so the _ref_array forms are
// not shadowed by their prefixes.
var hookCallRe = regexp.MustCompile(
	`\b(do_action_ref_array|apply_filters_ref_array|do_action|apply_filters)\s*\(`)

var hookKinds = map[string]domain.HookKind{
	"do_action":               domain.KindAction,
	"apply_filters":           domain.KindFilter,
	"do_action_ref_array":     domain.KindActionRefArray,
	"apply_filters_ref_array": domain.KindFilterRefArray,
}

// phpScopeRe matches PHP scope headers: named functions and classes.
var phpScopeRe = regexp.MustCompile(
	`\bfunction\s+&?([A-Za-z_]\w*)\s*\(|\b(?:class|trait|interface)\s+([A-Za-z_]\w*)`)

// PHPEngine extracts action and filter hook declarations from PHP.
type PHPEngine struct{}

// NewPHPEngine creates the PHP hook extraction engine.
func NewPHPEngine() *PHPEngine {
	return &PHPEngine{}
}

// Name identifies the dialect.
func (e *PHPEngine) Name() string { return "php" }

// Extensions lists the file extensions the engine handles.
func (e *PHPEngine) Extensions() []string { return []string{".php"} }

// Scan extracts every hook declaration from the file content.
// Output order follows call-site order in the text.
func (e *PHPEngine) Scan(path string, content []byte) *Result {
	text := string(content)
	lines := splitLines(text)
	res := &Result{}

	for _, m := range hookCallRe.FindAllStringSubmatchIndex(text, -1) {
		keyword := text[m[2]:m[3]]
		kind := hookKinds[keyword]

		span, ok := balancedSpan(text, m[1], phpDialect)
		if !ok {
			continue
		}
		args := splitArgs(span, phpDialect)
		if len(args) == 0 {
			continue
		}

		name, dynamic, err := classifyName(args[0])
		if err != nil {
			continue
		}

		params := args[1:]
		lineNo := LineNumber(text, m[0])
		idx := lineNo - 1

		scope := EnclosingScope(lines, idx, phpScopeRe)
		hook := domain.Hook{
			FilePath:       path,
			LineNumber:     lineNo,
			Name:           name,
			Kind:           kind,
			Params:         params,
			ParamCount:     len(params),
			DocComment:     DocComment(lines, idx, docLookback),
			EnclosingScope: scope,
			CodeContext:    CodeWindow(lines, idx, hookWindowBefore, hookWindowAfter),
			IsDynamic:      dynamic,
		}
		hook.Description = describeHook(&hook)
		hook.ContentHash = ContentHash(
			hook.Name,
			string(hook.Kind),
			strings.Join(hook.Params, ","),
			hook.DocComment,
			lines[idx],
		)
		res.Hooks = append(res.Hooks, hook)
	}

	return res
}

// describeHook assembles a human-readable summary from the classified fields.
func describeHook(h *domain.Hook) string {
	label := "Action hook"
	if h.Kind == domain.KindFilter || h.Kind == domain.KindFilterRefArray {
		label = "Filter hook"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %q", label, h.Name)
	if h.IsDynamic {
		b.WriteString(" (dynamic name)")
	}
	if h.EnclosingScope != "" {
		fmt.Fprintf(&b, " declared in %s", h.EnclosingScope)
	}
	fmt.Fprintf(&b, " with %d argument(s)", h.ParamCount)
	return b.String()
}

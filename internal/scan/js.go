package scan

import (
	"regexp"
	"strings"

	"github.com/hookdex-labs/hookdex-cli/internal/core/domain"
)

// Code window defaults for the auxiliary record kinds.
const (
	regWindowBefore = 10
	regWindowAfter  = 10

	usageWindowBefore = 3
	usageWindowAfter  = 3
)

// registrationCallRe locates component registration call sites.
var registrationCallRe = regexp.MustCompile(
	`\b(registerBlockType|registerPlugin|registerStore)\s*\(`)

// apiUsageRe locates two-segment client-API call sites such as
// wp.data.select(...) or wp.hooks.addAction(...). Bare namespace calls
// like wp.apiFetch(...) carry no method segment and are not usages.
var apiUsageRe = regexp.MustCompile(
	`\bwp\.([A-Za-z_$][\w$]*)\.([A-Za-z_$][\w$]*)\s*\(`)

// JSEngine extracts component registrations and client-API usages from
// JavaScript and TypeScript. Both are auxiliary record kinds: they share
// the balanced-span scanner with the hook engine but carry no
// dynamic-name classification, so a non-literal name drops the record.
type JSEngine struct{}

// NewJSEngine creates the JavaScript extraction engine.
func NewJSEngine() *JSEngine {
	return &JSEngine{}
}

// Name identifies the dialect.
func (e *JSEngine) Name() string { return "js" }

// Extensions lists the file extensions the engine handles.
func (e *JSEngine) Extensions() []string {
	return []string{".js", ".jsx", ".ts", ".tsx"}
}

// Scan extracts registrations and API usages from the file content.
func (e *JSEngine) Scan(path string, content []byte) *Result {
	text := string(content)
	lines := splitLines(text)
	res := &Result{}

	for _, m := range registrationCallRe.FindAllStringSubmatchIndex(text, -1) {
		span, ok := balancedSpan(text, m[1], jsDialect)
		if !ok {
			continue
		}
		args := splitArgs(span, jsDialect)
		if len(args) == 0 {
			continue
		}

		name, ok := quotedLiteral(args[0])
		if !ok || name == "" {
			continue
		}

		lineNo := LineNumber(text, m[0])
		idx := lineNo - 1

		reg := domain.Registration{
			FilePath:    path,
			LineNumber:  lineNo,
			Name:        name,
			CodeContext: CodeWindow(lines, idx, regWindowBefore, regWindowAfter),
		}
		if len(args) > 1 {
			reg.Title, reg.Category = settingsProperties(args[1])
		}
		reg.ContentHash = ContentHash(reg.Name, reg.Title, reg.Category, lines[idx])
		res.Registrations = append(res.Registrations, reg)
	}

	for _, m := range apiUsageRe.FindAllStringSubmatchIndex(text, -1) {
		lineNo := LineNumber(text, m[0])
		idx := lineNo - 1

		usage := domain.APIUsage{
			FilePath:    path,
			LineNumber:  lineNo,
			Namespace:   "wp." + text[m[2]:m[3]],
			Method:      text[m[4]:m[5]],
			CodeContext: CodeWindow(lines, idx, usageWindowBefore, usageWindowAfter),
		}
		usage.ContentHash = ContentHash(usage.Namespace, usage.Method, lines[idx])
		res.APIUsages = append(res.APIUsages, usage)
	}

	return res
}

// settingsProperties pulls the title and category string properties out
// of a settings-object argument, when present at the top level.
func settingsProperties(arg string) (title, category string) {
	arg = strings.TrimSpace(arg)
	if !strings.HasPrefix(arg, "{") || !strings.HasSuffix(arg, "}") {
		return "", ""
	}
	body := arg[1 : len(arg)-1]

	for _, prop := range splitArgs(body, jsDialect) {
		key, value, found := strings.Cut(prop, ":")
		if !found {
			continue
		}
		key = strings.Trim(strings.TrimSpace(key), `'"`)
		lit, ok := quotedLiteral(strings.TrimSpace(value))
		if !ok {
			continue
		}
		switch key {
		case "title":
			title = lit
		case "category":
			category = lit
		}
	}
	return title, category
}

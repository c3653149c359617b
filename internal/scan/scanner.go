package scan

import "strings"

// maxSpanScan bounds every balanced-span scan. Argument spans that do
// not balance within this many bytes are treated as unparseable and the
// declaration is dropped, which guards against minified or truncated
// input without ever raising an error.
const maxSpanScan = 64 * 1024

// dialect carries the per-language quirks the scanner needs to know
// about: comment markers and which string forms interpolate expressions.
type dialect struct {
	// hashComments enables '#' line comments (PHP).
	hashComments bool

	// braceInterp enables "{$expr}" interpolation inside double-quoted
	// strings (PHP).
	braceInterp bool

	// templateInterp enables "${expr}" interpolation inside backtick
	// strings (JavaScript).
	templateInterp bool
}

var (
	phpDialect = dialect{hashComments: true, braceInterp: true}
	jsDialect  = dialect{templateInterp: true}
)

// balancedSpan extracts the argument span starting at the byte after an
// opening parenthesis. It counts (), [] and {} symmetrically, delegates
// quotes to skipString so brackets inside strings and interpolations do
// not corrupt the depth count, and skips comments. Returns ok=false when
// the span does not balance within maxSpanScan bytes.
func balancedSpan(text string, start int, d dialect) (string, bool) {
	depth := 1
	limit := start + maxSpanScan
	if limit > len(text) {
		limit = len(text)
	}

	i := start
	for i < limit {
		switch c := text[i]; c {
		case '(', '[', '{':
			depth++
			i++

		case ')', ']', '}':
			depth--
			if depth == 0 {
				return text[start:i], true
			}
			i++

		case '\'', '"', '`':
			j, ok := skipString(text, i, d)
			if !ok {
				return "", false
			}
			i = j

		case '/':
			switch {
			case strings.HasPrefix(text[i:], "//"):
				i = skipLine(text, i)
			case strings.HasPrefix(text[i:], "/*"):
				end := strings.Index(text[i+2:], "*/")
				if end < 0 {
					return "", false
				}
				i += 2 + end + 2
			default:
				i++
			}

		case '#':
			if d.hashComments {
				i = skipLine(text, i)
			} else {
				i++
			}

		default:
			i++
		}
	}
	return "", false
}

// skipString advances past the string literal opening at text[i] and
// returns the index just after its closing quote. Escape sequences are
// honoured; interpolated expressions are skipped recursively so an
// embedded bracket inside an interpolation stays invisible to the
// caller's depth counting.
func skipString(text string, i int, d dialect) (int, bool) {
	q := text[i]
	limit := i + maxSpanScan
	if limit > len(text) {
		limit = len(text)
	}

	i++
	for i < limit {
		c := text[i]
		switch {
		case c == '\\':
			i += 2

		case c == q:
			return i + 1, true

		case q == '"' && d.braceInterp && c == '{' && i+1 < limit && text[i+1] == '$':
			j, ok := skipBraced(text, i, d)
			if !ok {
				return 0, false
			}
			i = j

		case q == '`' && d.templateInterp && c == '$' && i+1 < limit && text[i+1] == '{':
			j, ok := skipBraced(text, i+1, d)
			if !ok {
				return 0, false
			}
			i = j

		default:
			i++
		}
	}
	return 0, false
}

// skipBraced skips a {…} expression starting at text[i] == '{',
// honouring nested braces and nested string literals.
func skipBraced(text string, i int, d dialect) (int, bool) {
	depth := 0
	limit := i + maxSpanScan
	if limit > len(text) {
		limit = len(text)
	}

	for i < limit {
		switch text[i] {
		case '{':
			depth++
			i++
		case '}':
			depth--
			i++
			if depth == 0 {
				return i, true
			}
		case '\'', '"', '`':
			j, ok := skipString(text, i, d)
			if !ok {
				return 0, false
			}
			i = j
		case '\\':
			i += 2
		default:
			i++
		}
	}
	return 0, false
}

// splitArgs splits an argument span into its top-level comma-separated
// arguments. Commas nested inside brackets or strings do not split.
// Arguments are trimmed and empty ones dropped.
func splitArgs(span string, d dialect) []string {
	var args []string
	depth := 0
	start := 0

	i := 0
	for i < len(span) {
		switch c := span[i]; c {
		case '(', '[', '{':
			depth++
			i++
		case ')', ']', '}':
			depth--
			i++
		case '\'', '"', '`':
			j, ok := skipString(span, i, d)
			if !ok {
				// Unterminated string: treat the remainder as one argument.
				i = len(span)
				continue
			}
			i = j
		case ',':
			if depth == 0 {
				args = append(args, span[start:i])
				start = i + 1
			}
			i++
		default:
			i++
		}
	}
	args = append(args, span[start:])

	out := args[:0]
	for _, a := range args {
		a = strings.TrimSpace(a)
		if a != "" {
			out = append(out, a)
		}
	}
	return out
}

// skipLine advances to the index of the next newline (or end of text).
func skipLine(text string, i int) int {
	if nl := strings.IndexByte(text[i:], '\n'); nl >= 0 {
		return i + nl
	}
	return len(text)
}

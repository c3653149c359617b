package scan

import (
	"errors"
	"strings"

	"github.com/hookdex-labs/hookdex-cli/internal/core/domain"
)

// errUnparseableName marks a name expression the classifier cannot make
// sense of. The engine drops the declaration silently.
var errUnparseableName = errors.New("unparseable name expression")

// classifyName turns the first argument of a hook declaration into an
// indexable name. A single quoted literal yields an exact name. String
// concatenation and interpolation yield the literal segments joined with
// domain.DynamicPlaceholder substituted for each non-literal segment. A
// bare expression with no literal content yields the placeholder alone.
func classifyName(expr string) (name string, dynamic bool, err error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return "", false, errUnparseableName
	}

	var b strings.Builder
	hasLiteral := false

	for _, part := range splitConcat(expr) {
		part = strings.TrimSpace(part)
		if part == "" {
			return "", false, errUnparseableName
		}

		switch part[0] {
		case '\'':
			lit, ok := parseSingleQuoted(part)
			if !ok {
				return "", false, errUnparseableName
			}
			b.WriteString(lit)
			if lit != "" {
				hasLiteral = true
			}

		case '"':
			lit, dyn, ok := parseDoubleQuoted(part)
			if !ok {
				return "", false, errUnparseableName
			}
			b.WriteString(lit)
			dynamic = dynamic || dyn
			if strings.ReplaceAll(lit, domain.DynamicPlaceholder, "") != "" {
				hasLiteral = true
			}

		default:
			// Variable, constant, function call: one placeholder segment.
			b.WriteString(domain.DynamicPlaceholder)
			dynamic = true
		}
	}

	if !hasLiteral {
		// No literal content anywhere: the whole expression is dynamic.
		return domain.DynamicPlaceholder, true, nil
	}

	name = b.String()
	if name == "" {
		return "", false, errUnparseableName
	}
	return name, dynamic, nil
}

// splitConcat splits a PHP expression on top-level concatenation dots.
// Dots inside strings or nested brackets do not split.
func splitConcat(expr string) []string {
	var parts []string
	depth := 0
	start := 0

	i := 0
	for i < len(expr) {
		switch c := expr[i]; c {
		case '(', '[', '{':
			depth++
			i++
		case ')', ']', '}':
			depth--
			i++
		case '\'', '"':
			j, ok := skipString(expr, i, phpDialect)
			if !ok {
				return []string{expr}
			}
			i = j
		case '-':
			// Object operator "->": never a concatenation.
			i++
			if i < len(expr) && expr[i] == '>' {
				i++
			}
		case '.':
			if depth == 0 {
				parts = append(parts, expr[start:i])
				start = i + 1
			}
			i++
		default:
			i++
		}
	}
	parts = append(parts, expr[start:])
	return parts
}

// parseSingleQuoted unescapes a complete single-quoted PHP literal.
// Trailing content after the closing quote makes the part unparseable.
func parseSingleQuoted(part string) (string, bool) {
	var b strings.Builder
	i := 1
	for i < len(part) {
		switch c := part[i]; c {
		case '\\':
			if i+1 >= len(part) {
				return "", false
			}
			next := part[i+1]
			if next == '\'' || next == '\\' {
				b.WriteByte(next)
			} else {
				b.WriteByte(c)
				b.WriteByte(next)
			}
			i += 2
		case '\'':
			return b.String(), i == len(part)-1
		default:
			b.WriteByte(c)
			i++
		}
	}
	return "", false
}

// parseDoubleQuoted renders a complete double-quoted PHP literal,
// substituting a placeholder for every interpolated expression
// ("$var", "$obj->prop", "{$expr}").
func parseDoubleQuoted(part string) (lit string, dynamic bool, ok bool) {
	var b strings.Builder
	i := 1
	for i < len(part) {
		switch c := part[i]; c {
		case '\\':
			if i+1 >= len(part) {
				return "", false, false
			}
			b.WriteByte(part[i+1])
			i += 2

		case '"':
			return b.String(), dynamic, i == len(part)-1

		case '{':
			if i+1 < len(part) && part[i+1] == '$' {
				j, bok := skipBraced(part, i, phpDialect)
				if !bok {
					return "", false, false
				}
				b.WriteString(domain.DynamicPlaceholder)
				dynamic = true
				i = j
			} else {
				b.WriteByte(c)
				i++
			}

		case '$':
			j := i + 1
			for j < len(part) && isIdentByte(part[j]) {
				j++
			}
			if j == i+1 {
				// Lone dollar sign, not an interpolation.
				b.WriteByte(c)
				i++
				continue
			}
			// Simple property access interpolates too: $obj->prop.
			if j+1 < len(part) && part[j] == '-' && part[j+1] == '>' {
				j += 2
				for j < len(part) && isIdentByte(part[j]) {
					j++
				}
			}
			b.WriteString(domain.DynamicPlaceholder)
			dynamic = true
			i = j

		default:
			b.WriteByte(c)
			i++
		}
	}
	return "", false, false
}

// quotedLiteral extracts a plain quoted literal, used by the auxiliary
// record kinds which carry no dynamic-name classification.
func quotedLiteral(expr string) (string, bool) {
	expr = strings.TrimSpace(expr)
	if len(expr) < 2 {
		return "", false
	}
	switch expr[0] {
	case '\'':
		return parseSingleQuoted(expr)
	case '"':
		lit, dynamic, ok := parseDoubleQuoted(expr)
		if !ok || dynamic {
			return "", false
		}
		return lit, true
	}
	return "", false
}

func isIdentByte(c byte) bool {
	return c == '_' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9')
}

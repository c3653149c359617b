package scan

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"
)

// LineNumber returns the 1-based line number of a byte offset into content.
func LineNumber(content string, offset int) int {
	if offset > len(content) {
		offset = len(content)
	}
	if offset < 0 {
		offset = 0
	}
	return 1 + strings.Count(content[:offset], "\n")
}

// CodeWindow joins the lines from index-before through index+after,
// clipped to the bounds of lines. Returns "" when index is out of range.
func CodeWindow(lines []string, index, before, after int) string {
	if index < 0 || index >= len(lines) {
		return ""
	}
	lo := index - before
	if lo < 0 {
		lo = 0
	}
	hi := index + after + 1
	if hi > len(lines) {
		hi = len(lines)
	}
	return strings.Join(lines[lo:hi], "\n")
}

// DocComment collects the comment block immediately above lines[index],
// scanning upward at most maxLookback lines. Blank lines between the
// declaration and the comment are tolerated; the scan stops on the first
// code line. Returns "" when no comment is found within the window.
func DocComment(lines []string, index, maxLookback int) string {
	var collected []string
	inBlock := false

	for i := index - 1; i >= 0 && index-1-i < maxLookback; i-- {
		line := strings.TrimSpace(lines[i])

		switch {
		case inBlock:
			collected = append([]string{line}, collected...)
			if strings.HasPrefix(line, "/*") {
				return strings.Join(collected, "\n")
			}

		case line == "":
			if len(collected) > 0 {
				return strings.Join(collected, "\n")
			}

		case strings.HasPrefix(line, "//") || strings.HasPrefix(line, "#"):
			collected = append([]string{line}, collected...)

		case strings.HasSuffix(line, "*/"):
			collected = append([]string{line}, collected...)
			if strings.HasPrefix(line, "/*") {
				return strings.Join(collected, "\n")
			}
			inBlock = true

		default:
			// Code line: whatever single-line comments were collected so
			// far are contiguous with the declaration, keep them.
			return strings.Join(collected, "\n")
		}
	}

	if inBlock {
		// Block comment never opened within the lookback window.
		return ""
	}
	return strings.Join(collected, "\n")
}

// EnclosingScope scans upward from lines[index] and returns the first
// submatch of header found at brace depth <= 0, i.e. the innermost
// function or class enclosing the declaration. Depth is tracked per
// physical line, with the match tested before the line's own braces are
// counted, so a fully closed sibling block above the declaration can
// never satisfy the match.
func EnclosingScope(lines []string, index int, header *regexp.Regexp) string {
	if index >= len(lines) {
		index = len(lines) - 1
	}
	depth := 0
	for i := index; i >= 0; i-- {
		line := lines[i]
		if depth <= 0 {
			if m := header.FindStringSubmatch(line); m != nil {
				for _, g := range m[1:] {
					if g != "" {
						return g
					}
				}
				return strings.TrimSpace(m[0])
			}
		}
		depth += strings.Count(line, "}")
		depth -= strings.Count(line, "{")
	}
	return ""
}

// ContentHash computes a stable hash over the semantically meaningful
// fields of a record. Volatile fields (timestamps, ids) must not be
// passed in, so an unchanged declaration never reports as updated.
func ContentHash(fields ...string) string {
	h := sha256.New()
	for i, f := range fields {
		if i > 0 {
			h.Write([]byte{0})
		}
		h.Write([]byte(f))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// FileHash hashes raw file content for the change-detection cache.
func FileHash(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

package docparse

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	summaryMaxLen  = 500
	maxCodeSamples = 10
	maxSampleLen   = 4096
)

// markdownHandler is the universal fallback for markdown files.
type markdownHandler struct{}

func newMarkdownHandler() *markdownHandler { return &markdownHandler{} }

func (h *markdownHandler) Name() string { return "markdown" }

func (h *markdownHandler) CanHandle(path string) bool {
	return hasMarkdownExt(path)
}

func (h *markdownHandler) Parse(filePath string, content []byte) (*Page, error) {
	meta, body, err := splitFrontMatter(content)
	if err != nil {
		// Malformed front matter is treated as body text rather than
		// failing the whole page.
		meta, body = nil, string(content)
	}

	page := &Page{Metadata: map[string]string{}}
	for k, v := range meta {
		page.Metadata[k] = v
	}

	page.Title = meta["title"]
	if page.Title == "" {
		page.Title = firstHeading(body)
	}
	if page.Title == "" {
		page.Title = titleFromFilename(filePath)
	}

	page.Category = meta["category"]
	page.Subcategory = meta["subcategory"]
	if page.Category == "" {
		page.Category, page.Subcategory = categoryFromPath(filePath)
	}

	page.Summary = firstParagraph(body)
	page.CodeSamples = fencedBlocks(body)
	return page, nil
}

// splitFrontMatter peels a leading YAML front matter block off the
// content. Scalar values are kept; nested structures are dropped.
func splitFrontMatter(content []byte) (map[string]string, string, error) {
	text := string(content)
	if !strings.HasPrefix(text, "---\n") && !strings.HasPrefix(text, "---\r\n") {
		return nil, text, nil
	}
	rest := text[strings.Index(text, "\n")+1:]
	end := strings.Index(rest, "\n---")
	if end < 0 {
		return nil, text, nil
	}
	block := rest[:end]
	body := rest[end+len("\n---"):]
	if i := strings.Index(body, "\n"); i >= 0 {
		body = body[i+1:]
	} else {
		body = ""
	}

	var raw map[string]any
	if err := yaml.Unmarshal([]byte(block), &raw); err != nil {
		return nil, "", fmt.Errorf("parse front matter: %w", err)
	}
	meta := make(map[string]string, len(raw))
	for k, v := range raw {
		switch val := v.(type) {
		case string:
			meta[strings.ToLower(k)] = val
		case int, int64, float64, bool:
			meta[strings.ToLower(k)] = fmt.Sprintf("%v", val)
		}
	}
	return meta, body, nil
}

// firstHeading returns the text of the first ATX heading.
func firstHeading(body string) string {
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") {
			return strings.TrimSpace(strings.TrimLeft(trimmed, "#"))
		}
	}
	return ""
}

// titleFromFilename derives a readable title from the file name.
func titleFromFilename(filePath string) string {
	base := filepath.Base(filePath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.NewReplacer("-", " ", "_", " ").Replace(base)
	return strings.TrimSpace(base)
}

// categoryFromPath maps the first two directory segments to category
// and subcategory.
func categoryFromPath(filePath string) (string, string) {
	dir := path.Dir(filepath.ToSlash(filePath))
	if dir == "." || dir == "/" {
		return "", ""
	}
	parts := strings.Split(strings.Trim(dir, "/"), "/")
	category := parts[0]
	subcategory := ""
	if len(parts) > 1 {
		subcategory = parts[1]
	}
	return category, subcategory
}

// firstParagraph returns the first run of prose lines, skipping
// headings and fenced code.
func firstParagraph(body string) string {
	var para []string
	inFence := false
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~") {
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}
		if trimmed == "" {
			if len(para) > 0 {
				break
			}
			continue
		}
		if strings.HasPrefix(trimmed, "#") {
			if len(para) > 0 {
				break
			}
			continue
		}
		para = append(para, trimmed)
	}
	summary := strings.Join(para, " ")
	if len(summary) > summaryMaxLen {
		summary = summary[:summaryMaxLen]
	}
	return summary
}

// fencedBlocks extracts fenced code blocks, bounded in count and size.
func fencedBlocks(body string) []string {
	var samples []string
	var current []string
	inFence := false
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			if inFence {
				block := strings.Join(current, "\n")
				if block != "" && len(block) <= maxSampleLen {
					samples = append(samples, block)
				}
				current = nil
				inFence = false
				if len(samples) >= maxCodeSamples {
					break
				}
			} else {
				inFence = true
			}
			continue
		}
		if inFence {
			current = append(current, line)
		}
	}
	return samples
}

package docparse

import (
	"path"
	"strings"
)

// readmeHandler claims README files anywhere in the tree and files the
// resulting page under an "overview" category.
type readmeHandler struct {
	markdown *markdownHandler
}

func newReadmeHandler() *readmeHandler {
	return &readmeHandler{markdown: newMarkdownHandler()}
}

func (h *readmeHandler) Name() string { return "readme" }

func (h *readmeHandler) CanHandle(filePath string) bool {
	base := path.Base(normalisePath(filePath))
	if !hasMarkdownExt(base) {
		return false
	}
	name := strings.TrimSuffix(base, path.Ext(base))
	return name == "readme"
}

func (h *readmeHandler) Parse(filePath string, content []byte) (*Page, error) {
	page, err := h.markdown.Parse(filePath, content)
	if err != nil {
		return nil, err
	}
	page.Category = "overview"
	if dir := path.Dir(normalisePath(filePath)); dir != "." && dir != "/" {
		parts := strings.Split(strings.Trim(dir, "/"), "/")
		page.Subcategory = parts[len(parts)-1]
	} else {
		page.Subcategory = ""
	}
	if page.Title == "" || strings.EqualFold(page.Title, "readme") {
		page.Title = "README"
	}
	return page, nil
}

package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hookdex-labs/hookdex-cli/internal/core/domain"
)

func hookResult(name string, kind domain.HookKind, score float64) domain.SearchResult {
	return domain.SearchResult{
		Hook: domain.Hook{
			Name:       name,
			Kind:       kind,
			FilePath:   "includes/post.php",
			LineNumber: 42,
			Status:     domain.StatusActive,
		},
		SourceName: "woocommerce",
		Score:      score,
	}
}

func TestSearchCmd_PrintsResults(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	fake := searchService.(*fakeSearchService)
	fake.hookResults = []domain.SearchResult{
		hookResult("save_post", domain.KindAction, 4.2),
		hookResult("save_post_meta", domain.KindAction, 2.1),
	}

	out, err := executeCommand("search", "save_post",
		"--kind", "action", "--source", "woocommerce", "--limit", "10")

	require.NoError(t, err)
	assert.Contains(t, out, "[1] save_post (action)")
	assert.Contains(t, out, "[2] save_post_meta (action)")
	assert.Contains(t, out, "woocommerce  includes/post.php:42")

	assert.Equal(t, "save_post", fake.lastQuery)
	assert.Equal(t, "action", fake.lastOpts.Kind)
	assert.Equal(t, "woocommerce", fake.lastOpts.SourceName)
	assert.Equal(t, 10, fake.lastOpts.Limit)
}

func TestSearchCmd_NoResults(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := executeCommand("search", "nothing_matches")

	require.NoError(t, err)
	assert.Contains(t, out, "No results found.")
}

func TestSearchCmd_JSON(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	searchService.(*fakeSearchService).hookResults = []domain.SearchResult{
		hookResult("the_content", domain.KindFilter, 3.0),
	}

	out, err := executeCommand("search", "content", "--json")

	require.NoError(t, err)
	assert.Contains(t, out, `"Name": "the_content"`)

	// Reset so later invocations go back to plain output.
	searchJSON = false
}

func TestSearchCmd_RemovedMarker(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	removed := hookResult("old_hook", domain.KindAction, 1.0)
	removed.Hook.Status = domain.StatusRemoved
	fake := searchService.(*fakeSearchService)
	fake.hookResults = []domain.SearchResult{removed}

	out, err := executeCommand("search", "old_hook", "--removed")

	require.NoError(t, err)
	assert.Contains(t, out, "[removed]")
	assert.True(t, fake.lastOpts.IncludeRemoved)
}

func TestSearchCmd_RequiresQuery(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := executeCommand("search")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestDocsCmd_PrintsResults(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	searchService.(*fakeSearchService).docResults = []domain.DocResult{
		{
			Page: domain.DocPage{
				Title:       "Block API",
				Category:    "reference",
				Subcategory: "blocks",
				Summary:     "How blocks are registered.",
				FilePath:    "reference/blocks/api.md",
			},
			SourceName: "wp-docs",
			Score:      2.4,
		},
	}

	out, err := executeCommand("docs", "block api")

	require.NoError(t, err)
	assert.Contains(t, out, "[1] Block API")
	assert.Contains(t, out, "reference / blocks")
	assert.Contains(t, out, "How blocks are registered.")
}

func TestRegistrationsCmd_PrintsResults(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	searchService.(*fakeSearchService).regResults = []domain.RegistrationResult{
		{
			Registration: domain.Registration{
				Name:       "core/paragraph",
				Title:      "Paragraph",
				Category:   "text",
				FilePath:   "blocks/paragraph.js",
				LineNumber: 15,
			},
			SourceName: "gutenberg",
			Score:      3.3,
		},
	}

	out, err := executeCommand("registrations", "paragraph")

	require.NoError(t, err)
	assert.Contains(t, out, "core/paragraph")
	assert.Contains(t, out, "Paragraph (text)")
	assert.Contains(t, out, "blocks/paragraph.js:15")
}

func TestAPICmd_PrintsResults(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	searchService.(*fakeSearchService).usageResults = []domain.APIUsageResult{
		{
			Usage: domain.APIUsage{
				Namespace:  "wp.data",
				Method:     "select",
				FilePath:   "src/store.js",
				LineNumber: 8,
			},
			SourceName: "gutenberg",
			Score:      1.8,
		},
	}

	out, err := executeCommand("api", "select")

	require.NoError(t, err)
	assert.Contains(t, out, "wp.data.select")
	assert.Contains(t, out, "src/store.js:8")
}

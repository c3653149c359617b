package cli

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hookdex-labs/hookdex-cli/internal/core/domain"
)

func TestValidateCmd_Valid(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	searchService.(*fakeSearchService).validation = &domain.ValidationResult{
		Name:   "save_post",
		Status: domain.ValidationValid,
		Locations: []domain.Location{
			{SourceName: "woocommerce", FilePath: "a.php", LineNumber: 10, Kind: domain.KindAction},
			{SourceName: "woocommerce", FilePath: "b.php", LineNumber: 99, Kind: domain.KindAction},
		},
	}

	out, err := executeCommand("validate", "save_post")

	require.NoError(t, err)
	assert.Contains(t, out, "save_post: VALID")
	assert.Contains(t, out, "a.php:10 (action)")
	assert.Contains(t, out, "b.php:99 (action)")
}

func TestValidateCmd_RemovedFailsWithTimestamp(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	removedAt := time.Date(2026, 2, 14, 9, 30, 0, 0, time.UTC)
	searchService.(*fakeSearchService).validation = &domain.ValidationResult{
		Name:      "old_hook",
		Status:    domain.ValidationRemoved,
		RemovedAt: &removedAt,
	}

	out, err := executeCommand("validate", "old_hook")

	require.Error(t, err)
	assert.Contains(t, out, "old_hook: REMOVED")
	assert.Contains(t, out, "removed at 2026-02-14 09:30:00")
}

func TestValidateCmd_NotFoundPrintsSuggestions(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	searchService.(*fakeSearchService).validation = &domain.ValidationResult{
		Name:   "save_postt",
		Status: domain.ValidationNotFound,
		Suggestions: []domain.SearchResult{
			{Hook: domain.Hook{Name: "save_post", Kind: domain.KindAction, FilePath: "a.php", LineNumber: 10}},
		},
	}

	out, err := executeCommand("validate", "save_postt")

	require.Error(t, err)
	assert.Contains(t, out, "save_postt: NOT_FOUND")
	assert.Contains(t, out, "Did you mean:")
	assert.Contains(t, out, "save_post (action)")
}

func TestHookCmd_PrintsDetail(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	fake := searchService.(*fakeSearchService)
	fake.hook = &domain.Hook{
		ID:             12,
		Name:           "woocommerce_checkout_order_processed",
		Kind:           domain.KindAction,
		FilePath:       "includes/class-wc-checkout.php",
		LineNumber:     430,
		Params:         []string{"$order_id", "$posted_data", "$order"},
		EnclosingScope: "WC_Checkout::process_checkout",
		DocComment:     "/** Fires after an order is processed. */",
		Status:         domain.StatusActive,
	}
	fake.hookSource = "woocommerce"

	out, err := executeCommand("hook", "12")

	require.NoError(t, err)
	assert.Contains(t, out, "woocommerce_checkout_order_processed (action)")
	assert.Contains(t, out, "id:       12")
	assert.Contains(t, out, "source:   woocommerce")
	assert.Contains(t, out, "includes/class-wc-checkout.php:430")
	assert.Contains(t, out, "$order_id, $posted_data, $order")
	assert.Contains(t, out, "WC_Checkout::process_checkout")
	assert.Contains(t, out, "Fires after an order is processed.")
	assert.Equal(t, "12", fake.lastQuery)
}

func TestHookCmd_NotFound(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	searchService.(*fakeSearchService).err = domain.ErrNotFound

	_, err := executeCommand("hook", "no_such_hook")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStatsCmd(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	searchService.(*fakeSearchService).stats = &domain.IndexStats{
		Sources:       2,
		Hooks:         340,
		HooksRemoved:  12,
		Registrations: 55,
		APIUsages:     80,
		DocPages:      41,
		HooksByKind:   map[string]int{"action": 200, "filter": 140},
		HooksBySource: map[string]int{"woocommerce": 300, "my-plugin": 40},
	}

	out, err := executeCommand("stats")

	require.NoError(t, err)
	assert.Contains(t, out, "Hooks:         340 active, 12 removed")
	assert.Contains(t, out, "Hooks by kind:")
	assert.Contains(t, out, "action")
	assert.Contains(t, out, "woocommerce")
}

func TestRebuildFTSCmd(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	fake := searchService.(*fakeSearchService)

	out, err := executeCommand("rebuild-fts")

	require.NoError(t, err)
	assert.Contains(t, out, "Search tables rebuilt.")
	assert.True(t, fake.rebuilt)
}

func TestVersionCmd(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := executeCommand("version")

	require.NoError(t, err)
	assert.Contains(t, out, "hookdex version")
}

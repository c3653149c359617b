package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hookdex-labs/hookdex-cli/internal/core/domain"
	"github.com/hookdex-labs/hookdex-cli/internal/core/ports/driving"
)

const pluginFile = `<?php
function boot() {
	do_action( 'plugin_loaded', $plugin );
}
`

type indexerFixture struct {
	indexer *Indexer
	sources *fakeSourceStore
	decls   *fakeDeclStore
	docs    *fakeDocStore
	cache   *fakeFileCache
	dir     string
}

func newIndexerFixture(t *testing.T, contentType domain.ContentType) *indexerFixture {
	t.Helper()
	dir := t.TempDir()

	sources := newFakeSourceStore()
	require.NoError(t, sources.Save(context.Background(), domain.Source{
		ID:          "src-1",
		Type:        domain.SourceTypeLocal,
		Name:        "plugin",
		Config:      map[string]string{"path": dir},
		ContentType: contentType,
		Enabled:     true,
	}))

	decls := &fakeDeclStore{}
	docs := &fakeDocStore{}
	cache := newFakeFileCache()
	indexer := NewIndexer(sources, decls, docs, cache, &dirFetcherFactory{dir: dir})

	return &indexerFixture{
		indexer: indexer,
		sources: sources,
		decls:   decls,
		docs:    docs,
		cache:   cache,
		dir:     dir,
	}
}

func (f *indexerFixture) writeFile(t *testing.T, rel, content string) {
	t.Helper()
	path := filepath.Join(f.dir, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestIndexer_Run_ScansCodeFiles(t *testing.T) {
	f := newIndexerFixture(t, domain.ContentCode)
	f.writeFile(t, "includes/plugin.php", pluginFile)
	f.writeFile(t, "notes.txt", "not code")

	summary, err := f.indexer.Run(context.Background(), driving.IndexOptions{})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.SourcesProcessed)
	assert.Equal(t, 1, summary.FilesScanned)
	assert.Equal(t, 1, summary.Hooks.Inserted)
	assert.Empty(t, summary.Errors)

	require.Len(t, f.decls.calls, 1)
	call := f.decls.calls[0]
	assert.Equal(t, "src-1", call.sourceID)
	assert.Equal(t, "includes/plugin.php", call.filePath)
	require.Len(t, call.hooks, 1)
	assert.Equal(t, "plugin_loaded", call.hooks[0].Name)
}

func TestIndexer_Run_SkipsUnchangedFiles(t *testing.T) {
	f := newIndexerFixture(t, domain.ContentCode)
	f.writeFile(t, "plugin.php", pluginFile)

	_, err := f.indexer.Run(context.Background(), driving.IndexOptions{})
	require.NoError(t, err)

	summary, err := f.indexer.Run(context.Background(), driving.IndexOptions{})
	require.NoError(t, err)

	assert.Equal(t, 0, summary.FilesScanned)
	assert.Equal(t, 1, summary.FilesSkipped)
	assert.Len(t, f.decls.calls, 1, "unchanged file must not be reconciled twice")
}

func TestIndexer_Run_HashSkipOnTouchedFile(t *testing.T) {
	f := newIndexerFixture(t, domain.ContentCode)
	f.writeFile(t, "plugin.php", pluginFile)

	_, err := f.indexer.Run(context.Background(), driving.IndexOptions{})
	require.NoError(t, err)

	// Touch the file without changing its content.
	future := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(filepath.Join(f.dir, "plugin.php"), future, future))

	summary, err := f.indexer.Run(context.Background(), driving.IndexOptions{})
	require.NoError(t, err)

	assert.Equal(t, 0, summary.FilesScanned)
	assert.Equal(t, 1, summary.FilesSkipped)
	assert.Len(t, f.decls.calls, 1)
}

func TestIndexer_Run_ForceRescansEverything(t *testing.T) {
	f := newIndexerFixture(t, domain.ContentCode)
	f.writeFile(t, "plugin.php", pluginFile)

	_, err := f.indexer.Run(context.Background(), driving.IndexOptions{})
	require.NoError(t, err)

	summary, err := f.indexer.Run(context.Background(), driving.IndexOptions{Force: true})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.FilesScanned)
	assert.Equal(t, 0, summary.FilesSkipped)
	assert.Len(t, f.decls.calls, 2)
}

func TestIndexer_Run_SweepsDeletedFiles(t *testing.T) {
	f := newIndexerFixture(t, domain.ContentCode)
	f.writeFile(t, "plugin.php", pluginFile)

	_, err := f.indexer.Run(context.Background(), driving.IndexOptions{})
	require.NoError(t, err)

	require.NoError(t, os.Remove(filepath.Join(f.dir, "plugin.php")))

	summary, err := f.indexer.Run(context.Background(), driving.IndexOptions{})
	require.NoError(t, err)

	assert.Equal(t, []string{"plugin.php"}, f.decls.removed)
	assert.Equal(t, 1, summary.Hooks.Removed)

	_, err = f.cache.Get(context.Background(), "src-1", "plugin.php")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestIndexer_Run_SkipsVendorTrees(t *testing.T) {
	f := newIndexerFixture(t, domain.ContentCode)
	f.writeFile(t, "vendor/lib/hooks.php", pluginFile)
	f.writeFile(t, "node_modules/pkg/index.js", "wp.data.select('core');")
	f.writeFile(t, "src/main.php", pluginFile)

	summary, err := f.indexer.Run(context.Background(), driving.IndexOptions{})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.FilesScanned)
	require.Len(t, f.decls.calls, 1)
	assert.Equal(t, "src/main.php", f.decls.calls[0].filePath)
}

func TestIndexer_Run_DocumentationSource(t *testing.T) {
	f := newIndexerFixture(t, domain.ContentDocs)
	f.writeFile(t, "docs/hooks/actions.md", "# Actions\n\nAction reference.\n")
	f.writeFile(t, "LICENSE.md", "MIT License text.")

	summary, err := f.indexer.Run(context.Background(), driving.IndexOptions{})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.FilesScanned)
	assert.Equal(t, 1, summary.DocPages.Inserted)
	require.Len(t, f.docs.pages, 1)

	page := f.docs.pages[0]
	assert.Equal(t, "src-1", page.SourceID)
	assert.Equal(t, "docs/hooks/actions.md", page.FilePath)
	assert.Equal(t, "Actions", page.Title)
	assert.Equal(t, "docs", page.Category)
	assert.Equal(t, "hooks", page.Subcategory)
	assert.NotEmpty(t, page.ContentHash)
}

func TestIndexer_Run_NamedSource(t *testing.T) {
	f := newIndexerFixture(t, domain.ContentCode)

	_, err := f.indexer.Run(context.Background(), driving.IndexOptions{SourceName: "nope"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.indexer.Run(context.Background(), driving.IndexOptions{SourceName: "plugin"})
	assert.NoError(t, err)
}

func TestIndexer_Run_DisabledSource(t *testing.T) {
	f := newIndexerFixture(t, domain.ContentCode)
	f.writeFile(t, "plugin.php", pluginFile)

	src, err := f.sources.GetByName(context.Background(), "plugin")
	require.NoError(t, err)
	src.Enabled = false
	require.NoError(t, f.sources.Save(context.Background(), *src))

	// Disabled sources are skipped by a blanket run.
	summary, err := f.indexer.Run(context.Background(), driving.IndexOptions{})
	require.NoError(t, err)
	assert.Equal(t, 0, summary.SourcesProcessed)

	// Naming one explicitly is an error.
	_, err = f.indexer.Run(context.Background(), driving.IndexOptions{SourceName: "plugin"})
	assert.ErrorIs(t, err, domain.ErrSourceDisabled)
}

func TestIndexer_Run_RejectsOverlappingRuns(t *testing.T) {
	f := newIndexerFixture(t, domain.ContentCode)
	f.writeFile(t, "plugin.php", pluginFile)

	gate := &gatedFetcher{dir: f.dir, entered: make(chan struct{}, 1), release: make(chan struct{})}
	f.indexer.fetchers = &gatedFetcherFactory{fetcher: gate}

	errs := make(chan error, 1)
	go func() {
		_, err := f.indexer.Run(context.Background(), driving.IndexOptions{})
		errs <- err
	}()
	<-gate.entered

	_, err := f.indexer.Run(context.Background(), driving.IndexOptions{})
	assert.ErrorIs(t, err, domain.ErrIndexInProgress)

	close(gate.release)
	require.NoError(t, <-errs)

	// The slot frees once the first run finishes.
	_, err = f.indexer.Run(context.Background(), driving.IndexOptions{})
	assert.NoError(t, err)
}

func TestIndexer_Run_FileChangeIsReconciled(t *testing.T) {
	f := newIndexerFixture(t, domain.ContentCode)
	f.writeFile(t, "plugin.php", pluginFile)

	_, err := f.indexer.Run(context.Background(), driving.IndexOptions{})
	require.NoError(t, err)

	f.writeFile(t, "plugin.php", pluginFile+"\ndo_action( 'plugin_ready' );\n")
	// Make sure the mtime check cannot mask the change.
	future := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(filepath.Join(f.dir, "plugin.php"), future, future))

	summary, err := f.indexer.Run(context.Background(), driving.IndexOptions{})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.FilesScanned)
	require.Len(t, f.decls.calls, 2)
	assert.Len(t, f.decls.calls[1].hooks, 2)
}

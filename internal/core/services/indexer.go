package services

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/hookdex-labs/hookdex-cli/internal/core/domain"
	"github.com/hookdex-labs/hookdex-cli/internal/core/ports/driven"
	"github.com/hookdex-labs/hookdex-cli/internal/core/ports/driving"
	"github.com/hookdex-labs/hookdex-cli/internal/docparse"
	"github.com/hookdex-labs/hookdex-cli/internal/logger"
	"github.com/hookdex-labs/hookdex-cli/internal/scan"
)

// skipDirs are tree names that never contain indexable declarations.
var skipDirs = map[string]bool{
	".git":         true,
	".svn":         true,
	".hg":          true,
	"node_modules": true,
	"vendor":       true,
	"build":        true,
	"dist":         true,
	"tests":        true,
	"test":         true,
	"__tests__":    true,
}

// skipDocFiles are boilerplate file stems excluded from doc indexing.
var skipDocFiles = map[string]bool{
	"license":         true,
	"licence":         true,
	"contributing":    true,
	"changelog":       true,
	"code_of_conduct": true,
	"security":        true,
}

// Ensure Indexer implements the interface.
var _ driving.IndexService = (*Indexer)(nil)

// Indexer runs incremental extraction over registered sources.
type Indexer struct {
	sourceStore driven.SourceStore
	declStore   driven.DeclarationStore
	docStore    driven.DocPageStore
	cache       driven.FileCacheStore
	fetchers    driven.FetcherFactory
	docs        *docparse.Registry
	running     atomic.Bool
}

// NewIndexer creates a new indexing service.
func NewIndexer(
	sourceStore driven.SourceStore,
	declStore driven.DeclarationStore,
	docStore driven.DocPageStore,
	cache driven.FileCacheStore,
	fetchers driven.FetcherFactory,
) *Indexer {
	return &Indexer{
		sourceStore: sourceStore,
		declStore:   declStore,
		docStore:    docStore,
		cache:       cache,
		fetchers:    fetchers,
		docs:        docparse.NewRegistry(),
	}
}

// Run executes an indexing run over one source or every enabled one.
// Per-source and per-file failures are collected into the summary; only
// failures that prevent the run from starting are returned as errors.
// Runs never overlap: a second caller gets ErrIndexInProgress while one
// is in flight (watch mode and the MCP reindex tool share one Indexer).
func (ix *Indexer) Run(ctx context.Context, opts driving.IndexOptions) (*domain.RunSummary, error) {
	if !ix.running.CompareAndSwap(false, true) {
		return nil, domain.ErrIndexInProgress
	}
	defer ix.running.Store(false)

	sources, err := ix.resolveSources(ctx, opts.SourceName)
	if err != nil {
		return nil, err
	}

	summary := &domain.RunSummary{StartedAt: time.Now()}
	for i := range sources {
		src := &sources[i]
		logger.Section(fmt.Sprintf("Indexing %s", src.Name))

		srcSummary, err := ix.runSource(ctx, src, opts.Force)
		if err != nil {
			summary.Errors = append(summary.Errors, fmt.Sprintf("source %s: %v", src.Name, err))
			continue
		}
		summary.Merge(srcSummary)
	}
	summary.Duration = time.Since(summary.StartedAt)
	return summary, nil
}

// resolveSources picks the sources a run covers. Naming a disabled
// source explicitly is an error; disabled sources are silently skipped
// otherwise.
func (ix *Indexer) resolveSources(ctx context.Context, name string) ([]domain.Source, error) {
	if name != "" {
		src, err := ix.sourceStore.GetByName(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("get source %q: %w", name, err)
		}
		if !src.Enabled {
			return nil, fmt.Errorf("%w: %s", domain.ErrSourceDisabled, name)
		}
		return []domain.Source{*src}, nil
	}

	all, err := ix.sourceStore.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sources: %w", err)
	}
	enabled := all[:0]
	for _, src := range all {
		if src.Enabled {
			enabled = append(enabled, src)
		}
	}
	return enabled, nil
}

func (ix *Indexer) runSource(ctx context.Context, src *domain.Source, force bool) (*domain.RunSummary, error) {
	fetcher, err := ix.fetchers.Create(src)
	if err != nil {
		return nil, err
	}
	root, err := fetcher.Fetch(ctx, src)
	if err != nil {
		return nil, err
	}

	previous, err := ix.cache.ListPaths(ctx, src.ID)
	if err != nil {
		return nil, fmt.Errorf("list cached paths: %w", err)
	}
	seen := make(map[string]bool, len(previous))

	summary := &domain.RunSummary{SourcesProcessed: 1}
	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			summary.Errors = append(summary.Errors, fmt.Sprintf("%s: %v", path, err))
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			if skipDirs[strings.ToLower(d.Name())] {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)
		if !ix.wantsFile(src, rel) {
			return nil
		}
		seen[rel] = true

		if err := ix.indexFile(ctx, src, root, rel, d, force, summary); err != nil {
			summary.Errors = append(summary.Errors, fmt.Sprintf("%s: %v", rel, err))
		}
		return nil
	})
	if walkErr != nil {
		return summary, walkErr
	}

	ix.sweepDeleted(ctx, src, previous, seen, summary)
	return summary, nil
}

// wantsFile reports whether the file participates in this source's
// pipeline at all.
func (ix *Indexer) wantsFile(src *domain.Source, rel string) bool {
	if src.ContentType == domain.ContentCode {
		_, ok := scan.ForFile(rel)
		return ok
	}
	stem := strings.ToLower(strings.TrimSuffix(filepath.Base(rel), filepath.Ext(rel)))
	if skipDocFiles[stem] {
		return false
	}
	_, ok := ix.docs.ForFile(rel)
	return ok
}

// indexFile scans or parses a single file and reconciles the result.
// The two-stage cache avoids reading unchanged files: a matching mtime
// skips the read entirely, a matching content hash skips the scan.
func (ix *Indexer) indexFile(
	ctx context.Context,
	src *domain.Source,
	root, rel string,
	d fs.DirEntry,
	force bool,
	summary *domain.RunSummary,
) error {
	info, err := d.Info()
	if err != nil {
		return fmt.Errorf("stat: %w", err)
	}

	cached, err := ix.cache.Get(ctx, src.ID, rel)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("read file cache: %w", err)
	}
	if !force && cached != nil && cached.ModTime.Equal(info.ModTime().Truncate(time.Second)) {
		summary.FilesSkipped++
		return nil
	}

	content, err := os.ReadFile(filepath.Join(root, rel))
	if err != nil {
		return fmt.Errorf("read: %w", err)
	}
	hash := scan.FileHash(content)
	if !force && cached != nil && cached.ContentHash == hash {
		// Touched but unchanged; refresh the mtime so the cheap check
		// works next run.
		summary.FilesSkipped++
		return ix.putCache(ctx, src.ID, rel, info.ModTime(), hash)
	}

	switch src.ContentType {
	case domain.ContentCode:
		engine, _ := scan.ForFile(rel)
		res := engine.Scan(rel, content)
		logger.Debug("%s: %d hooks, %d registrations, %d api usages",
			rel, len(res.Hooks), len(res.Registrations), len(res.APIUsages))

		counts, err := ix.declStore.ReconcileFile(ctx, src.ID, rel, res.Hooks, res.Registrations, res.APIUsages)
		if err != nil {
			return fmt.Errorf("reconcile: %w", err)
		}
		summary.Hooks.Add(counts.Hooks)
		summary.Registrations.Add(counts.Registrations)
		summary.APIUsages.Add(counts.APIUsages)

	case domain.ContentDocs:
		handler, _ := ix.docs.ForFile(rel)
		parsed, err := handler.Parse(rel, content)
		if err != nil {
			return fmt.Errorf("parse doc: %w", err)
		}
		page := &domain.DocPage{
			SourceID:    src.ID,
			FilePath:    rel,
			Title:       parsed.Title,
			Category:    parsed.Category,
			Subcategory: parsed.Subcategory,
			Summary:     parsed.Summary,
			CodeSamples: parsed.CodeSamples,
			Metadata:    parsed.Metadata,
			ContentHash: hash,
		}
		counts, err := ix.docStore.ReconcilePage(ctx, page)
		if err != nil {
			return fmt.Errorf("reconcile doc: %w", err)
		}
		summary.DocPages.Add(counts)

	default:
		return fmt.Errorf("%w: content type %q", domain.ErrUnsupportedType, src.ContentType)
	}

	summary.FilesScanned++
	return ix.putCache(ctx, src.ID, rel, info.ModTime(), hash)
}

func (ix *Indexer) putCache(ctx context.Context, sourceID, rel string, modTime time.Time, hash string) error {
	err := ix.cache.Put(ctx, domain.IndexedFile{
		SourceID:    sourceID,
		FilePath:    rel,
		ModTime:     modTime.Truncate(time.Second),
		ContentHash: hash,
		ScannedAt:   time.Now(),
	})
	if err != nil {
		return fmt.Errorf("update file cache: %w", err)
	}
	return nil
}

// sweepDeleted marks records of files present in the previous run but
// absent from this one. Nothing is ever hard-deleted here.
func (ix *Indexer) sweepDeleted(
	ctx context.Context,
	src *domain.Source,
	previous []string,
	seen map[string]bool,
	summary *domain.RunSummary,
) {
	sort.Strings(previous)
	for _, rel := range previous {
		if seen[rel] {
			continue
		}
		logger.Info("file gone, sweeping records: %s", rel)

		switch src.ContentType {
		case domain.ContentCode:
			counts, err := ix.declStore.MarkFileRemoved(ctx, src.ID, rel)
			if err != nil {
				summary.Errors = append(summary.Errors, fmt.Sprintf("%s: sweep: %v", rel, err))
				continue
			}
			summary.Hooks.Add(counts.Hooks)
			summary.Registrations.Add(counts.Registrations)
			summary.APIUsages.Add(counts.APIUsages)
		case domain.ContentDocs:
			counts, err := ix.docStore.MarkPageRemoved(ctx, src.ID, rel)
			if err != nil {
				summary.Errors = append(summary.Errors, fmt.Sprintf("%s: sweep: %v", rel, err))
				continue
			}
			summary.DocPages.Add(counts)
		}

		if err := ix.cache.Delete(ctx, src.ID, rel); err != nil {
			summary.Errors = append(summary.Errors, fmt.Sprintf("%s: drop cache row: %v", rel, err))
		}
	}
}

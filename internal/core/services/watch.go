package services

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/hookdex-labs/hookdex-cli/internal/core/domain"
	"github.com/hookdex-labs/hookdex-cli/internal/core/ports/driving"
	"github.com/hookdex-labs/hookdex-cli/internal/logger"
)

// watchDebounce coalesces editor save bursts into one re-index.
const watchDebounce = 500 * time.Millisecond

// Watch re-runs the indexer whenever files under a local source change.
// Blocks until the context is cancelled.
func (ix *Indexer) Watch(ctx context.Context, sourceName string) error {
	src, err := ix.sourceStore.GetByName(ctx, sourceName)
	if err != nil {
		return fmt.Errorf("get source %q: %w", sourceName, err)
	}
	if src.Type != domain.SourceTypeLocal {
		return fmt.Errorf("%w: watch requires a local source, got %q", domain.ErrInvalidInput, src.Type)
	}
	root := src.Config["path"]
	if root == "" {
		return fmt.Errorf("%w: local source has no path", domain.ErrMissingConfig)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := addDirsRecursive(watcher, root); err != nil {
		return err
	}

	// Baseline pass so the watcher starts from a current index.
	if _, err := ix.Run(ctx, driving.IndexOptions{SourceName: sourceName}); err != nil {
		return err
	}
	logger.Info("watching %s", root)

	var timer *time.Timer
	var timerC <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			// New directories must be added before their first file
			// event can be observed.
			if event.Op.Has(fsnotify.Create) {
				if err := addDirsRecursive(watcher, event.Name); err == nil {
					logger.Debug("watching new path %s", event.Name)
				}
			}
			if timer == nil {
				timer = time.NewTimer(watchDebounce)
				timerC = timer.C
			} else {
				timer.Reset(watchDebounce)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error: %v", err)

		case <-timerC:
			summary, err := ix.Run(ctx, driving.IndexOptions{SourceName: sourceName})
			if err != nil {
				logger.Warn("re-index failed: %v", err)
				continue
			}
			logger.Info("re-indexed: %d files scanned, %d skipped, %d errors",
				summary.FilesScanned, summary.FilesSkipped, len(summary.Errors))
		}
	}
}

// addDirsRecursive registers path and every directory below it, skipping
// the same trees the indexer skips. Non-directories are ignored.
func addDirsRecursive(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if skipDirs[strings.ToLower(d.Name())] {
			return filepath.SkipDir
		}
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}

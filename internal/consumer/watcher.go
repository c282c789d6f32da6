package consumer

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/tomhoover/paperless-ngx/internal/apperr"
)

// Watch starts an fsnotify watcher on the consume directory and ingests
// files dropped into it until ctx is cancelled. Successfully consumed
// sources are removed; duplicates are removed too, with a warning.
//
// New subdirectories created at runtime are automatically added to the
// watch list. Writes schedule a short debounced sweep so files that are
// still being copied are picked up once they settle.
func Watch(ctx context.Context, c *Consumer, consumeDir string, logger *slog.Logger) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := addDirsRecursive(w, consumeDir); err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("root", consumeDir))

	// sweepTimer debounces ingestion so half-copied files settle first.
	var sweepTimer *time.Timer
	var sweepCh <-chan time.Time

	scheduleSweep := func() {
		if sweepTimer == nil {
			sweepTimer = time.NewTimer(500 * time.Millisecond)
			sweepCh = sweepTimer.C
		} else {
			sweepTimer.Reset(500 * time.Millisecond)
		}
	}

	// Pick up anything already waiting in the directory.
	sweep(ctx, c, consumeDir, logger)

	for {
		select {
		case <-ctx.Done():
			if sweepTimer != nil {
				sweepTimer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-sweepCh:
			sweep(ctx, c, consumeDir, logger)

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			if ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(ev.Name); statErr == nil && info.IsDir() {
					if addErr := addDirsRecursive(w, ev.Name); addErr != nil {
						logger.Warn("watcher: add new dir failed",
							slog.String("path", ev.Name),
							slog.String("error", addErr.Error()))
					}
					scheduleSweep()
					continue
				}
			}

			if ev.Op&(fsnotify.Create|fsnotify.Write) != 0 && !ignored(ev.Name) {
				scheduleSweep()
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// sweep walks the consume directory and ingests every eligible file.
func sweep(ctx context.Context, c *Consumer, root string, logger *slog.Logger) {
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || ignored(path) {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		ingest(ctx, c, path, logger)
		return nil
	})
}

// ingest consumes a single file from the consume directory and removes the
// source on success or duplicate.
func ingest(ctx context.Context, c *Consumer, path string, logger *slog.Logger) {
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("watcher: read failed", slog.String("path", path), slog.String("error", err.Error()))
		return
	}

	_, err = c.Consume(ctx, filepath.Base(path), data)
	switch {
	case err == nil:
	case errors.Is(err, apperr.ErrAlreadyExists):
		logger.Warn("watcher: duplicate, discarding source", slog.String("path", path))
	default:
		logger.Warn("watcher: consume failed", slog.String("path", path), slog.String("error", err.Error()))
		return
	}

	if rmErr := os.Remove(path); rmErr != nil {
		logger.Warn("watcher: remove source failed", slog.String("path", path), slog.String("error", rmErr.Error()))
	}
}

// ignored reports whether a file should be skipped: hidden files and
// copy-in-progress artifacts.
func ignored(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") || strings.HasPrefix(base, "~") {
		return true
	}
	switch strings.ToLower(filepath.Ext(base)) {
	case ".tmp", ".part", ".crdownload":
		return true
	}
	return false
}

// addDirsRecursive adds root and all its subdirectories to the watcher.
func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
}

package crawler

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/devsidequests/participants/pkg/log"
)

// Watch calls onChange every time path is written or (re)created, until ctx
// is done. The parent directory is watched so atomic renames are seen.
func Watch(ctx context.Context, logger log.Logger, path string, onChange func(context.Context)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	target := filepath.Clean(path)
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(target), err)
	}
	logger.Info(ctx, "Watching %s for changes", target)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			logger.Debug(ctx, "Cache changed: %s", event)
			onChange(ctx)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn(ctx, "Watcher error: %v", err)
		}
	}
}

// WatchMoving is Watch for a path that may change while watching: every
// value received on moves replaces the watched path. Receiving the current
// path again is a no-op.
func WatchMoving(ctx context.Context, logger log.Logger, path string, moves <-chan string, onChange func(context.Context)) error {
	for {
		wctx, cancel := context.WithCancel(ctx)
		done := make(chan error, 1)
		go func(p string) { done <- Watch(wctx, logger, p, onChange) }(path)

		moved := false
		for !moved {
			select {
			case next := <-moves:
				if filepath.Clean(next) == filepath.Clean(path) {
					continue
				}
				cancel()
				if err := <-done; err != nil {
					return err
				}
				logger.Info(ctx, "Cache path changed from %s to %s", path, next)
				path = next
				moved = true
			case err := <-done:
				cancel()
				return err
			}
		}
		// the new file may already differ from what was rendered
		onChange(ctx)
	}
}

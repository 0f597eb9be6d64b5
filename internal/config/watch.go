package config

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads the configuration whenever the file at path changes and
// hands each valid result to apply. A reload that fails to parse or validate
// is logged and skipped, so the running configuration never regresses to a
// broken one. Watch blocks until ctx is cancelled.
//
// The watch is placed on the parent directory rather than the file itself:
// editors and configuration management tools usually save atomically
// (write temp file, rename over the target), which replaces the inode a
// file-level watch is pinned to.
func Watch(ctx context.Context, path string, apply func(*Config)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return err
	}
	target := filepath.Base(path)

	slog.Info("config: watching", "path", path)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			cfg, err := Load(path)
			if err != nil {
				slog.Error("config: reload rejected, keeping previous",
					"path", path, "err", err)
				continue
			}

			slog.Info("config: reloaded", "path", path, "op", event.Op.String())
			apply(cfg)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("config: watcher error", "err", err)
		}
	}
}

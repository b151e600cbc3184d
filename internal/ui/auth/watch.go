package auth

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads the token whenever the store's file changes and applies it to creds, which in turn
// notifies its subscribers. The directory is watched rather than the file so that atomic replacement
// (write + rename) and removal are both seen.
//
// Watch blocks until ctx is cancelled.
func Watch(ctx context.Context, store *Store, creds *Credentials, logger *slog.Logger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating credentials watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(store.Path())
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("creating credentials directory: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	target := filepath.Clean(store.Path())
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
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}

			token, err := store.Load()
			if err != nil {
				logger.Warn("could not reload admin token", slog.String("error", err.Error()))
				continue
			}
			if token != creds.Token() {
				logger.Info("admin token changed", slog.String("path", target))
			}
			creds.Set(token)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("credentials watcher error", slog.String("error", err.Error()))
		}
	}
}

package config

import (
	"context"
	"fmt"
	"path/filepath"

	"mcphub/pkg/logging"

	"github.com/fsnotify/fsnotify"
)

// Watch reports changes to the configuration file at path until ctx is
// done. Configuration is read once at start-up, so a change only produces a
// warning; onChange, if set, is called for every relevant event.
//
// The parent directory is watched rather than the file itself because most
// editors save by renaming a temporary file over the original.
func Watch(ctx context.Context, path string, onChange func(fsnotify.Event)) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != abs {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
					!event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
					continue
				}
				logging.Warn("Config", "Configuration file %s changed (%s); restart mcphub to apply it", abs, event.Op)
				if onChange != nil {
					onChange(event)
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logging.Error("Config", err, "File watcher error for %s", abs)
			}
		}
	}()

	return nil
}

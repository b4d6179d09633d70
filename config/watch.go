package config

import (
	"context"
	"fmt"
	"log"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads the config whenever filePath is written and passes the new values to onChange.
// The parent directory is watched so editors that replace the file are noticed too.
// Watch blocks until ctx is done.
func Watch(ctx context.Context, filePath string, onChange func(AppConfig)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	target := filepath.Clean(filePath)
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(target), err)
	}

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
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if err := Reload(target); err != nil {
				log.Printf("config reload failed: %v", err)
				continue
			}
			log.Printf("config reloaded from %s", target)
			if onChange != nil {
				onChange(Get())
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Println("config watcher error:", err)
		}
	}
}

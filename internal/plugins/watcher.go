package plugins

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"pinax-social-backend/internal/logger"
)

// Watcher calls onChange once manifest activity under dir has been quiet for the
// debounce interval.
type Watcher struct {
	dir      string
	debounce time.Duration
	onChange func(ctx context.Context)
}

func NewWatcher(dir string, debounce time.Duration, onChange func(ctx context.Context)) *Watcher {
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}
	return &Watcher{dir: dir, debounce: debounce, onChange: onChange}
}

// Run blocks until ctx is done
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.dir, err)
	}
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", w.dir, err)
	}
	for _, e := range entries {
		if e.IsDir() {
			if err := fw.Add(filepath.Join(w.dir, e.Name())); err != nil {
				logger.Warn("Failed to watch app directory", "dir", e.Name(), "error", err)
			}
		}
	}
	logger.Info("Watching plugin manifests", "dir", w.dir, "debounce", w.debounce)

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) && filepath.Dir(event.Name) == filepath.Clean(w.dir) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := fw.Add(event.Name); err != nil {
						logger.Warn("Failed to watch app directory", "dir", event.Name, "error", err)
					}
				}
			}
			if w.relevant(event) {
				logger.Debug("Plugin manifest event", "path", event.Name, "op", event.Op.String())
				timer.Reset(w.debounce)
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logger.Error("Plugin manifest watcher error", "error", err)
		case <-timer.C:
			w.onChange(ctx)
		}
	}
}

// relevant reports whether an event can change the declared set: a manifest file,
// or an app directory appearing or disappearing.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Write) {
		return false
	}
	name := filepath.Base(event.Name)
	if name == yamlManifest || name == tomlManifest {
		return true
	}
	return filepath.Dir(event.Name) == filepath.Clean(w.dir) &&
		(event.Has(fsnotify.Create) || event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename))
}

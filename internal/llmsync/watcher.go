package llmsync

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceDelay is how long the watcher waits after the last file event
// before requesting a pass. Editors write notes in bursts; syncing once
// per burst keeps upload churn down.
const debounceDelay = 2 * time.Second

// Watcher monitors the vault directory and requests a sync pass after
// file changes settle. It never inspects content; the pass itself
// re-scans and decides what changed.
type Watcher struct {
	dir    string
	logger *slog.Logger
}

// NewWatcher creates a watcher for the given vault root.
func NewWatcher(dir string, logger *slog.Logger) *Watcher {
	return &Watcher{dir: dir, logger: logger}
}

// Watch blocks until ctx is done, sending on trigger (non-blocking, so
// a pending trigger coalesces with new ones) whenever markdown files
// change. Directories are watched recursively; directories created
// while watching are added on the fly.
func (w *Watcher) Watch(ctx context.Context, trigger chan<- struct{}) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating fsnotify watcher: %w", err)
	}
	defer watcher.Close()

	if err := addRecursive(watcher, w.dir); err != nil {
		return fmt.Errorf("watching vault directory: %w", err)
	}

	w.logger.Info("watching vault for changes", slog.String("dir", w.dir))

	var (
		debounce *time.Timer
		fire     <-chan time.Time
	)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return fmt.Errorf("watcher event channel closed")
			}

			if w.ignore(event) {
				continue
			}

			// New directories need their own watches for events below
			// them.
			if event.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := addRecursive(watcher, event.Name); err != nil {
						w.logger.Warn("watching new directory failed",
							slog.String("dir", event.Name),
							slog.String("error", err.Error()),
						)
					}
				}
			}

			if debounce == nil {
				debounce = time.NewTimer(debounceDelay)
				fire = debounce.C
			} else {
				if !debounce.Stop() {
					select {
					case <-debounce.C:
					default:
					}
				}
				debounce.Reset(debounceDelay)
			}

		case <-fire:
			debounce = nil
			fire = nil

			select {
			case trigger <- struct{}{}:
			default: // a pass request is already pending
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher error channel closed")
			}

			w.logger.Warn("fsnotify error", slog.String("error", err.Error()))
		}
	}
}

// ignore filters events the sync pass would not act on: hidden trees
// (.obsidian, .git) and non-markdown files that are not directories.
func (w *Watcher) ignore(event fsnotify.Event) bool {
	rel, err := filepath.Rel(w.dir, event.Name)
	if err != nil {
		return true
	}

	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		if strings.HasPrefix(part, ".") {
			return true
		}
	}

	if strings.EqualFold(filepath.Ext(event.Name), ".md") {
		return false
	}

	// Keep directory events so renames of whole folders still sync.
	info, err := os.Stat(event.Name)

	return err != nil || !info.IsDir()
}

// addRecursive watches dir and every directory below it, skipping
// hidden trees.
func addRecursive(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !d.IsDir() {
			return nil
		}

		if base := filepath.Base(path); strings.HasPrefix(base, ".") && path != dir {
			return filepath.SkipDir
		}

		return watcher.Add(path)
	})
}

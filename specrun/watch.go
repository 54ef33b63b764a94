package specrun

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watch calls onChange after PHP files under root change, once writes have
// been quiet for debounce. It returns when ctx is done or onChange fails.
func Watch(ctx context.Context, root string, debounce time.Duration, onChange func() error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	sc := newScanner(scannerConfig{language: PHP{}})
	dirs, err := sc.watchDirs(root)
	if err != nil {
		return err
	}
	for _, dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}
	logger.Debug("watching", "root", root, "dirs", len(dirs))

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case evt, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if evt.Op.Has(fsnotify.Create) && isDir(evt.Name) && !sc.shouldIgnoreDir(filepath.Base(evt.Name)) {
				addWatch(watcher, evt.Name)
				continue
			}
			if evt.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 || !sc.isSupportedFile(filepath.Base(evt.Name)) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(debounce)
			fire = timer.C
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", "error", err)
		case <-fire:
			fire = nil
			if err := onChange(); err != nil {
				return err
			}
		}
	}
}

// addWatch registers a directory created while watching. Failures are logged
// at warn level.
func addWatch(watcher *fsnotify.Watcher, dir string) {
	if err := watcher.Add(dir); err != nil {
		logger.Warn("watch dir", "dir", dir, "error", err)
	}
}

package corpus

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// reloadQuiet is how long the watcher waits after the last relevant file
// event before reloading; bursts of writes trigger a single reload.
const reloadQuiet = 500 * time.Millisecond

// Watch runs an fsnotify watcher on dir and reloads the store whenever MIB
// sources change, until ctx is cancelled. onReload (if non-nil) runs after
// each successful reload, e.g. to rebuild a search index. New directories
// created at runtime are added to the watch list.
func Watch(ctx context.Context, store *Store, dir string, logger *log.Logger, onReload func()) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := addDirsRecursive(w, dir); err != nil {
		return err
	}
	logger.Info("watcher: started", "root", dir)

	var reloadTimer *time.Timer
	var reloadCh <-chan time.Time

	scheduleReload := func() {
		if reloadTimer == nil {
			reloadTimer = time.NewTimer(reloadQuiet)
			reloadCh = reloadTimer.C
		} else {
			reloadTimer.Reset(reloadQuiet)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if reloadTimer != nil {
				reloadTimer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-reloadCh:
			if err := store.Load(ctx, dir); err != nil {
				logger.Error("watcher: reload failed", "error", err)
				continue
			}
			if onReload != nil {
				onReload()
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			if ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(ev.Name); statErr == nil && info.IsDir() {
					if addErr := addDirsRecursive(w, ev.Name); addErr != nil {
						logger.Warn("watcher: add new dir failed", "path", ev.Name, "error", addErr)
					}
					continue
				}
			}

			if !isMIBSource(ev.Name) {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0 {
				logger.Debug("watcher: change", "path", ev.Name, "op", ev.Op.String())
				scheduleReload()
			}

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher: error", "error", err)
		}
	}
}

func isMIBSource(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mib", ".txt":
		return true
	}
	return false
}

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

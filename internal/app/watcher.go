package app

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"

	fsw "github.com/corey/acmatch/internal/adapters/fsnotify"
	"github.com/corey/acmatch/internal/ports"
)

// Watch scans paths once, then rescans each file whenever it changes, until
// ctx is cancelled. onResult is called for the initial results and for every
// rescan; calls are serialized. A removed file is reported with Removed set.
// The engine's automaton is fixed for the lifetime of the watch.
func (a *App) Watch(ctx context.Context, e *Engine, paths []string, onResult func(WatchResult)) error {
	w, err := fsw.NewWatcher()
	if err != nil {
		return err
	}
	return a.watchWith(ctx, w, e, paths, onResult)
}

// WatchResult is one scan result delivered by Watch.
type WatchResult struct {
	FileResult
	Initial bool // from the scan before watching started
	Removed bool // the file no longer exists
}

func (a *App) watchWith(ctx context.Context, w ports.Watcher, e *Engine, paths []string, onResult func(WatchResult)) error {
	files, err := ExpandPaths(paths)
	if err != nil {
		return err
	}
	initial, err := a.ScanFiles(ctx, e, files)
	if err != nil {
		return err
	}
	for _, r := range initial {
		onResult(WatchResult{FileResult: r, Initial: true})
	}

	changed := make(chan string, 64)
	if err := w.Watch(paths, func(path string) {
		select {
		case changed <- path:
		case <-ctx.Done():
		}
	}); err != nil {
		w.Stop()
		return err
	}
	defer w.Stop()

	log := a.Logger.With(slog.String("engine", e.Name))
	log.Info("watching", slog.Int("paths", len(paths)), slog.Int("files", len(files)))

	for {
		select {
		case <-ctx.Done():
			log.Info("watch stopped")
			return nil
		case path := <-changed:
			info, err := os.Stat(path)
			if errors.Is(err, fs.ErrNotExist) {
				log.Debug("file removed", slog.String("path", path))
				onResult(WatchResult{FileResult: FileResult{Path: path}, Removed: true})
				continue
			}
			if err != nil || !info.Mode().IsRegular() {
				continue
			}
			res := a.ScanFile(e, path)
			log.Debug("rescanned", slog.String("path", path), slog.Int("matches", len(res.Matches)))
			onResult(WatchResult{FileResult: res})
		}
	}
}

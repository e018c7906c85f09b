// Package fsnotify implements the ports.Watcher interface using github.com/fsnotify/fsnotify.
// Directories are watched recursively; individual files are watched through
// their parent directory with events filtered to that file. VCS and editor
// noise is skipped and rapid events are debounced on the trailing edge (editors
// often trigger multiple writes per save).
package fsnotify

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Directories to ignore when watching.
var ignoreDirs = map[string]bool{
	".git":         true,
	".hg":          true,
	".svn":         true,
	"node_modules": true,
	".idea":        true,
	".vscode":      true,
	".acmatch":     true,
}

// File suffixes to ignore (editor swap and backup files).
var ignoreSuffixes = []string{".swp", ".swx", ".tmp", "~", ".DS_Store"}

const debounceInterval = 50 * time.Millisecond

// Watcher implements ports.Watcher using fsnotify.
type Watcher struct {
	fw      *fsnotify.Watcher
	done    chan struct{}
	stopped bool
	mu      sync.Mutex
	cbMu    sync.Mutex // held while onChange runs

	// trailing debounce timers, one per path with events in flight
	pending map[string]*time.Timer

	// dirs added only to observe specific files; events there are filtered
	fileDirs map[string]bool
	files    map[string]bool
	// dirs watched for all of their contents
	treeDirs map[string]bool
}

// NewWatcher creates a new file system watcher.
func NewWatcher() (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		fw:       fw,
		done:     make(chan struct{}),
		fileDirs: make(map[string]bool),
		files:    make(map[string]bool),
		treeDirs: make(map[string]bool),
		pending:  make(map[string]*time.Timer),
	}, nil
}

// Watch starts monitoring paths. onChange is called with the absolute path of
// each changed file once its events have been quiet for debounceInterval, so
// a burst of writes yields one call that sees the final contents.
func (w *Watcher) Watch(paths []string, onChange func(filePath string)) error {
	for _, p := range paths {
		if err := w.add(p); err != nil {
			return err
		}
	}

	go func() {
		for {
			select {
			case event, ok := <-w.fw.Events:
				if !ok {
					return
				}
				path := event.Name

				// New directories inside a watched tree join the watch list
				if event.Has(fsnotify.Create) {
					if info, err := os.Stat(path); err == nil && info.IsDir() {
						if w.inTree(path) && !shouldIgnoreDir(info.Name()) {
							w.addTree(path)
						}
						continue
					}
				}

				if !w.wanted(path) || shouldIgnorePath(path) {
					continue
				}
				if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
					event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
					w.schedule(path, onChange)
				}

			case _, ok := <-w.fw.Errors:
				if !ok {
					return
				}
				// Errors are dropped; fsnotify keeps delivering events

			case <-w.done:
				return
			}
		}
	}()

	return nil
}

// schedule (re)arms the trailing debounce timer for path.
func (w *Watcher) schedule(path string, onChange func(string)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}
	if t, ok := w.pending[path]; ok && t.Stop() {
		t.Reset(debounceInterval)
		return
	}
	var t *time.Timer
	t = time.AfterFunc(debounceInterval, func() {
		w.mu.Lock()
		if w.pending[path] == t {
			delete(w.pending, path)
		}
		w.mu.Unlock()
		w.fire(path, onChange)
	})
	w.pending[path] = t
}

// fire runs onChange unless the watcher has been stopped. Stop waits for a
// running call to return.
func (w *Watcher) fire(path string, onChange func(string)) {
	w.cbMu.Lock()
	defer w.cbMu.Unlock()
	w.mu.Lock()
	stopped := w.stopped
	w.mu.Unlock()
	if !stopped {
		onChange(path)
	}
}

// add registers one user-supplied path.
func (w *Watcher) add(p string) error {
	absPath, err := filepath.Abs(p)
	if err != nil {
		return err
	}
	info, err := os.Stat(absPath)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		dir := filepath.Dir(absPath)
		w.mu.Lock()
		w.files[absPath] = true
		already := w.fileDirs[dir] || w.treeDirs[dir]
		w.fileDirs[dir] = true
		w.mu.Unlock()
		if already {
			return nil
		}
		return w.fw.Add(dir)
	}

	return filepath.Walk(absPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // skip inaccessible paths
		}
		if info.IsDir() {
			if shouldIgnoreDir(info.Name()) && path != absPath {
				return filepath.SkipDir
			}
			return w.addTree(path)
		}
		return nil
	})
}

func (w *Watcher) addTree(dir string) error {
	w.mu.Lock()
	w.treeDirs[dir] = true
	w.mu.Unlock()
	return w.fw.Add(dir)
}

// inTree reports whether path lies directly in a recursively watched directory.
func (w *Watcher) inTree(path string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.treeDirs[filepath.Dir(path)]
}

// wanted reports whether events for path should reach the callback.
func (w *Watcher) wanted(path string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.treeDirs[filepath.Dir(path)] || w.files[path]
}

// Stop ends monitoring and releases all resources.
// Safe to call multiple times.
func (w *Watcher) Stop() error {
	w.mu.Lock()

	if w.stopped {
		w.mu.Unlock()
		return nil
	}
	w.stopped = true
	for path, t := range w.pending {
		t.Stop()
		delete(w.pending, path)
	}
	close(w.done)
	w.mu.Unlock()
	err := w.fw.Close()

	// Wait out a callback that passed the stopped check before we got here.
	w.cbMu.Lock()
	w.cbMu.Unlock()
	return err
}

// shouldIgnoreDir returns true if the directory name should be skipped.
func shouldIgnoreDir(name string) bool {
	return ignoreDirs[name]
}

// shouldIgnorePath returns true if the file path should not trigger onChange.
func shouldIgnorePath(path string) bool {
	base := filepath.Base(path)
	for _, suffix := range ignoreSuffixes {
		if strings.HasSuffix(base, suffix) {
			return true
		}
	}

	// Check if any path component is an ignored directory
	for _, part := range strings.Split(path, string(filepath.Separator)) {
		if ignoreDirs[part] {
			return true
		}
	}
	return false
}

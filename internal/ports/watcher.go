package ports

// Watcher monitors input files or directories for changes so they can be
// rescanned. The adapter (fsnotify) must filter out editor and VCS noise
// (.git, swap files, etc.) before invoking onChange. Only one Watch call
// should be active at a time.
type Watcher interface {
	// Watch starts monitoring the given paths. Directories are watched
	// recursively; files are watched individually. onChange is called with the
	// absolute path of each changed file. The callback may be invoked from
	// any goroutine. Returns an error if a path doesn't exist or permissions
	// are insufficient.
	Watch(paths []string, onChange func(filePath string)) error

	// Stop ends monitoring and releases all resources. After Stop returns,
	// no further onChange calls will fire. Safe to call multiple times.
	Stop() error
}

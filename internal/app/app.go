// Package app wires together the automaton, the dictionary store and the
// watcher. It provides what the CLI needs: dictionary management, engine
// construction and scanning of files and streams.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/corey/acmatch/internal/adapters/ahocorasick"
	"github.com/corey/acmatch/internal/adapters/bbolt"
	"github.com/corey/acmatch/internal/domain/automaton"
	"github.com/corey/acmatch/internal/ports"
)

// Engine names accepted by NewEngine.
const (
	EngineAutomaton = "automaton"
	EngineReference = "reference"
)

// StdinPath names standard input in a path list.
const StdinPath = "-"

// App is the top-level container wiring all components together.
type App struct {
	Config Config
	Paths  *Paths
	Logger *slog.Logger
	Stdin  io.Reader // read for StdinPath

	mu    sync.Mutex
	store *bbolt.Store
}

// New creates an App. The dictionary store is opened lazily on first use.
func New(cfg Config) *App {
	cfg = cfg.withDefaults()
	return &App{
		Config: cfg,
		Paths:  NewPaths(cfg.WorkDir),
		Logger: cfg.Logger.With(slog.String("component", "app")),
		Stdin:  os.Stdin,
	}
}

// Store opens the bbolt dictionary store if needed and returns it.
func (a *App) Store() (ports.DictionaryStore, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.store != nil {
		return a.store, nil
	}
	if err := a.Paths.EnsureDirs(a.Config.DB); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	s, err := bbolt.NewStore(a.Config.DB)
	if err != nil {
		return nil, err
	}
	a.Logger.Debug("store opened", slog.String("path", a.Config.DB))
	a.store = s
	return s, nil
}

// Close releases the store, if open.
func (a *App) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.store == nil {
		return nil
	}
	err := a.store.Close()
	a.store = nil
	return err
}

// Compile builds an automaton from patterns using the configured limits.
func (a *App) Compile(patterns [][]byte) (*automaton.Automaton, error) {
	au, err := automaton.Compile(a.Config.Limits(), patterns...)
	if err != nil {
		return nil, err
	}
	st := au.Stats()
	a.Logger.Debug("automaton built",
		slog.Int("patterns", st.Patterns),
		slog.Int("nodes", st.Nodes),
		slog.Int("max_depth", st.MaxDepth))
	return au, nil
}

// SaveDictionary validates patterns by compiling them, then stores them
// under name. Duplicates are dropped, keeping first occurrence order.
func (a *App) SaveDictionary(name string, patterns [][]byte) (*ports.Dictionary, error) {
	au, err := a.Compile(patterns)
	if err != nil {
		return nil, err
	}
	dict := &ports.Dictionary{Name: name, Patterns: make([][]byte, 0, au.PatternCount())}
	for id := 0; id < au.PatternCount(); id++ {
		dict.Patterns = append(dict.Patterns, au.PatternText(id))
	}

	store, err := a.Store()
	if err != nil {
		return nil, err
	}
	if err := store.SaveDictionary(dict); err != nil {
		return nil, err
	}
	a.Logger.Info("dictionary saved", slog.String("name", name), slog.Int("patterns", len(dict.Patterns)))
	return dict, nil
}

// LoadDictionary returns the stored dictionary name or an error if it does not exist.
func (a *App) LoadDictionary(name string) (*ports.Dictionary, error) {
	store, err := a.Store()
	if err != nil {
		return nil, err
	}
	dict, err := store.LoadDictionary(name)
	if err != nil {
		return nil, err
	}
	if dict == nil {
		return nil, fmt.Errorf("dictionary %q not found", name)
	}
	return dict, nil
}

// Engine scans input with one PatternMatcher.
type Engine struct {
	Name    string
	Matcher ports.PatternMatcher
	Direct  bool // reduced ScanDirect mode; automaton engine only
}

// NewEngine builds the named engine over patterns. The reference engine does
// not support direct mode.
func (a *App) NewEngine(name string, patterns [][]byte, direct bool) (*Engine, error) {
	switch name {
	case "", EngineAutomaton:
		au, err := a.Compile(patterns)
		if err != nil {
			return nil, err
		}
		return &Engine{Name: EngineAutomaton, Matcher: au, Direct: direct}, nil
	case EngineReference:
		if direct {
			return nil, fmt.Errorf("engine %q does not support direct mode", name)
		}
		// Same validation and dedup as the automaton, so ids agree.
		au, err := a.Compile(patterns)
		if err != nil {
			return nil, err
		}
		deduped := make([][]byte, au.PatternCount())
		for id := range deduped {
			deduped[id] = au.PatternText(id)
		}
		ref, err := ahocorasick.NewReference(deduped)
		if err != nil {
			return nil, err
		}
		return &Engine{Name: EngineReference, Matcher: ref}, nil
	default:
		return nil, fmt.Errorf("unknown engine %q (want %s or %s)", name, EngineAutomaton, EngineReference)
	}
}

// Scan reads r to EOF and returns its matches. The automaton engine streams;
// the reference engine reads the whole input first.
func (e *Engine) Scan(r io.Reader) ([]ports.Match, error) {
	if au, ok := e.Matcher.(*automaton.Automaton); ok {
		if !e.Direct {
			return au.ScanReader(r)
		}
		s, err := au.NewDirectScanner()
		if err != nil {
			return nil, err
		}
		if _, err := io.Copy(s, r); err != nil {
			return s.Matches(), fmt.Errorf("read input: %w", err)
		}
		return s.Matches(), nil
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return e.Matcher.ScanAll(data)
}

// FileResult holds the matches for one scanned file.
type FileResult struct {
	Path    string
	Matches []ports.Match
	Err     error
}

// ScanFile scans a single file, or a.Stdin for StdinPath.
func (a *App) ScanFile(e *Engine, path string) FileResult {
	if path == StdinPath {
		matches, err := e.Scan(a.Stdin)
		return FileResult{Path: path, Matches: matches, Err: err}
	}
	f, err := os.Open(path)
	if err != nil {
		return FileResult{Path: path, Err: err}
	}
	defer f.Close()
	matches, err := e.Scan(f)
	return FileResult{Path: path, Matches: matches, Err: err}
}

// ExpandPaths resolves directories to the regular files beneath them, skipping
// VCS and tool directories. Files are returned as given, and so is StdinPath,
// which may appear at most once. The result is sorted within each directory
// and keeps argument order across arguments.
func ExpandPaths(paths []string) ([]string, error) {
	var out []string
	stdin := false
	for _, p := range paths {
		if p == StdinPath {
			if stdin {
				return nil, fmt.Errorf("standard input (%s) given more than once", StdinPath)
			}
			stdin = true
			out = append(out, p)
			continue
		}
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			out = append(out, p)
			continue
		}
		var files []string
		err = filepath.WalkDir(p, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return nil // skip unreadable
			}
			if d.IsDir() {
				if skipDirs[d.Name()] && path != p {
					return filepath.SkipDir
				}
				return nil
			}
			if d.Type().IsRegular() {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		sort.Strings(files)
		out = append(out, files...)
	}
	return out, nil
}

// skipDirs are never descended into when expanding directories.
var skipDirs = map[string]bool{
	".git":         true,
	".hg":          true,
	".svn":         true,
	"node_modules": true,
	".acmatch":     true,
}

// ScanFiles scans paths concurrently with Config.Workers goroutines sharing
// one engine. Results are returned in input order. Per-file errors are
// reported in FileResult.Err; the returned error is only ctx.Err().
func (a *App) ScanFiles(ctx context.Context, e *Engine, paths []string) ([]FileResult, error) {
	results := make([]FileResult, len(paths))
	jobs := make(chan int)

	workers := a.Config.Workers
	if workers > len(paths) {
		workers = len(paths)
	}

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = a.ScanFile(e, paths[i])
				if err := results[i].Err; err != nil {
					a.Logger.Warn("scan failed", slog.String("path", paths[i]), slog.Any("err", err))
				}
			}
		}()
	}

	var err error
dispatch:
	for i := range paths {
		select {
		case jobs <- i:
		case <-ctx.Done():
			err = ctx.Err()
			break dispatch
		}
	}
	close(jobs)
	wg.Wait()

	if err != nil {
		return nil, err
	}
	a.Logger.Debug("scan complete", slog.Int("files", len(paths)), slog.Int("workers", workers))
	return results, nil
}

package fsnotify

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// fsnotify Watcher Adapter: detect input changes, trigger rescan
// Expectation: file changes detected and callback fired within <100ms
// =============================================================================

// waitForCallback waits up to timeout for the callback channel to receive a value.
func waitForCallback(ch <-chan string, timeout time.Duration) (string, bool) {
	select {
	case v := <-ch:
		return v, true
	case <-time.After(timeout):
		return "", false
	}
}

func TestWatcher_DetectsFileChange(t *testing.T) {
	// Create a temp file, start watching, modify file.
	// onChange callback fires with the modified file path.
	dir := t.TempDir()
	testFile := filepath.Join(dir, "input.txt")
	require.NoError(t, os.WriteFile(testFile, []byte("# original"), 0644))

	w, err := NewWatcher()
	require.NoError(t, err)
	defer w.Stop()

	changed := make(chan string, 10)
	err = w.Watch([]string{dir}, func(path string) {
		changed <- path
	})
	require.NoError(t, err)

	// Give watcher time to start
	time.Sleep(50 * time.Millisecond)

	// Modify the file
	require.NoError(t, os.WriteFile(testFile, []byte("# modified"), 0644))

	path, ok := waitForCallback(changed, 2*time.Second)
	assert.True(t, ok, "expected callback for file change")
	assert.Equal(t, testFile, path)
}

func TestWatcher_DetectsNewFile(t *testing.T) {
	// Create a new file in watched directory.
	// onChange fires with the new file path.
	dir := t.TempDir()

	w, err := NewWatcher()
	require.NoError(t, err)
	defer w.Stop()

	changed := make(chan string, 10)
	err = w.Watch([]string{dir}, func(path string) {
		changed <- path
	})
	require.NoError(t, err)

	time.Sleep(50 * time.Millisecond)

	newFile := filepath.Join(dir, "new_input.txt")
	require.NoError(t, os.WriteFile(newFile, []byte("# new"), 0644))

	path, ok := waitForCallback(changed, 2*time.Second)
	assert.True(t, ok, "expected callback for new file")
	assert.Equal(t, newFile, path)
}

func TestWatcher_DetectsDeletedFile(t *testing.T) {
	// Delete a file in watched directory.
	// onChange fires so the caller can drop stale results.
	dir := t.TempDir()
	testFile := filepath.Join(dir, "to_delete.txt")
	require.NoError(t, os.WriteFile(testFile, []byte("# delete me"), 0644))

	w, err := NewWatcher()
	require.NoError(t, err)
	defer w.Stop()

	changed := make(chan string, 10)
	err = w.Watch([]string{dir}, func(path string) {
		changed <- path
	})
	require.NoError(t, err)

	time.Sleep(50 * time.Millisecond)

	require.NoError(t, os.Remove(testFile))

	path, ok := waitForCallback(changed, 2*time.Second)
	assert.True(t, ok, "expected callback for deleted file")
	assert.Equal(t, testFile, path)
}

func TestWatcher_IgnoresNoise(t *testing.T) {
	// Changes to .git/, node_modules/, .DS_Store, swap files
	// do NOT trigger onChange.
	dir := t.TempDir()

	// Create ignored directories
	gitDir := filepath.Join(dir, ".git")
	require.NoError(t, os.MkdirAll(gitDir, 0755))
	nmDir := filepath.Join(dir, "node_modules")
	require.NoError(t, os.MkdirAll(nmDir, 0755))

	w, err := NewWatcher()
	require.NoError(t, err)
	defer w.Stop()

	changed := make(chan string, 10)
	err = w.Watch([]string{dir}, func(path string) {
		changed <- path
	})
	require.NoError(t, err)

	time.Sleep(50 * time.Millisecond)

	// Write to ignored locations
	os.WriteFile(filepath.Join(gitDir, "HEAD"), []byte("ref"), 0644)
	os.WriteFile(filepath.Join(nmDir, "package.json"), []byte("{}"), 0644)
	os.WriteFile(filepath.Join(dir, ".DS_Store"), []byte("x"), 0644)
	os.WriteFile(filepath.Join(dir, "test.swp"), []byte("x"), 0644)

	// None of these should trigger callback
	_, ok := waitForCallback(changed, 500*time.Millisecond)
	assert.False(t, ok, "should not have received callback for ignored files")

	// But a real input file should trigger
	inputFile := filepath.Join(dir, "access.log")
	require.NoError(t, os.WriteFile(inputFile, []byte("GET /"), 0644))

	path, ok := waitForCallback(changed, 2*time.Second)
	assert.True(t, ok, "expected callback for input file")
	assert.Equal(t, inputFile, path)
}

func TestWatcher_CallbackLatency(t *testing.T) {
	// Time from file change to onChange callback < debounce + 100ms.
	// Measures fsnotify event delivery, not rescan cost.
	dir := t.TempDir()
	testFile := filepath.Join(dir, "latency.txt")
	require.NoError(t, os.WriteFile(testFile, []byte("# initial"), 0644))

	w, err := NewWatcher()
	require.NoError(t, err)
	defer w.Stop()

	var callbackTime time.Time
	var mu sync.Mutex
	err = w.Watch([]string{dir}, func(path string) {
		mu.Lock()
		callbackTime = time.Now()
		mu.Unlock()
	})
	require.NoError(t, err)

	time.Sleep(100 * time.Millisecond)

	writeTime := time.Now()
	require.NoError(t, os.WriteFile(testFile, []byte("# changed"), 0644))

	// Wait for callback
	time.Sleep(500 * time.Millisecond)

	mu.Lock()
	latency := callbackTime.Sub(writeTime)
	mu.Unlock()

	// The callback fires once events have been quiet for debounceInterval.
	limit := debounceInterval + 100*time.Millisecond
	assert.Less(t, latency, limit, "callback latency %v exceeds %v", latency, limit)
	t.Logf("Callback latency: %v", latency)
}

func TestWatcher_StopCleanup(t *testing.T) {
	// After Stop(), no more callbacks fire.
	// Resources cleaned up, no goroutine leaks.
	dir := t.TempDir()

	w, err := NewWatcher()
	require.NoError(t, err)

	callCount := 0
	var mu sync.Mutex
	err = w.Watch([]string{dir}, func(path string) {
		mu.Lock()
		callCount++
		mu.Unlock()
	})
	require.NoError(t, err)

	time.Sleep(50 * time.Millisecond)

	// Stop the watcher
	err = w.Stop()
	require.NoError(t, err)

	// Record count after stop
	mu.Lock()
	countAfterStop := callCount
	mu.Unlock()

	// Write file after stop: should NOT trigger callback
	os.WriteFile(filepath.Join(dir, "after_stop.txt"), []byte("# nope"), 0644)
	time.Sleep(200 * time.Millisecond)

	mu.Lock()
	countAfterWrite := callCount
	mu.Unlock()

	assert.Equal(t, countAfterStop, countAfterWrite, "callbacks fired after Stop()")

	// Double-stop should be safe
	err = w.Stop()
	assert.NoError(t, err)
}

func TestWatcher_SingleFile(t *testing.T) {
	// Watching a single file reports that file only, not its siblings.
	dir := t.TempDir()
	target := filepath.Join(dir, "watched.txt")
	sibling := filepath.Join(dir, "sibling.txt")
	require.NoError(t, os.WriteFile(target, []byte("a"), 0644))
	require.NoError(t, os.WriteFile(sibling, []byte("a"), 0644))

	w, err := NewWatcher()
	require.NoError(t, err)
	defer w.Stop()

	changed := make(chan string, 10)
	require.NoError(t, w.Watch([]string{target}, func(path string) {
		changed <- path
	}))

	time.Sleep(50 * time.Millisecond)

	require.NoError(t, os.WriteFile(sibling, []byte("b"), 0644))
	_, ok := waitForCallback(changed, 300*time.Millisecond)
	assert.False(t, ok, "sibling change should be filtered")

	require.NoError(t, os.WriteFile(target, []byte("b"), 0644))
	path, ok := waitForCallback(changed, 2*time.Second)
	assert.True(t, ok, "expected callback for watched file")
	assert.Equal(t, target, path)
}

func TestWatcher_TrailingWriteDelivered(t *testing.T) {
	// Two appends 20ms apart fall inside one debounce window. The callback
	// must come after the second append and see the final contents.
	dir := t.TempDir()
	target := filepath.Join(dir, "app.log")
	require.NoError(t, os.WriteFile(target, nil, 0644))

	w, err := NewWatcher()
	require.NoError(t, err)
	defer w.Stop()

	type call struct {
		at      time.Time
		content string
	}
	calls := make(chan call, 10)
	require.NoError(t, w.Watch([]string{dir}, func(path string) {
		data, _ := os.ReadFile(path)
		calls <- call{at: time.Now(), content: string(data)}
	}))
	time.Sleep(50 * time.Millisecond)

	appendLine := func(line string) {
		f, err := os.OpenFile(target, os.O_APPEND|os.O_WRONLY, 0644)
		require.NoError(t, err)
		_, err = f.WriteString(line)
		require.NoError(t, err)
		require.NoError(t, f.Close())
	}
	appendLine("line without match\n")
	time.Sleep(20 * time.Millisecond)
	appendLine("needle\n")
	second := time.Now()

	var last call
	got := 0
	for {
		select {
		case c := <-calls:
			last = c
			got++
			continue
		case <-time.After(500 * time.Millisecond):
		}
		break
	}

	require.Positive(t, got, "expected a callback")
	assert.True(t, last.at.After(second), "last callback fired before the second write")
	assert.Equal(t, "line without match\nneedle\n", last.content)
	assert.Equal(t, 1, got, "burst should collapse into one callback")
}

func TestWatcher_StopCancelsPending(t *testing.T) {
	// A change still inside its debounce window is dropped by Stop.
	dir := t.TempDir()

	w, err := NewWatcher()
	require.NoError(t, err)

	var mu sync.Mutex
	calls := 0
	require.NoError(t, w.Watch([]string{dir}, func(string) {
		mu.Lock()
		calls++
		mu.Unlock()
	}))
	time.Sleep(50 * time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "late.txt"), []byte("x"), 0644))
	time.Sleep(10 * time.Millisecond)
	require.NoError(t, w.Stop())

	time.Sleep(2 * debounceInterval)
	mu.Lock()
	defer mu.Unlock()
	assert.Zero(t, calls)
}

func TestWatcher_MissingPath(t *testing.T) {
	w, err := NewWatcher()
	require.NoError(t, err)
	defer w.Stop()

	err = w.Watch([]string{filepath.Join(t.TempDir(), "missing")}, func(string) {})
	assert.Error(t, err)
}

func TestShouldIgnorePath(t *testing.T) {
	assert.True(t, shouldIgnorePath("/x/.git/HEAD"))
	assert.True(t, shouldIgnorePath("/x/notes.txt.swp"))
	assert.True(t, shouldIgnorePath("/x/notes.txt~"))
	assert.False(t, shouldIgnorePath("/x/notes.txt"))
}

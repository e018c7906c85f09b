package bbolt

import (
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/corey/acmatch/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// bbolt Dictionary Store: save/load named pattern lists
// Expectation: dictionaries survive restarts byte-for-byte, pattern order is
// preserved, and a locked database fails fast instead of hanging.
// =============================================================================

// newTestStore creates a temporary bbolt store for testing.
func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")
	store, err := NewStore(path)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store, path
}

func makeTestDictionary(name string) *ports.Dictionary {
	return &ports.Dictionary{
		Name: name,
		Patterns: [][]byte{
			[]byte("ab"),
			[]byte("c"),
			[]byte("a"),
			[]byte("acd"),
			{0x00, 0xff, 0xfe}, // not valid UTF-8
		},
	}
}

func TestStore_SaveLoadDictionary_Roundtrip(t *testing.T) {
	store, _ := newTestStore(t)
	store.now = func() time.Time { return time.Unix(1700000000, 0) }

	dict := makeTestDictionary("secrets")
	require.NoError(t, store.SaveDictionary(dict))
	assert.Equal(t, int64(1700000000), dict.UpdatedAt)

	loaded, err := store.LoadDictionary("secrets")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "secrets", loaded.Name)
	assert.Equal(t, dict.Patterns, loaded.Patterns)
	assert.Equal(t, int64(1700000000), loaded.UpdatedAt)
}

func TestStore_LoadMissing(t *testing.T) {
	store, _ := newTestStore(t)

	loaded, err := store.LoadDictionary("nope")
	require.NoError(t, err)
	assert.Nil(t, loaded)

	names, err := store.ListDictionaries()
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestStore_SaveOverwrites(t *testing.T) {
	store, _ := newTestStore(t)
	require.NoError(t, store.SaveDictionary(makeTestDictionary("d")))
	require.NoError(t, store.SaveDictionary(&ports.Dictionary{Name: "d", Patterns: [][]byte{[]byte("x")}}))

	loaded, err := store.LoadDictionary("d")
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, loaded.Strings())
}

func TestStore_SaveRejectsInvalid(t *testing.T) {
	store, _ := newTestStore(t)
	assert.Error(t, store.SaveDictionary(nil))
	assert.Error(t, store.SaveDictionary(&ports.Dictionary{}))
}

func TestStore_ListAndDelete(t *testing.T) {
	store, _ := newTestStore(t)
	for _, name := range []string{"zeta", "alpha", "mid"} {
		require.NoError(t, store.SaveDictionary(makeTestDictionary(name)))
	}

	names, err := store.ListDictionaries()
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, names)

	require.NoError(t, store.DeleteDictionary("mid"))
	loaded, err := store.LoadDictionary("mid")
	require.NoError(t, err)
	assert.Nil(t, loaded)

	// Others unaffected
	loaded, err = store.LoadDictionary("alpha")
	require.NoError(t, err)
	require.NotNil(t, loaded)

	// Delete nonexistent: idempotent
	assert.NoError(t, store.DeleteDictionary("mid"))
	assert.NoError(t, store.DeleteDictionary("never"))
}

func TestStore_DeleteOnFreshDatabase(t *testing.T) {
	store, _ := newTestStore(t)
	assert.NoError(t, store.DeleteDictionary("anything"))
}

func TestStore_StateSurvivesRestart(t *testing.T) {
	// Close (bbolt fsyncs on commit) and reopen; the committed dictionary is intact.
	dir := t.TempDir()
	path := filepath.Join(dir, "restart.db")

	store, err := NewStore(path)
	require.NoError(t, err)
	dict := makeTestDictionary("keep")
	require.NoError(t, store.SaveDictionary(dict))
	require.NoError(t, store.Close())

	store2, err := NewStore(path)
	require.NoError(t, err)
	defer store2.Close()

	loaded, err := store2.LoadDictionary("keep")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, dict.Patterns, loaded.Patterns)
}

func TestStore_ConcurrentReads(t *testing.T) {
	// bbolt supports concurrent readers, single writer.
	store, _ := newTestStore(t)
	require.NoError(t, store.SaveDictionary(makeTestDictionary("d")))

	var wg sync.WaitGroup
	errs := make(chan error, 10)

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			dict, err := store.LoadDictionary("d")
			if err != nil {
				errs <- err
				return
			}
			if dict == nil {
				errs <- fmt.Errorf("got nil dictionary")
				return
			}
			if len(dict.Patterns) != 5 {
				errs <- fmt.Errorf("expected 5 patterns, got %d", len(dict.Patterns))
			}
		}()
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent read error: %v", err)
	}
}

func TestEncoding_RejectsCorruptData(t *testing.T) {
	good := encodePatterns([][]byte{[]byte("abc"), []byte("de")}, 42)

	patterns, ts, err := decodePatterns(good)
	require.NoError(t, err)
	assert.Equal(t, int64(42), ts)
	assert.Equal(t, [][]byte{[]byte("abc"), []byte("de")}, patterns)

	for cut := 0; cut < len(good); cut++ {
		_, _, err := decodePatterns(good[:cut])
		assert.Error(t, err, "truncated to %d bytes", cut)
	}

	bad := append([]byte(nil), good...)
	bad[0] = 9
	_, _, err = decodePatterns(bad)
	assert.ErrorContains(t, err, "version")

	_, _, err = decodePatterns(append(good, 0x01))
	assert.ErrorContains(t, err, "trailing")
}

func TestEncoding_EmptyList(t *testing.T) {
	patterns, _, err := decodePatterns(encodePatterns(nil, 0))
	require.NoError(t, err)
	assert.Empty(t, patterns)
}

// =============================================================================
// Lock contention tests: verify the 1s timeout prevents hangs
// =============================================================================

func TestStore_OpenTimeout_DoesNotHang(t *testing.T) {
	// When another holder has the bbolt exclusive lock, a second open should
	// time out in ~1 second, not hang forever.
	dir := t.TempDir()
	path := filepath.Join(dir, "locked.db")

	store1, err := NewStore(path)
	require.NoError(t, err)
	defer store1.Close()

	start := time.Now()
	store2, err := NewStore(path)
	elapsed := time.Since(start)

	require.Error(t, err, "second open should fail with lock timeout")
	assert.Nil(t, store2, "store should be nil on timeout")
	assert.Contains(t, err.Error(), "bbolt open")
	assert.Contains(t, err.Error(), "timeout", "error should mention timeout")
	assert.Less(t, elapsed, 3*time.Second, "should complete within 3s, not hang")
}

func TestStore_OpenAfterClose_Succeeds(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "released.db")

	store1, err := NewStore(path)
	require.NoError(t, err)
	require.NoError(t, store1.SaveDictionary(makeTestDictionary("test")))
	store1.Close()

	start := time.Now()
	store2, err := NewStore(path)
	elapsed := time.Since(start)

	require.NoError(t, err, "open after close should succeed")
	require.NotNil(t, store2)
	defer store2.Close()
	assert.Less(t, elapsed, 500*time.Millisecond, "should open instantly after lock released")

	dict, err := store2.LoadDictionary("test")
	require.NoError(t, err)
	assert.Len(t, dict.Patterns, 5)
}

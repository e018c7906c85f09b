package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPaths(t *testing.T) {
	p := NewPaths("/work")
	assert.Equal(t, filepath.Join("/work", ".acmatch"), p.Root)
	assert.Equal(t, filepath.Join("/work", ".acmatch", "acmatch.db"), p.DB)
	assert.Equal(t, filepath.Join("/work", ".acmatch", "config.yaml"), p.Config)
}

func TestEnsureDirs(t *testing.T) {
	dir := t.TempDir()
	p := NewPaths(dir)
	custom := filepath.Join(dir, "elsewhere", "dicts.db")

	// First call creates directories.
	require.NoError(t, p.EnsureDirs(custom))
	for _, d := range []string{p.Root, filepath.Dir(custom)} {
		info, err := os.Stat(d)
		require.NoError(t, err, "dir %s should exist", d)
		assert.True(t, info.IsDir())
	}

	// Second call is a no-op.
	require.NoError(t, p.EnsureDirs(custom))
}

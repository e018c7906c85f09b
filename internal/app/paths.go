package app

import (
	"os"
	"path/filepath"
)

// Paths holds all resolved filesystem paths for the .acmatch/ directory.
// All fields are computed once at construction.
type Paths struct {
	Root   string // .acmatch/
	DB     string // .acmatch/acmatch.db
	Config string // .acmatch/config.yaml
}

// NewPaths constructs all resolved paths from a working directory.
func NewPaths(workDir string) *Paths {
	root := filepath.Join(workDir, ".acmatch")
	return &Paths{
		Root:   root,
		DB:     filepath.Join(root, "acmatch.db"),
		Config: filepath.Join(root, "config.yaml"),
	}
}

// EnsureDirs creates the .acmatch/ directory and the parent of dbPath. Idempotent.
func (p *Paths) EnsureDirs(dbPath string) error {
	for _, d := range []string{p.Root, filepath.Dir(dbPath)} {
		if err := os.MkdirAll(d, 0755); err != nil {
			return err
		}
	}
	return nil
}

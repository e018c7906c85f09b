package app

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// yamlDictionary is the YAML form of a pattern file:
//
//	patterns:
//	  - password
//	  - api_key
type yamlDictionary struct {
	Patterns []string `yaml:"patterns"`
}

// LoadPatternFile reads patterns from path. Files ending in .yaml or .yml hold
// a "patterns" list; anything else is plain text with one pattern per line,
// where blank lines and lines starting with '#' are skipped.
func LoadPatternFile(path string) ([][]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read patterns: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var yd yamlDictionary
		if err := yaml.Unmarshal(data, &yd); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		out := make([][]byte, len(yd.Patterns))
		for i, p := range yd.Patterns {
			out[i] = []byte(p)
		}
		return out, nil
	default:
		return parsePatternLines(data)
	}
}

func parsePatternLines(data []byte) ([][]byte, error) {
	var out [][]byte
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		line := bytes.TrimSuffix(sc.Bytes(), []byte("\r"))
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		out = append(out, append([]byte(nil), line...))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read patterns: %w", err)
	}
	return out, nil
}

// StringsToPatterns converts command line patterns to byte patterns.
func StringsToPatterns(ss []string) [][]byte {
	out := make([][]byte, len(ss))
	for i, s := range ss {
		out[i] = []byte(s)
	}
	return out
}

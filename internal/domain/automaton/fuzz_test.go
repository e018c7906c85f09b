package automaton

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// FuzzScanAll checks ScanAll against the brute-force oracle. The first input is
// a comma-separated pattern list.
func FuzzScanAll(f *testing.F) {
	f.Add("ab,c,a,acd", "dabcacdfc")
	f.Add("he,she,his,hers", "ushers")
	f.Add("aa,a,aaa", "aaaaaa")
	f.Add("x", "")

	f.Fuzz(func(t *testing.T, list, text string) {
		seen := make(map[string]bool)
		var patterns []string
		for _, p := range strings.Split(list, ",") {
			if p == "" || seen[p] || len(patterns) == DefaultMaxPatterns {
				continue
			}
			seen[p] = true
			patterns = append(patterns, p)
		}

		a, err := CompileStrings(Limits{}, patterns...)
		require.NoError(t, err)

		got, err := a.ScanAll([]byte(text))
		require.NoError(t, err)
		assert.ElementsMatch(t, bruteForce(patterns, text), got)

		direct, err := a.ScanDirect([]byte(text))
		require.NoError(t, err)
		assert.Subset(t, got, direct)
	})
}

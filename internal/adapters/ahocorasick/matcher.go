// Package ahocorasick provides a reference PatternMatcher backed by the
// petar-dambovaliev/aho-corasick library. It is used to cross-check the
// in-house automaton and as an alternative scan engine in the CLI.
package ahocorasick

import (
	"fmt"
	"sort"

	"github.com/corey/acmatch/internal/ports"
	aho "github.com/petar-dambovaliev/aho-corasick"
)

// Reference implements ports.PatternMatcher using the library's DFA in
// overlapping mode. Results are reordered to the port's contract: by end
// offset, longest first.
type Reference struct {
	automaton aho.AhoCorasick
	patterns  [][]byte
}

// NewReference builds a reference matcher from the given patterns. Pattern i
// gets id i. Empty patterns are rejected.
func NewReference(patterns [][]byte) (*Reference, error) {
	p := make([][]byte, len(patterns))
	s := make([]string, len(patterns))
	for i, pat := range patterns {
		if len(pat) == 0 {
			return nil, fmt.Errorf("pattern %d: empty pattern", i)
		}
		p[i] = append([]byte(nil), pat...)
		s[i] = string(pat)
	}
	builder := aho.NewAhoCorasickBuilder(aho.Opts{
		DFA: true,
	})
	return &Reference{
		automaton: builder.Build(s),
		patterns:  p,
	}, nil
}

// ScanAll finds all pattern matches in content, overlapping ones included.
func (r *Reference) ScanAll(content []byte) ([]ports.Match, error) {
	if len(r.patterns) == 0 {
		return nil, nil
	}
	iter := r.automaton.IterOverlappingByte(content)
	var matches []ports.Match
	for next := iter.Next(); next != nil; next = iter.Next() {
		m := *next
		matches = append(matches, ports.Match{
			PatternID: m.Pattern(),
			Start:     m.Start(),
			Length:    m.End() - m.Start(),
		})
	}
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].End() != matches[j].End() {
			return matches[i].End() < matches[j].End()
		}
		return matches[i].Length > matches[j].Length
	})
	return matches, nil
}

// PatternCount returns the number of patterns in the automaton.
func (r *Reference) PatternCount() int {
	return len(r.patterns)
}

// PatternText returns the pattern at the given index.
func (r *Reference) PatternText(id int) []byte {
	if id < 0 || id >= len(r.patterns) {
		return nil
	}
	return r.patterns[id]
}

var _ ports.PatternMatcher = (*Reference)(nil)

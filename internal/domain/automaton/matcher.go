// Package automaton implements Aho-Corasick multi-pattern matching over bytes.
//
// A Matcher has two phases. While building, patterns are added and routed
// into a trie. Build then attaches failure and output links in one
// breadth-first pass and freezes the result into an immutable Automaton.
// Adding patterns after Build fails with ErrAlreadyBuilt; create a new
// Matcher to change the dictionary.
//
// An Automaton carries no mutable state. Any number of goroutines may scan
// with it at once; each scan keeps its own current state.
package automaton

import (
	"fmt"

	"github.com/corey/acmatch/internal/ports"
)

// Matcher collects patterns and builds the automaton. It is not safe for
// concurrent use while building.
type Matcher struct {
	limits Limits
	set    *PatternSet
	trie   *trie
	built  *Automaton
}

// NewMatcher creates an empty Matcher with the given limits.
func NewMatcher(limits Limits) *Matcher {
	limits = limits.normalized()
	return &Matcher{
		limits: limits,
		set:    NewPatternSet(limits.MaxPatterns),
		trie:   newTrie(limits.MaxChildren),
	}
}

// Limits returns the effective limits.
func (m *Matcher) Limits() Limits { return m.limits }

// AddPattern adds text to the dictionary and returns its id. Adding text that
// is already present returns the existing id. On error nothing is changed.
func (m *Matcher) AddPattern(text []byte) (int, error) {
	if m.built != nil {
		return -1, ErrAlreadyBuilt
	}
	p, dup, err := m.set.prepare(text)
	if err != nil {
		return -1, err
	}
	if dup {
		if !m.trie.touch(p.Text) {
			return -1, fmt.Errorf("pattern %d has no trie path", p.ID)
		}
		m.set.uses[p.ID]++
		return p.ID, nil
	}
	if err := m.trie.insert(p); err != nil {
		return -1, err
	}
	m.set.commit(p)
	return p.ID, nil
}

// AddPatterns adds texts in order. It stops at the first failure and returns
// the ids added so far together with the error; earlier patterns stay added.
func (m *Matcher) AddPatterns(texts [][]byte) ([]int, error) {
	ids := make([]int, 0, len(texts))
	for i, text := range texts {
		id, err := m.AddPattern(text)
		if err != nil {
			return ids, fmt.Errorf("pattern %d %q: %w", i, text, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// AddStrings is AddPatterns for string input.
func (m *Matcher) AddStrings(texts ...string) ([]int, error) {
	bs := make([][]byte, len(texts))
	for i, t := range texts {
		bs[i] = []byte(t)
	}
	return m.AddPatterns(bs)
}

// Patterns returns the pattern set.
func (m *Matcher) Patterns() *PatternSet { return m.set }

// Build finalizes the dictionary and returns the automaton. Calling Build
// again returns the same automaton.
func (m *Matcher) Build() (*Automaton, error) {
	if m.built != nil {
		return m.built, nil
	}
	m.built = build(m.trie, m.set.All())
	m.trie = nil
	return m.built, nil
}

// Built reports whether Build has been called.
func (m *Matcher) Built() bool { return m.built != nil }

// Automaton returns the built automaton, or ErrNotBuilt.
func (m *Matcher) Automaton() (*Automaton, error) {
	if m.built == nil {
		return nil, ErrNotBuilt
	}
	return m.built, nil
}

// ScanAll scans text with the built automaton. See Automaton.ScanAll.
func (m *Matcher) ScanAll(text []byte) ([]ports.Match, error) {
	a, err := m.Automaton()
	if err != nil {
		return nil, err
	}
	return a.ScanAll(text)
}

// ScanDirect scans text in reduced mode. See Automaton.ScanDirect.
func (m *Matcher) ScanDirect(text []byte) ([]ports.Match, error) {
	a, err := m.Automaton()
	if err != nil {
		return nil, err
	}
	return a.ScanDirect(text)
}

// Compile builds an automaton from texts with the given limits.
func Compile(limits Limits, texts ...[]byte) (*Automaton, error) {
	m := NewMatcher(limits)
	if _, err := m.AddPatterns(texts); err != nil {
		return nil, err
	}
	return m.Build()
}

// CompileStrings is Compile for string patterns.
func CompileStrings(limits Limits, texts ...string) (*Automaton, error) {
	m := NewMatcher(limits)
	if _, err := m.AddStrings(texts...); err != nil {
		return nil, err
	}
	return m.Build()
}

var _ ports.PatternMatcher = (*Automaton)(nil)

package automaton

import (
	"fmt"
	"io"

	"github.com/corey/acmatch/internal/ports"
)

// State is a position in the automaton. The zero State is the root.
type State int32

// Start returns the initial state.
func (a *Automaton) Start() State { return State(rootIndex) }

// Step returns the state reached from state on input b: the child on b if it
// exists, otherwise the child on b of the nearest failure ancestor, otherwise
// the root. On an unbuilt automaton, or for a state that does not belong to
// a, it returns the root.
func (a *Automaton) Step(state State, b byte) State {
	if !a.valid(state) {
		return a.Start()
	}
	return State(a.step(int32(state), b))
}

func (a *Automaton) valid(state State) bool {
	return a.built() && state >= 0 && int(state) < len(a.nodes)
}

func (a *Automaton) step(n int32, b byte) int32 {
	for {
		if next, ok := a.nodes[n].children[b]; ok {
			return next
		}
		if n == rootIndex {
			return rootIndex
		}
		n = a.nodes[n].failure
	}
}

// IsTerminal reports whether some pattern ends exactly at state. It is false
// for states Step cannot reach.
func (a *Automaton) IsTerminal(state State) bool {
	return a.valid(state) && a.nodes[state].terminal
}

// emit reports the matches ending at offset end (exclusive) in state n. With
// direct set only the pattern ending exactly at n is reported; otherwise the
// output chain is walked too, nearest suffix first. It returns false if fn
// asked to stop.
func (a *Automaton) emit(n int32, end int, direct bool, fn func(ports.Match) bool) bool {
	nd := &a.nodes[n]
	if nd.terminal {
		if !fn(a.match(nd.pattern, end)) {
			return false
		}
	}
	if direct {
		return true
	}
	for o := nd.output; o != noNode; o = a.nodes[o].output {
		if !fn(a.match(a.nodes[o].pattern, end)) {
			return false
		}
	}
	return true
}

func (a *Automaton) match(id, end int) ports.Match {
	length := a.patterns[id].Length
	return ports.Match{PatternID: id, Start: end - length, Length: length}
}

// walk feeds text through the automaton from state n, with base as the
// absolute offset of text[0]. It returns the final state and false if fn
// stopped the walk early.
func (a *Automaton) walk(n int32, base int, text []byte, direct bool, fn func(ports.Match) bool) (int32, bool) {
	for i, b := range text {
		n = a.step(n, b)
		if n == rootIndex {
			continue
		}
		if !a.emit(n, base+i+1, direct, fn) {
			return n, false
		}
	}
	return n, true
}

// ScanAll reports every occurrence of every pattern in text, ordered by end
// offset. Matches ending at the same offset are ordered longest first.
func (a *Automaton) ScanAll(text []byte) ([]ports.Match, error) {
	return a.collect(text, false)
}

// ScanDirect reports, at each offset, only the pattern that ends exactly at the
// reached state. Shorter patterns that are suffixes of a longer match ending at
// the same offset are skipped, so the result is a subset of ScanAll. Use it
// only where those nested matches don't matter.
func (a *Automaton) ScanDirect(text []byte) ([]ports.Match, error) {
	return a.collect(text, true)
}

func (a *Automaton) collect(text []byte, direct bool) ([]ports.Match, error) {
	if !a.built() {
		return nil, ErrNotBuilt
	}
	var matches []ports.Match
	a.walk(rootIndex, 0, text, direct, func(m ports.Match) bool {
		matches = append(matches, m)
		return true
	})
	return matches, nil
}

// Each calls fn for every match in text, in ScanAll order, until fn returns false.
func (a *Automaton) Each(text []byte, fn func(ports.Match) bool) error {
	if !a.built() {
		return ErrNotBuilt
	}
	a.walk(rootIndex, 0, text, false, fn)
	return nil
}

// Contains reports whether any pattern occurs in text. It stops at the first match.
func (a *Automaton) Contains(text []byte) (bool, error) {
	found := false
	err := a.Each(text, func(ports.Match) bool {
		found = true
		return false
	})
	return found, err
}

// Count returns the number of matches ScanAll would report.
func (a *Automaton) Count(text []byte) (int, error) {
	n := 0
	err := a.Each(text, func(ports.Match) bool {
		n++
		return true
	})
	return n, err
}

// Scanner scans a stream fed in chunks. It owns its current state, so any
// number of Scanners may share one Automaton. A Scanner itself is not safe for
// concurrent use.
type Scanner struct {
	a       *Automaton
	direct  bool
	state   int32
	offset  int
	matches []ports.Match
}

// NewScanner returns a Scanner in ScanAll mode, positioned at offset 0.
func (a *Automaton) NewScanner() (*Scanner, error) {
	if !a.built() {
		return nil, ErrNotBuilt
	}
	return &Scanner{a: a, state: rootIndex}, nil
}

// NewDirectScanner returns a Scanner in ScanDirect mode.
func (a *Automaton) NewDirectScanner() (*Scanner, error) {
	s, err := a.NewScanner()
	if err != nil {
		return nil, err
	}
	s.direct = true
	return s, nil
}

// Write feeds the next chunk of the stream. Matches spanning chunk boundaries
// are reported with offsets relative to the start of the stream. It never fails.
func (s *Scanner) Write(chunk []byte) (int, error) {
	s.state, _ = s.a.walk(s.state, s.offset, chunk, s.direct, func(m ports.Match) bool {
		s.matches = append(s.matches, m)
		return true
	})
	s.offset += len(chunk)
	return len(chunk), nil
}

// Matches returns the matches found so far.
func (s *Scanner) Matches() []ports.Match { return s.matches }

// Offset returns the number of bytes consumed so far.
func (s *Scanner) Offset() int { return s.offset }

// Reset returns the scanner to the root state at offset 0 and drops collected matches.
func (s *Scanner) Reset() {
	s.state = rootIndex
	s.offset = 0
	s.matches = nil
}

// ScanReader reads r to EOF and returns all matches, as ScanAll would on the
// concatenated input.
func (a *Automaton) ScanReader(r io.Reader) ([]ports.Match, error) {
	s, err := a.NewScanner()
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(s, r); err != nil {
		return s.Matches(), fmt.Errorf("read input: %w", err)
	}
	return s.Matches(), nil
}

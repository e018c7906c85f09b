package automaton

import "fmt"

// Pattern is one dictionary entry. IDs are dense, zero-based and assigned in
// insertion order.
type Pattern struct {
	ID     int
	Text   []byte
	Length int
}

// PatternSet stores the dictionary and assigns stable ids.
// Re-adding identical text returns the existing id and bumps its usage count;
// it never creates a second Pattern.
type PatternSet struct {
	max      int
	patterns []Pattern
	uses     []int
	byText   map[string]int
}

// NewPatternSet creates an empty set holding at most maxPatterns distinct
// patterns. A non-positive maxPatterns uses DefaultMaxPatterns.
func NewPatternSet(maxPatterns int) *PatternSet {
	if maxPatterns <= 0 {
		maxPatterns = DefaultMaxPatterns
	}
	return &PatternSet{
		max:    maxPatterns,
		byText: make(map[string]int),
	}
}

// Add appends text and returns its id.
func (s *PatternSet) Add(text []byte) (int, error) {
	p, dup, err := s.prepare(text)
	if err != nil {
		return -1, err
	}
	if dup {
		s.uses[p.ID]++
		return p.ID, nil
	}
	s.commit(p)
	return p.ID, nil
}

// AddAll adds texts in order. It stops at the first failure and returns the
// ids added so far; earlier additions are kept.
func (s *PatternSet) AddAll(texts [][]byte) ([]int, error) {
	ids := make([]int, 0, len(texts))
	for i, text := range texts {
		id, err := s.Add(text)
		if err != nil {
			return ids, fmt.Errorf("pattern %d: %w", i, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// prepare validates text without modifying the set. For duplicate text it
// returns the stored pattern and dup=true; otherwise the pattern that commit
// would append.
func (s *PatternSet) prepare(text []byte) (Pattern, bool, error) {
	if len(text) == 0 {
		return Pattern{}, false, fmt.Errorf("empty pattern: %w", ErrValidation)
	}
	if id, ok := s.byText[string(text)]; ok {
		return s.patterns[id], true, nil
	}
	if len(s.patterns) >= s.max {
		return Pattern{}, false, fmt.Errorf("pattern limit %d reached: %w", s.max, ErrCapacityExceeded)
	}
	owned := make([]byte, len(text))
	copy(owned, text)
	return Pattern{ID: len(s.patterns), Text: owned, Length: len(owned)}, false, nil
}

func (s *PatternSet) commit(p Pattern) {
	s.patterns = append(s.patterns, p)
	s.uses = append(s.uses, 1)
	s.byText[string(p.Text)] = p.ID
}

// Len returns the number of distinct patterns.
func (s *PatternSet) Len() int { return len(s.patterns) }

// Max returns the pattern capacity.
func (s *PatternSet) Max() int { return s.max }

// Get returns the pattern with the given id.
func (s *PatternSet) Get(id int) (Pattern, bool) {
	if id < 0 || id >= len(s.patterns) {
		return Pattern{}, false
	}
	return s.patterns[id], true
}

// Lookup returns the id of text if it is in the set.
func (s *PatternSet) Lookup(text []byte) (int, bool) {
	id, ok := s.byText[string(text)]
	return id, ok
}

// Uses returns how many times the pattern was added, or 0 for an unknown id.
func (s *PatternSet) Uses(id int) int {
	if id < 0 || id >= len(s.uses) {
		return 0
	}
	return s.uses[id]
}

// All returns the patterns in id order. The slice is a copy; pattern texts are shared.
func (s *PatternSet) All() []Pattern {
	out := make([]Pattern, len(s.patterns))
	copy(out, s.patterns)
	return out
}

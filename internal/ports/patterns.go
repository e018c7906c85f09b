package ports

// PatternMatcher reports every occurrence of every dictionary pattern in content
// using multi-pattern matching (Aho-Corasick). A single pass over the content
// finds all patterns simultaneously, overlapping and nested occurrences
// included. This is O(n + m + z) where n=content length, m=total pattern
// length, z=number of matches.
//
// Implementations are immutable once built and safe for concurrent ScanAll
// calls. The dictionary cannot change after construction; build a new matcher
// to change it.
type PatternMatcher interface {
	// ScanAll returns all matches in content, ordered by end offset. Matches
	// ending at the same offset are ordered longest first.
	ScanAll(content []byte) ([]Match, error)

	// PatternCount returns the number of distinct patterns in the dictionary.
	PatternCount() int

	// PatternText returns the text of pattern id, or nil if id is out of range.
	PatternText(id int) []byte
}

// Match is one occurrence of a dictionary pattern in scanned content.
// Offsets are byte offsets into the content.
type Match struct {
	PatternID int `json:"pattern"`
	Start     int `json:"start"`  // inclusive
	Length    int `json:"length"` // pattern length in bytes
}

// End returns the exclusive end offset of the match.
func (m Match) End() int {
	return m.Start + m.Length
}

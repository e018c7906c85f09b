package automaton

// Default limits, matching the historical fixed-size tables.
const (
	DefaultMaxPatterns = 50
	DefaultMaxChildren = 256
)

// Limits bounds the size of a pattern set and the out-degree of trie nodes.
// Zero or negative fields fall back to the defaults.
type Limits struct {
	MaxPatterns int // maximum number of distinct patterns
	MaxChildren int // maximum children of any single node
}

// DefaultLimits returns the default limits.
func DefaultLimits() Limits {
	return Limits{MaxPatterns: DefaultMaxPatterns, MaxChildren: DefaultMaxChildren}
}

// normalized returns l with unset fields replaced by defaults.
func (l Limits) normalized() Limits {
	if l.MaxPatterns <= 0 {
		l.MaxPatterns = DefaultMaxPatterns
	}
	if l.MaxChildren <= 0 {
		l.MaxChildren = DefaultMaxChildren
	}
	return l
}

package automaton

import "sort"

// Automaton is a trie with failure and output links attached. It is immutable
// after build and safe for concurrent scans.
type Automaton struct {
	nodes    []node
	patterns []Pattern
	order    []int32 // breadth-first visit order, root first
	maxDepth int32
}

// build attaches failure and output links to every node of t in one
// breadth-first pass and returns the finished automaton. t must not be used
// afterwards: the automaton takes ownership of its arena.
//
// Each node is dequeued once. The failure-chain walks are bounded overall by
// the total pattern length, so the whole pass is linear in the trie size.
func build(t *trie, patterns []Pattern) *Automaton {
	nodes := t.nodes
	t.nodes = nil

	a := &Automaton{
		nodes:    nodes,
		patterns: patterns,
		order:    make([]int32, 0, len(nodes)),
	}

	nodes[rootIndex].failure = rootIndex
	nodes[rootIndex].output = noNode

	queue := []int32{rootIndex}
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		a.order = append(a.order, p)
		if d := nodes[p].depth; d > a.maxDepth {
			a.maxDepth = d
		}

		for _, s := range sortedSymbols(nodes[p].children) {
			c := nodes[p].children[s]

			fail := rootIndex
			if p != rootIndex {
				f := nodes[p].failure
				for {
					if next, ok := nodes[f].children[s]; ok {
						fail = next
						break
					}
					if f == rootIndex {
						break
					}
					f = nodes[f].failure
				}
			}
			nodes[c].failure = fail

			if nodes[fail].terminal {
				nodes[c].output = fail
			} else {
				nodes[c].output = nodes[fail].output
			}

			queue = append(queue, c)
		}
	}
	return a
}

// sortedSymbols returns the keys of children in ascending order.
func sortedSymbols(children map[byte]int32) []byte {
	if len(children) == 0 {
		return nil
	}
	syms := make([]byte, 0, len(children))
	for s := range children {
		syms = append(syms, s)
	}
	sort.Slice(syms, func(i, j int) bool { return syms[i] < syms[j] })
	return syms
}

// built reports whether a was produced by build.
func (a *Automaton) built() bool {
	return a != nil && len(a.nodes) > 0
}

// Stats summarizes the automaton's size.
type Stats struct {
	Nodes    int // including the root
	Patterns int
	MaxDepth int // length of the longest pattern
}

// Stats returns size information. A nil or unbuilt automaton reports zeros.
func (a *Automaton) Stats() Stats {
	if !a.built() {
		return Stats{}
	}
	return Stats{
		Nodes:    len(a.nodes),
		Patterns: len(a.patterns),
		MaxDepth: int(a.maxDepth),
	}
}

// PatternCount returns the number of distinct patterns.
func (a *Automaton) PatternCount() int {
	if a == nil {
		return 0
	}
	return len(a.patterns)
}

// Pattern returns the pattern with the given id.
func (a *Automaton) Pattern(id int) (Pattern, bool) {
	if a == nil || id < 0 || id >= len(a.patterns) {
		return Pattern{}, false
	}
	return a.patterns[id], true
}

// PatternText returns the text of pattern id, or nil if id is out of range.
func (a *Automaton) PatternText(id int) []byte {
	p, ok := a.Pattern(id)
	if !ok {
		return nil
	}
	return p.Text
}

package automaton

import "fmt"

const (
	rootIndex int32 = 0
	noNode    int32 = -1
	noPattern       = -1
)

// node is one trie prefix. Nodes live in an arena and refer to each other by
// index. children is the only owning relation; parent, failure and output are
// plain back/side references.
type node struct {
	symbol   byte
	depth    int32
	parent   int32
	children map[byte]int32
	terminal bool
	pattern  int
	failure  int32
	output   int32
	refs     int // insertions routed through this node
}

func newNode(symbol byte, parent, depth int32) node {
	return node{
		symbol:  symbol,
		depth:   depth,
		parent:  parent,
		pattern: noPattern,
		failure: noNode,
		output:  noNode,
	}
}

// trie is the mutable build-phase structure. It is consumed by build.
type trie struct {
	nodes       []node
	maxChildren int
}

func newTrie(maxChildren int) *trie {
	if maxChildren <= 0 {
		maxChildren = DefaultMaxChildren
	}
	root := newNode(0, noNode, 0)
	root.failure = rootIndex
	return &trie{
		nodes:       []node{root},
		maxChildren: maxChildren,
	}
}

// child returns the child of n on symbol b, or noNode.
func (t *trie) child(n int32, b byte) int32 {
	if c, ok := t.nodes[n].children[b]; ok {
		return c
	}
	return noNode
}

// insert routes p.Text through the trie, creating nodes as needed, and marks
// the final node terminal. Re-inserting an existing terminal keeps the first
// pattern. On ErrCapacityExceeded every node created by this call is removed.
func (t *trie) insert(p Pattern) error {
	mark := len(t.nodes)
	linkFrom, linkSym := noNode, byte(0)

	cur := rootIndex
	for i, b := range p.Text {
		if next := t.child(cur, b); next != noNode {
			cur = next
			continue
		}
		if len(t.nodes[cur].children) >= t.maxChildren {
			t.rollback(mark, linkFrom, linkSym)
			return fmt.Errorf("node at depth %d has %d children (pattern %d, symbol %q): %w",
				i, t.maxChildren, p.ID, b, ErrCapacityExceeded)
		}
		next := int32(len(t.nodes))
		t.nodes = append(t.nodes, newNode(b, cur, t.nodes[cur].depth+1))
		if t.nodes[cur].children == nil {
			t.nodes[cur].children = make(map[byte]int32)
		}
		t.nodes[cur].children[b] = next
		if linkFrom == noNode {
			linkFrom, linkSym = cur, b
		}
		cur = next
	}

	t.countPath(cur)
	end := &t.nodes[cur]
	if !end.terminal {
		end.terminal = true
		end.pattern = p.ID
	}
	return nil
}

// touch counts another insertion of text, which must already end at a node.
// It reports whether the path was found.
func (t *trie) touch(text []byte) bool {
	cur := rootIndex
	for _, b := range text {
		if cur = t.child(cur, b); cur == noNode {
			return false
		}
	}
	t.countPath(cur)
	return true
}

// countPath bumps refs on every node from n up to the root.
func (t *trie) countPath(n int32) {
	for ; n != rootIndex; n = t.nodes[n].parent {
		t.nodes[n].refs++
	}
	t.nodes[rootIndex].refs++
}

// rollback discards nodes appended since mark and unlinks the edge that
// attached the first of them to the existing trie.
func (t *trie) rollback(mark int, linkFrom int32, linkSym byte) {
	if linkFrom != noNode {
		delete(t.nodes[linkFrom].children, linkSym)
	}
	t.nodes = t.nodes[:mark]
}

// len returns the number of nodes, root included.
func (t *trie) len() int { return len(t.nodes) }

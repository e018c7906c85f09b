package automaton

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
)

// NodeInfo is a read-only view of one automaton node, for debugging.
// Links are node indices; -1 means none.
type NodeInfo struct {
	Index    int
	Symbol   byte
	Depth    int
	Parent   int
	Failure  int
	Output   int
	Terminal bool
	Pattern  int // -1 unless Terminal
	Refs     int
}

// Nodes returns every node in breadth-first order, root first. The layout is
// not stable across versions.
func (a *Automaton) Nodes() []NodeInfo {
	if !a.built() {
		return nil
	}
	out := make([]NodeInfo, 0, len(a.order))
	for _, i := range a.order {
		n := a.nodes[i]
		out = append(out, NodeInfo{
			Index:    int(i),
			Symbol:   n.symbol,
			Depth:    int(n.depth),
			Parent:   int(n.parent),
			Failure:  int(n.failure),
			Output:   int(n.output),
			Terminal: n.terminal,
			Pattern:  n.pattern,
			Refs:     n.refs,
		})
	}
	return out
}

// Dump writes a table of all nodes and their links to w.
//
//	NODE  SYM  DEPTH  REFS  PARENT  FAIL  OUT  PATTERN
//	0     -    0      4     -       0     -
//	1     'a'  1      2     0       0     -    #2 "a"
func (a *Automaton) Dump(w io.Writer) error {
	if !a.built() {
		return ErrNotBuilt
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NODE\tSYM\tDEPTH\tREFS\tPARENT\tFAIL\tOUT\tPATTERN")
	for _, n := range a.Nodes() {
		sym := "-"
		if n.Index != int(rootIndex) {
			sym = strconv.QuoteRune(rune(n.Symbol))
		}
		pat := ""
		if n.Terminal {
			pat = fmt.Sprintf("#%d %q", n.Pattern, a.patterns[n.Pattern].Text)
		}
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%s\t%d\t%s\t%s\n",
			n.Index, sym, n.Depth, n.Refs, link(n.Parent), n.Failure, link(n.Output), pat)
	}
	return tw.Flush()
}

func link(i int) string {
	if i < 0 {
		return "-"
	}
	return strconv.Itoa(i)
}

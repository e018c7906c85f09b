package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var dumpPatterns patternFlags

var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Print the built automaton node by node",
	Long: "Builds the automaton for the given patterns and prints each node in " +
		"breadth-first order with its failure and output links. Diagnostic output; " +
		"the format is not stable.",
	Args: cobra.NoArgs,
	RunE: runDump,
}

func init() {
	dumpPatterns.register(dumpCmd.Flags())
}

func runDump(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	patterns, err := dumpPatterns.load(a)
	if err != nil {
		return err
	}
	au, err := a.Compile(patterns)
	if err != nil {
		return err
	}
	st := au.Stats()
	header := fmt.Sprintf("%d patterns │ %d nodes │ depth %d", st.Patterns, st.Nodes, st.MaxDepth)
	fmt.Println(paint(header, colorBold, resolveColor("", a.Config.Color, false)))
	return au.Dump(os.Stdout)
}

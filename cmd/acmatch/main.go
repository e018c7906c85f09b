// acmatch finds every occurrence of a fixed dictionary of byte patterns in
// files or stdin using an Aho-Corasick automaton.
package main

import (
	"fmt"
	"os"

	"github.com/corey/acmatch/cmd/acmatch/cmd"
)

func main() {
	err := cmd.Execute()
	if err != nil && !cmd.IsExitError(err) {
		fmt.Fprintf(os.Stderr, "acmatch: %v\n", err)
	}
	os.Exit(cmd.ExitCode(err))
}

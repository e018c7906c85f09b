package cmd

import (
	"fmt"
	"os"

	"github.com/corey/acmatch/internal/app"
	"github.com/spf13/cobra"
)

var (
	scanPatterns  patternFlags
	scanEngine    string
	scanDirect    bool
	scanCountOnly bool
	scanJSON      bool
	scanQuiet     bool
	scanNoColor   bool
	scanColor     string
)

var scanCmd = &cobra.Command{
	Use:   "scan [flags] [file|dir ...]",
	Short: "Report every pattern occurrence in files or stdin",
	Long: "Scans each input once and reports every occurrence of every pattern, " +
		"ordered by end offset, longest first at equal ends. Reads stdin when no file " +
		"is given or the file is \"-\". Exit status is 0 when something matched, 1 when " +
		"nothing matched and 2 on error.",
	Args: cobra.ArbitraryArgs,
	RunE: runScan,
}

func init() {
	f := scanCmd.Flags()
	scanPatterns.register(f)
	f.StringVar(&scanEngine, "engine", app.EngineAutomaton, "Matching engine: automaton or reference")
	f.BoolVar(&scanDirect, "direct", false, "Report only patterns ending exactly at each state (no output links)")
	f.BoolVarP(&scanCountOnly, "count", "c", false, "Print match counts only")
	f.BoolVar(&scanJSON, "json", false, "Print matches as JSON lines")
	f.BoolVarP(&scanQuiet, "quiet", "q", false, "Quiet mode (exit code only)")
	f.BoolVar(&scanNoColor, "no-color", false, "Suppress color output")
	f.StringVar(&scanColor, "color", "", "Color output: auto, always, never")
}

func runScan(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	patterns, err := scanPatterns.load(a)
	if err != nil {
		return err
	}
	e, err := a.NewEngine(scanEngine, patterns, scanDirect)
	if err != nil {
		return err
	}

	p := &printer{
		w:       os.Stdout,
		matcher: e.Matcher,
		color:   resolveColor(scanColor, a.Config.Color, scanNoColor),
		mode:    outputMode(),
	}

	if len(args) == 0 {
		args = []string{app.StdinPath}
	}
	files, err := app.ExpandPaths(args)
	if err != nil {
		return err
	}
	p.showPath = len(files) > 1 || isDirArg(args)

	results, err := a.ScanFiles(cmd.Context(), e, files)
	if err != nil {
		return err
	}
	found, failed := false, false
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(os.Stderr, "acmatch: %s: %v\n", displayPath(r.Path), r.Err)
			failed = true
			continue
		}
		p.result(r.Path, r.Matches)
		found = found || len(r.Matches) > 0
	}
	return matchExit(found, failed)
}

func outputMode() outMode {
	switch {
	case scanQuiet:
		return modeQuiet
	case scanJSON:
		return modeJSON
	case scanCountOnly:
		return modeCount
	default:
		return modeText
	}
}

// matchExit follows grep: an error wins over a match.
func matchExit(found, failed bool) error {
	switch {
	case failed:
		return exitError{2}
	case found:
		return nil
	default:
		return exitError{1}
	}
}

func isDirArg(args []string) bool {
	for _, a := range args {
		if a == app.StdinPath {
			continue
		}
		if info, err := os.Stat(a); err == nil && info.IsDir() {
			return true
		}
	}
	return false
}

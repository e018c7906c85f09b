package cmd

import (
	"fmt"
	"os"

	"github.com/corey/acmatch/internal/app"
	"github.com/spf13/cobra"
)

var (
	watchPatterns patternFlags
	watchDirect   bool
	watchJSON     bool
	watchNoColor  bool
	watchColor    string
)

var watchCmd = &cobra.Command{
	Use:   "watch [flags] <file|dir> ...",
	Short: "Scan inputs and rescan them whenever they change",
	Long: "Scans the given files and directories once, then rescans each file when it " +
		"is written. The dictionary is fixed for the lifetime of the watch. Stop with Ctrl-C.",
	Args: cobra.MinimumNArgs(1),
	RunE: runWatch,
}

func init() {
	f := watchCmd.Flags()
	watchPatterns.register(f)
	f.BoolVar(&watchDirect, "direct", false, "Report only patterns ending exactly at each state (no output links)")
	f.BoolVar(&watchJSON, "json", false, "Print matches as JSON lines")
	f.BoolVar(&watchNoColor, "no-color", false, "Suppress color output")
	f.StringVar(&watchColor, "color", "", "Color output: auto, always, never")
}

func runWatch(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	patterns, err := watchPatterns.load(a)
	if err != nil {
		return err
	}
	e, err := a.NewEngine(app.EngineAutomaton, patterns, watchDirect)
	if err != nil {
		return err
	}

	useColor := resolveColor(watchColor, a.Config.Color, watchNoColor)
	p := &printer{w: os.Stdout, matcher: e.Matcher, color: useColor, showPath: true, mode: modeText}
	if watchJSON {
		p.mode = modeJSON
	}

	fmt.Fprintf(os.Stderr, "watching %d path(s), Ctrl-C to stop\n", len(args))
	return a.Watch(cmd.Context(), e, args, func(r app.WatchResult) {
		switch {
		case r.Removed:
			if p.mode == modeText {
				fmt.Printf("%s: %s\n", paint(r.Path, colorCyan, useColor), paint("removed", colorYellow, useColor))
			}
		case r.Err != nil:
			fmt.Fprintf(os.Stderr, "acmatch: %s: %v\n", r.Path, r.Err)
		case len(r.Matches) == 0 && !r.Initial && p.mode == modeText:
			fmt.Printf("%s: no matches\n", paint(r.Path, colorCyan, useColor))
		default:
			p.result(r.Path, r.Matches)
		}
	})
}

package cmd

import (
	"fmt"
	"time"

	"github.com/corey/acmatch/internal/app"
	"github.com/corey/acmatch/internal/ports"
	"github.com/spf13/cobra"
)

var (
	dictAddFiles   []string
	dictAddReplace bool
)

var dictCmd = &cobra.Command{
	Use:   "dict",
	Short: "Manage stored dictionaries",
	Long:  "Named pattern dictionaries kept in the local database (.acmatch/acmatch.db).",
}

var dictAddCmd = &cobra.Command{
	Use:   "add <name> [pattern ...]",
	Short: "Add patterns to a dictionary, creating it if needed",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runDictAdd,
}

var dictListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored dictionaries",
	Args:  cobra.NoArgs,
	RunE:  runDictList,
}

var dictShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Print the patterns of a dictionary",
	Args:  cobra.ExactArgs(1),
	RunE:  runDictShow,
}

var dictRmCmd = &cobra.Command{
	Use:     "rm <name> ...",
	Aliases: []string{"remove"},
	Short:   "Delete dictionaries",
	Args:    cobra.MinimumNArgs(1),
	RunE:    runDictRm,
}

func init() {
	dictAddCmd.Flags().StringArrayVarP(&dictAddFiles, "file", "f", nil, "Pattern file to add (repeatable)")
	dictAddCmd.Flags().BoolVar(&dictAddReplace, "replace", false, "Replace existing patterns instead of appending")

	dictCmd.AddCommand(dictAddCmd)
	dictCmd.AddCommand(dictListCmd)
	dictCmd.AddCommand(dictShowCmd)
	dictCmd.AddCommand(dictRmCmd)
}

func runDictAdd(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	name := args[0]
	var patterns [][]byte
	if !dictAddReplace {
		store, err := a.Store()
		if err != nil {
			return err
		}
		existing, err := store.LoadDictionary(name)
		if err != nil {
			return err
		}
		if existing != nil {
			patterns = existing.Patterns
		}
	}
	before := len(patterns)
	for _, path := range dictAddFiles {
		ps, err := app.LoadPatternFile(path)
		if err != nil {
			return err
		}
		patterns = append(patterns, ps...)
	}
	patterns = append(patterns, app.StringsToPatterns(args[1:])...)
	if len(patterns) == before && !dictAddReplace {
		return fmt.Errorf("no patterns to add: give patterns or --file")
	}

	dict, err := a.SaveDictionary(name, patterns)
	if err != nil {
		return fmt.Errorf("dictionary %q: %w", name, err)
	}
	fmt.Println(formatSaved(name, len(dict.Patterns), resolveColor("", a.Config.Color, false)))
	return nil
}

func runDictList(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	store, err := a.Store()
	if err != nil {
		return err
	}
	names, err := store.ListDictionaries()
	if err != nil {
		return err
	}
	if len(names) == 0 {
		fmt.Println("no dictionaries")
		return nil
	}
	useColor := resolveColor("", a.Config.Color, false)
	for _, name := range names {
		d, err := store.LoadDictionary(name)
		if err != nil {
			return err
		}
		if d == nil {
			continue // removed since ListDictionaries
		}
		fmt.Println(formatDictEntry(d, useColor))
	}
	return nil
}

// formatSaved renders the dict add confirmation.
func formatSaved(name string, n int, useColor bool) string {
	return fmt.Sprintf("%s %s: %d patterns", paint("✓", colorGreen, useColor), name, n)
}

// formatDictEntry renders one dict list line.
func formatDictEntry(d *ports.Dictionary, useColor bool) string {
	updated := time.Unix(d.UpdatedAt, 0).Format(time.DateTime)
	return fmt.Sprintf("  %s %5d patterns  %s",
		paint(fmt.Sprintf("%-20s", d.Name), colorCyan, useColor),
		len(d.Patterns),
		paint(updated, colorGray, useColor))
}

func runDictShow(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	d, err := a.LoadDictionary(args[0])
	if err != nil {
		return err
	}
	for id, p := range d.Patterns {
		fmt.Printf("%4d  %s\n", id, displayText(p))
	}
	return nil
}

func runDictRm(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	store, err := a.Store()
	if err != nil {
		return err
	}
	for _, name := range args {
		if err := store.DeleteDictionary(name); err != nil {
			return fmt.Errorf("delete %q: %w", name, err)
		}
		fmt.Printf("removed %s\n", name)
	}
	return nil
}

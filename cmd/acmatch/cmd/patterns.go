package cmd

import (
	"errors"

	"github.com/corey/acmatch/internal/app"
	"github.com/spf13/pflag"
)

// patternFlags selects the dictionary for scan, dump and watch.
type patternFlags struct {
	exprs []string
	files []string
	dicts []string
}

func (p *patternFlags) register(f *pflag.FlagSet) {
	f.StringArrayVarP(&p.exprs, "regexp", "e", nil, "Pattern (repeatable, literal bytes)")
	f.StringArrayVarP(&p.files, "file", "f", nil, "Pattern file: one per line, or .yaml with a patterns list (repeatable)")
	f.StringArrayVarP(&p.dicts, "dict", "d", nil, "Stored dictionary name (repeatable)")
}

// load collects patterns in order: stored dictionaries, pattern files, then
// -e patterns. Duplicates are kept; the automaton collapses them.
func (p *patternFlags) load(a *app.App) ([][]byte, error) {
	var out [][]byte
	for _, name := range p.dicts {
		d, err := a.LoadDictionary(name)
		if err != nil {
			return nil, err
		}
		out = append(out, d.Patterns...)
	}
	for _, path := range p.files {
		ps, err := app.LoadPatternFile(path)
		if err != nil {
			return nil, err
		}
		out = append(out, ps...)
	}
	out = append(out, app.StringsToPatterns(p.exprs)...)
	if len(out) == 0 && len(p.dicts)+len(p.files) == 0 {
		return nil, errors.New("no patterns: use -e, --file or --dict")
	}
	return out, nil
}

package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/corey/acmatch/internal/app"
	"github.com/spf13/cobra"
)

var (
	rootConfig      string
	rootDB          string
	rootMaxPatterns int
	rootMaxChildren int
	rootWorkers     int
	rootVerbose     bool
)

var rootCmd = &cobra.Command{
	Use:           "acmatch",
	Short:         "acmatch — multi-pattern byte matcher",
	Long:          "Finds every occurrence of every pattern in a fixed dictionary in one pass over the input (Aho-Corasick).",
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command. SIGINT and SIGTERM cancel the command context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	f := rootCmd.PersistentFlags()
	f.StringVar(&rootConfig, "config", "", "Config file (default .acmatch/config.yaml)")
	f.StringVar(&rootDB, "db", "", "Dictionary database path")
	f.IntVar(&rootMaxPatterns, "max-patterns", 0, "Maximum number of patterns")
	f.IntVar(&rootMaxChildren, "max-children", 0, "Maximum children per trie node (1-256)")
	f.IntVar(&rootWorkers, "workers", 0, "Concurrent file scans")
	f.BoolVarP(&rootVerbose, "verbose", "v", false, "Debug logging on stderr")

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(dictCmd)
	rootCmd.AddCommand(dumpCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(configCmd)
}

// projectRoot returns the project root (cwd by default).
func projectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}
	return dir
}

func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if rootVerbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// loadConfig reads the config file and applies command line overrides.
// An explicit --config must exist; the default location is optional.
func loadConfig(cmd *cobra.Command) (app.Config, error) {
	root := projectRoot()
	path, required := rootConfig, rootConfig != ""
	if !required {
		path = app.NewPaths(root).Config
	}
	cfg, err := app.LoadConfig(path, required)
	if err != nil {
		return cfg, err
	}
	cfg.WorkDir = root

	fl := cmd.Flags()
	if fl.Changed("db") {
		cfg.DB = rootDB
	}
	if fl.Changed("max-patterns") {
		cfg.MaxPatterns = rootMaxPatterns
	}
	if fl.Changed("max-children") {
		cfg.MaxChildren = rootMaxChildren
	}
	if fl.Changed("workers") {
		cfg.Workers = rootWorkers
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	cfg.Logger = newLogger()
	return cfg, nil
}

// newApp creates the app for a command. Callers must Close it.
func newApp(cmd *cobra.Command) (*app.App, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return app.New(cfg), nil
}

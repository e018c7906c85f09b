package cmd

import (
	"fmt"
	"os"

	"github.com/corey/acmatch/internal/app"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show configuration",
	Long:  "Shows the config file location and the effective settings after defaults and flags are applied.",
	Args:  cobra.NoArgs,
	RunE:  runConfig,
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	a := app.New(cfg)

	path := rootConfig
	if path == "" {
		path = a.Paths.Config
	}
	useColor := resolveColor("", a.Config.Color, false)
	status := paint("✗ not found, using defaults", colorYellow, useColor)
	if _, err := os.Stat(path); err == nil {
		status = paint("✓ loaded", colorGreen, useColor)
	}

	out, err := a.Config.YAML()
	if err != nil {
		return err
	}
	fmt.Println(paint("⚡ acmatch config", colorBold, useColor))
	fmt.Printf("  Root:    %s\n", a.Config.WorkDir)
	fmt.Printf("  File:    %s  %s\n", path, status)
	fmt.Printf("\n%s", out)
	return nil
}

package main

import (
	"errors"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/pkordes/schengen-tracker/internal/config"
)

func (a *app) configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the active configuration",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			status := "loaded"
			if _, err := os.Stat(a.cfgPath); errors.Is(err, fs.ErrNotExist) {
				status = "using defaults (no config file)"
			}
			a.printf("  Config file:   %s\n", a.cfgPath)
			a.printf("  Status:        %s\n", status)
			a.printf("  Store:         %s\n", a.cfg.StorePath())
			a.printf("  Color:         %v\n", a.cfg.Display.Color)
			a.printf("  Export format: %s\n", a.cfg.Display.ExportFormat)
			a.printf("  Enforce rule:  %v\n", a.cfg.Rules.Enforce)
			return nil
		},
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the default settings",
		Args:  cobra.NoArgs,
		// Skips loading the existing file so a broken one can be replaced.
		PersistentPreRunE: a.setupLogger,
		RunE: func(*cobra.Command, []string) error {
			if _, err := os.Stat(a.cfgPath); err == nil && !force {
				return errors.New("config file exists; use --force to overwrite")
			}
			if err := config.SaveCLI(a.cfgPath, config.DefaultCLIConfig()); err != nil {
				return err
			}
			a.printf("Wrote %s\n", a.cfgPath)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")
	cmd.AddCommand(initCmd)
	return cmd
}

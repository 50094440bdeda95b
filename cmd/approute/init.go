package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/vango-dev/approute/internal/config"
)

func initCmd() *cobra.Command {
	var (
		force  bool
		appDir string
	)

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Create approute.json",
		Long: `Write an approute.json with default settings.

Examples:
  approute init
  approute init ./site --app src/app`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			path := filepath.Join(dir, config.ConfigFileName)

			if config.Exists(dir) && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			if err := os.MkdirAll(dir, 0755); err != nil {
				return err
			}

			cfg := config.New()
			if appDir != "" {
				cfg.App.Dir = appDir
			}
			if err := cfg.SaveTo(path); err != nil {
				return err
			}

			success(cmd.OutOrStdout(), "Created %s", path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing approute.json")
	cmd.Flags().StringVar(&appDir, "app", "", "App directory (default \"app\")")

	return cmd
}

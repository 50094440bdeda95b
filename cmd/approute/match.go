package main

import (
	"fmt"
	"maps"
	"slices"

	"github.com/spf13/cobra"
	"github.com/vango-dev/approute/pkg/router"
)

func matchCmd(flags *globalFlags) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "match <url-path>",
		Short: "Resolve a URL path against the route tree",
		Long: `Scan the app directory and print the route a URL path resolves to,
with its extracted parameters.

Examples:
  approute match /blog/42
  approute match '/docs/getting-started/install' --dir ./app`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			root := cfg.AppPath()
			if dir != "" {
				root = dir
			}

			routes, err := scanRoutes(cmd.Context(), cfg, root, true)
			if err != nil {
				printValidationErrors(cmd.ErrOrStderr(), err)
				return err
			}

			result, err := router.NewMatcher(routes).Match(args[0])
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}

			out := cmd.OutOrStdout()
			success(out, "%s → %s", result.Path, result.Route.Path)
			info(out, "Page: %s", result.Route.Page)
			info(out, "File: %s", result.Route.FilePath)
			for _, name := range slices.Sorted(maps.Keys(result.Params)) {
				info(out, "%s = %q", name, result.Params[name])
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", "", "App directory (default from approute.json)")

	return cmd
}

package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/vango-dev/approute/internal/config"
	"github.com/vango-dev/approute/pkg/manifest"
	"github.com/vango-dev/approute/pkg/router"
)

func scanCmd(flags *globalFlags) *cobra.Command {
	var (
		asJSON     bool
		noValidate bool
	)

	cmd := &cobra.Command{
		Use:   "scan [dir]",
		Short: "List the routes of an app directory",
		Long: `Scan an app directory and list every route it defines, most
specific first. The directory defaults to app.dir from approute.json.

Examples:
  approute scan
  approute scan ./app --json
  approute scan --no-validate`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			root := appRoot(cfg, args)

			routes, err := scanRoutes(cmd.Context(), cfg, root, !noValidate)
			if err != nil {
				printValidationErrors(cmd.ErrOrStderr(), err)
				return err
			}

			m := manifest.Build(routes, manifest.RelativeTo(root))
			if asJSON {
				return m.Encode(cmd.OutOrStdout())
			}
			return printRoutes(cmd.OutOrStdout(), m)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the route manifest as JSON")
	cmd.Flags().BoolVar(&noValidate, "no-validate", false, "Skip conflict validation")

	return cmd
}

// appRoot returns the directory named on the command line or the
// configured app directory.
func appRoot(cfg *config.Config, args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return cfg.AppPath()
}

// scanRoutes scans root with the configured extensions.
func scanRoutes(ctx context.Context, cfg *config.Config, root string, validate bool) ([]router.ScannedRoute, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	scanner := router.NewScanner(root, router.WithExtensions(cfg.App.Extensions...))
	return scanner.ScanWithOptions(ctx, router.ScanOptions{Validate: validate, Sort: true})
}

// printValidationErrors prints every route conflict of err, if any.
func printValidationErrors(w io.Writer, err error) {
	var multi *router.MultiValidationError
	if !stderrors.As(err, &multi) {
		return
	}
	for _, ve := range multi.Errors {
		fmt.Fprintln(w, router.FormatValidationError(ve))
	}
}

func printRoutes(w io.Writer, m *manifest.Manifest) error {
	if m.Len() == 0 {
		warn(w, "No routes found")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PATH\tTYPE\tPATTERN\tFILE")
	for _, e := range m.Entries {
		path := e.Pathname
		if len(e.Slots) > 0 {
			path += " @" + e.Slots[len(e.Slots)-1]
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", path, e.Type, e.Pattern, e.File)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w)
	success(w, "%d routes (manifest %s)", m.Len(), m.HashString())
	return nil
}

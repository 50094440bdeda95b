package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/vango-dev/approute/pkg/approute"
)

func parseCmd() *cobra.Command {
	var (
		leaf   string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "parse <page>",
		Short: "Parse a route descriptor",
		Long: `Parse a '/'-separated route descriptor and show its segments,
the URL path it resolves to and its pattern.

Examples:
  approute parse '/(shop)/products/[id]'
  approute parse '/docs/[[...slug]]' --leaf page
  approute parse '/blog/[id]' --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			page, err := approute.ParsePage(args[0])
			if err != nil {
				return err
			}

			switch leaf {
			case "":
			case "page":
				err = page.Append(approute.TypeMarker(approute.PageTypePage))
			case "route":
				err = page.Append(approute.TypeMarker(approute.PageTypeRoute))
			default:
				return fmt.Errorf("--leaf must be page or route, got %q", leaf)
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			path := page.Path()

			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(struct {
					Page approute.AppPage `json:"page"`
					Path approute.AppPath `json:"path"`
				}{page, path})
			}

			fmt.Fprintf(out, "Page:     %s\n", page)
			fmt.Fprintf(out, "Path:     %s\n", path)
			fmt.Fprintf(out, "Pattern:  %s\n", path.Pattern())
			fmt.Fprintf(out, "Hash:     %016x\n", page.Hash())
			if slots := page.Slots(); len(slots) > 0 {
				fmt.Fprintf(out, "Slots:    %v\n", slots)
			}
			fmt.Fprintln(out)

			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "  #\tKIND\tSEGMENT\tURL")
			for i, seg := range page.Segments() {
				url := "-"
				if ps, ok := seg.PathSegment(); ok {
					url = ps.String()
				}
				fmt.Fprintf(tw, "  %d\t%s\t%s\t%s\n", i, seg.Kind, seg, url)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&leaf, "leaf", "", "Append a page type marker (page or route)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the page and path as JSON")

	return cmd
}

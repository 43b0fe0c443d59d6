package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vango-dev/routegen/internal/codegen"
)

func listCmd(root *rootFlags) *cobra.Command {
	var (
		src    sourceFlags
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "list [dir]",
		Short: "List every route with its path pattern and builder call",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext()
			defer cancel()

			tree, target, err := src.load(ctx, cmd, root, optionalArg(args))
			if err != nil {
				return err
			}
			manifest := codegen.NewManifest(tree, target.Prefix())
			out := cmd.OutOrStdout()

			if asJSON {
				data, err := json.MarshalIndent(manifest.Routes, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(out, string(data))
				return nil
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "PATTERN\tBUILDER\tPARAMS")
			for _, r := range manifest.Routes {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", r.Pattern, r.Expr, strings.Join(r.Params, ","))
			}
			return tw.Flush()
		},
	}

	src.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the routes as JSON")
	return cmd
}

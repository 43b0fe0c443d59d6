package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func treeCmd(root *rootFlags) *cobra.Command {
	var (
		src     sourceFlags
		compact bool
	)

	cmd := &cobra.Command{
		Use:   "tree [dir]",
		Short: "Print the scanned route tree as JSON",
		Long: `Print the route tree of a directory as JSON.

Metadata is stored under reserved keys ($$route, $$param, $$type,
$$catchAll); every other key is a child segment, in directory order.
The output can be fed back to generate --tree.

Examples:
  routegen tree
  routegen tree app/api > tree.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext()
			defer cancel()

			tree, _, err := src.load(ctx, cmd, root, optionalArg(args))
			if err != nil {
				return err
			}

			var data []byte
			if compact {
				data, err = json.Marshal(tree)
			} else {
				data, err = json.MarshalIndent(tree, "", "  ")
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}

	src.register(cmd)
	cmd.Flags().BoolVar(&compact, "compact", false, "Print the tree on one line")
	return cmd
}

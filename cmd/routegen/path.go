package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vango-dev/routegen/internal/errors"
	"github.com/vango-dev/routegen/pkg/pathbuilder"
)

func pathCmd(root *rootFlags) *cobra.Command {
	var (
		src sourceFlags
		dir string
	)

	cmd := &cobra.Command{
		Use:   "path <step>...",
		Short: "Resolve a builder call sequence to a path",
		Long: `Resolve a builder call sequence to a path.

Each step is a builder key as printed by "routegen list". Parameter
members take their value after "=". Ending on a branch returns the
branch's own route.

Examples:
  routegen path collections posts '$postId=123'   # /api/posts/123
  routegen path users '$userId=7'                 # /api/users/7`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext()
			defer cancel()

			tree, target, err := src.load(ctx, cmd, root, dir)
			if err != nil {
				return err
			}

			builder := pathbuilder.Synthesize(tree, target.Prefix())
			p, err := pathbuilder.Resolve(builder, args...)
			if err != nil {
				return errors.New("E142").
					WithDetail(err.Error()).
					WithSuggestion("Run `routegen list` to see the available builder calls").
					Wrap(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), p)
			return nil
		},
	}

	src.register(cmd)
	cmd.Flags().StringVarP(&dir, "input", "i", "", "Route directory (default from config)")
	return cmd
}

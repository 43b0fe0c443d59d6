package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/routegen/internal/build"
	"github.com/vango-dev/routegen/internal/config"
	"github.com/vango-dev/routegen/pkg/router"
)

// sourceFlags select the route tree inspected by tree, list and path.
type sourceFlags struct {
	basePrefix string
	tree       string
}

func (f *sourceFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.basePrefix, "base-prefix", "b", "", "Prefix of every path (default from config or derived from the directory)")
	cmd.Flags().StringVar(&f.tree, "tree", "", "Read the route tree from a JSON file instead of scanning")
}

// load returns the route tree of dir, or of the first configured target
// when dir is empty, together with the effective target.
func (f *sourceFlags) load(ctx context.Context, cmd *cobra.Command, root *rootFlags, dir string) (*router.RouteNode, config.Target, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, config.Target{}, err
	}

	o := config.Overrides{Dir: wd}
	if dir != "" {
		o.Input = &dir
	}
	if cmd.Flags().Changed("base-prefix") {
		o.BasePrefix = &f.basePrefix
	}

	targets, err := loadTargets(root.config, wd, o)
	if err != nil {
		return nil, config.Target{}, err
	}
	target := targets[0]

	tree, err := build.New(target, build.Options{TreeFile: f.tree, Logger: logger}).Tree(ctx)
	if err != nil {
		return nil, config.Target{}, err
	}
	return tree, target, nil
}

func optionalArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}

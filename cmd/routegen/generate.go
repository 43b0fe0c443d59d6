package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vango-dev/routegen/internal/build"
	"github.com/vango-dev/routegen/internal/config"
	"github.com/vango-dev/routegen/internal/dev"
	"github.com/vango-dev/routegen/internal/errors"
)

type generateFlags struct {
	input       string
	output      string
	basePrefix  string
	format      string
	pkg         string
	name        string
	watch       bool
	tree        string
	metricsFile string
}

func (f *generateFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVarP(&f.input, "input", "i", "", "Route directory (default from config, then "+config.DefaultInput+")")
	flags.StringVarP(&f.output, "output", "o", "", "Generated file (default from config, then "+config.DefaultOutput+")")
	flags.StringVarP(&f.basePrefix, "base-prefix", "b", "", "Prefix of every path (default derived from --input)")
	flags.StringVar(&f.format, "format", "", "Output format: go or json")
	flags.StringVar(&f.pkg, "package", "", "Package of the generated Go file (default: output directory name)")
	flags.StringVar(&f.name, "name", "", "Name of the generated builder variable (default "+config.DefaultRoutesName+")")
	flags.BoolVarP(&f.watch, "watch", "w", false, "Rebuild when route files change")
	flags.StringVar(&f.tree, "tree", "", "Read the route tree from a JSON file instead of scanning")
	flags.StringVar(&f.metricsFile, "metrics-file", "", "Write build metrics to this node_exporter textfile")
}

// overrides returns the flags the user actually set.
func (f *generateFlags) overrides(cmd *cobra.Command, dir string) config.Overrides {
	flags := cmd.Flags()
	o := config.Overrides{Dir: dir}
	if flags.Changed("input") {
		o.Input = &f.input
	}
	if flags.Changed("output") {
		o.Output = &f.output
	}
	if flags.Changed("base-prefix") {
		o.BasePrefix = &f.basePrefix
	}
	if flags.Changed("format") {
		o.Format = &f.format
	}
	if flags.Changed("package") {
		o.Package = &f.pkg
	}
	if flags.Changed("name") {
		o.RoutesName = &f.name
	}
	if flags.Changed("watch") {
		o.Watch = &f.watch
	}
	return o
}

func generateCmd(root *rootFlags) *cobra.Command {
	gen := &generateFlags{}

	cmd := &cobra.Command{
		Use:     "generate",
		Aliases: []string{"gen"},
		Short:   "Generate the path builder for every configured target",
		Long: `Generate the path builder for every configured target.

Configuration is read from package.json ("routegen" key), .routegenrc,
.routegenrc.json, .routegenrc.yaml, routegen.json or routegen.yaml in the
working directory or any parent. Flags override every target.

Examples:
  routegen generate
  routegen generate -i app/api -o routes/routes_gen.go
  routegen generate --format json -o routes.json
  routegen generate --watch`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, root, gen)
		},
	}

	gen.register(cmd)
	return cmd
}

func runGenerate(cmd *cobra.Command, root *rootFlags, gen *generateFlags) error {
	wd, err := os.Getwd()
	if err != nil {
		return err
	}
	targets, err := loadTargets(root.config, wd, gen.overrides(cmd, wd))
	if err != nil {
		return err
	}

	if gen.tree != "" {
		for _, t := range targets {
			if t.Watch {
				return errors.New("E120").WithDetail("--tree cannot be combined with watch mode")
			}
		}
	}

	ctx, cancel := signalContext()
	defer cancel()

	var metrics *build.Metrics
	if gen.metricsFile != "" {
		metrics = build.NewMetrics()
	}
	writeMetrics := func() {
		if metrics == nil {
			return
		}
		if err := metrics.WriteTextfile(gen.metricsFile); err != nil {
			warn("Could not write metrics to %s: %v", gen.metricsFile, err)
		}
	}

	opts := build.Options{
		TreeFile: gen.tree,
		Metrics:  metrics,
		Logger:   logger,
		OnProgress: func(step string) {
			logger.Debug(step)
		},
	}

	var watched []config.Target
	failed := 0
	for _, t := range targets {
		if t.Watch {
			watched = append(watched, t)
			continue
		}
		result, err := build.New(t, opts).Build(ctx)
		if err != nil {
			if len(targets) == 1 {
				writeMetrics()
				return err
			}
			errorMsg("Target %s failed", t.Name())
			errors.PrintError(err)
			failed++
			continue
		}
		report(result)
	}
	writeMetrics()

	if len(watched) > 0 {
		info("Watching %d target(s) for route changes. Press Ctrl+C to stop.", len(watched))
		err := dev.Run(ctx, watched, dev.Options{
			Build:  opts,
			Logger: logger,
			OnBuild: func(_ config.Target, result *build.Result, err error) {
				if err != nil {
					errors.PrintError(err)
				} else {
					report(result)
				}
				writeMetrics()
			},
		})
		if err != nil {
			return err
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d targets failed", failed, len(targets))
	}
	return nil
}

func report(result *build.Result) {
	if result.Changed {
		success("Generated %s (%d routes) in %s", result.Output, result.Routes, result.Duration.Round(time.Microsecond))
		return
	}
	info("%s is up to date (%d routes)", result.Output, result.Routes)
}

// loadTargets resolves the configuration and applies the command line
// overrides to every target.
func loadTargets(configPath, dir string, o config.Overrides) ([]config.Target, error) {
	f, err := config.NewLoader(logger).Resolve(configPath, dir)
	if err != nil {
		return nil, err
	}
	if f.Path != "" {
		logger.Debug("loaded config", "path", f.Path, "targets", len(f.Targets))
	}

	targets := make([]config.Target, 0, len(f.Targets))
	for _, t := range f.Targets {
		merged, err := t.Merge(o)
		if err != nil {
			return nil, err
		}
		if err := merged.Check(); err != nil {
			return nil, err
		}
		targets = append(targets, merged)
	}
	return targets, nil
}

// signalContext returns a context canceled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-sigCh:
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()

	return ctx, cancel
}

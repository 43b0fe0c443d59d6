package dev

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/vango-dev/routegen/internal/build"
	"github.com/vango-dev/routegen/internal/config"
)

// Options configures Run.
type Options struct {
	// Interval is the polling period (default: DefaultInterval).
	Interval time.Duration

	// Build is passed to the builder of every target.
	Build build.Options

	// Logger receives watch logs. Default: slog.Default().
	Logger *slog.Logger

	// OnBuild is called after every build attempt, initial ones included.
	OnBuild func(target config.Target, result *build.Result, err error)
}

// Run builds every target once, then rebuilds a target whenever a marker
// file under its input directory appears, changes or disappears. Builds run
// sequentially on the watcher goroutine and always recompute the whole
// tree. A failed build is reported through OnBuild and the logger and does
// not stop watching.
//
// Run returns nil once ctx is canceled.
func Run(ctx context.Context, targets []config.Target, opts Options) error {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if len(targets) == 0 {
		return nil
	}

	builders := make([]*build.Builder, len(targets))
	for i, t := range targets {
		builders[i] = build.New(t, opts.Build)
	}

	rebuild := func(b *build.Builder) {
		result, err := b.Build(ctx)
		if err != nil {
			logger.Error("build failed", "target", b.Target().Name(), "error", err)
		}
		if opts.OnBuild != nil {
			opts.OnBuild(b.Target(), result, err)
		}
	}

	for _, b := range builders {
		if ctx.Err() != nil {
			return nil
		}
		rebuild(b)
	}

	paths := CollectWatchPaths(targets)
	watcher := NewWatcher(WatcherConfig{
		Paths:    paths,
		Markers:  CollectMarkers(targets),
		Interval: opts.Interval,
	})
	watcher.OnChange(func(changes []Change) {
		for _, b := range builders {
			for _, c := range changes {
				if affects(b.Target(), c) {
					logger.Info("route files changed", "target", b.Target().Name(), "path", c.Path)
					rebuild(b)
					break
				}
			}
		}
	})

	logger.Info("watching for route changes", "paths", paths)
	err := watcher.Start(ctx)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}

package build

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/routegen/internal/codegen"
	"github.com/vango-dev/routegen/internal/config"
	"github.com/vango-dev/routegen/internal/errors"
	"github.com/vango-dev/routegen/pkg/router"
)

const tracerName = "routegen"

// Result contains the build output.
type Result struct {
	// Target is the target name used in logs and metrics.
	Target string

	// Output is the path of the generated file.
	Output string

	// Routes is the number of route nodes in the tree.
	Routes int

	// Changed reports whether Output was written. An identical existing
	// file is left untouched.
	Changed bool

	// Duration is how long the build took.
	Duration time.Duration

	// Tree is the scanned (or loaded) route tree.
	Tree *router.RouteNode
}

// Options configures the builder.
type Options struct {
	// TreeFile, when set, is a JSON route tree read instead of scanning
	// the input directory.
	TreeFile string

	// Metrics records the outcome of every build. Optional.
	Metrics *Metrics

	// Logger receives build logs. Default: slog.Default().
	Logger *slog.Logger

	// OnProgress is called with progress updates.
	OnProgress func(step string)
}

// Builder runs the scan, validate, emit and write steps for one target.
type Builder struct {
	target  config.Target
	options Options
	tracer  trace.Tracer
}

// New creates a new builder.
func New(target config.Target, options Options) *Builder {
	if options.Logger == nil {
		options.Logger = slog.Default()
	}
	return &Builder{
		target:  target,
		options: options,
		tracer:  otel.Tracer(tracerName),
	}
}

// Target returns the configuration the builder was created with.
func (b *Builder) Target() config.Target {
	return b.target
}

// Build produces the output file of the target. Every call recomputes the
// whole tree.
func (b *Builder) Build(ctx context.Context) (result *Result, err error) {
	start := time.Now()
	name := b.target.Name()

	ctx, span := b.tracer.Start(ctx, "routegen.build", trace.WithAttributes(
		attribute.String("routegen.target", name),
		attribute.String("routegen.input", b.target.InputPath()),
		attribute.String("routegen.format", string(b.target.Format)),
	))
	defer func() {
		duration := time.Since(start)
		status := StatusError
		routes := 0
		if err == nil {
			result.Duration = duration
			routes = result.Routes
			status = StatusUnchanged
			if result.Changed {
				status = StatusSuccess
			}
			span.SetAttributes(
				attribute.Int("routegen.routes", routes),
				attribute.Bool("routegen.changed", result.Changed),
			)
			span.SetStatus(codes.Ok, "")
		} else {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
		b.options.Metrics.observe(name, status, duration, routes)
	}()

	b.progress("Scanning routes...")
	root, err := b.Tree(ctx)
	if err != nil {
		return nil, err
	}

	b.progress("Generating " + string(b.target.Format) + "...")
	out, err := b.Emit(ctx, root)
	if err != nil {
		return nil, err
	}

	output := b.target.OutputPath()
	changed, err := WriteIfChanged(output, out)
	if err != nil {
		return nil, err
	}

	result = &Result{
		Target:  name,
		Output:  output,
		Routes:  root.CountRoutes(),
		Changed: changed,
		Tree:    root,
	}
	b.options.Logger.Debug("build finished",
		"target", name,
		"routes", result.Routes,
		"changed", changed,
		"duration", time.Since(start))
	return result, nil
}

// Tree scans the input directory, or reads Options.TreeFile when set, and
// validates the result when the target asks for it.
func (b *Builder) Tree(ctx context.Context) (*router.RouteNode, error) {
	ctx, span := b.tracer.Start(ctx, "routegen.scan")
	defer span.End()

	if b.options.TreeFile != "" {
		span.SetAttributes(attribute.String("routegen.tree_file", b.options.TreeFile))
		root, err := ReadTree(b.options.TreeFile)
		if err != nil {
			return nil, err
		}
		if b.target.ShouldValidate() {
			if err := router.NewValidator(root).Validate(); err != nil {
				return nil, scanError(b.options.TreeFile, err)
			}
		}
		return root, nil
	}

	opts, err := b.target.ScanOptions()
	if err != nil {
		return nil, err
	}
	opts.Logger = b.options.Logger

	input := b.target.InputPath()
	root, err := router.NewScanner(input).ScanWithOptions(ctx, opts)
	if err != nil {
		return nil, scanError(input, err)
	}
	return root, nil
}

// Emit renders root in the target's output format.
func (b *Builder) Emit(ctx context.Context, root *router.RouteNode) ([]byte, error) {
	_, span := b.tracer.Start(ctx, "routegen.emit", trace.WithAttributes(
		attribute.String("routegen.format", string(b.target.Format)),
	))
	defer span.End()

	switch b.target.Format {
	case config.FormatJSON:
		return codegen.GenerateJSON(root, b.target.Prefix())
	case config.FormatGo, "":
		return codegen.NewGoGenerator(codegen.GoOptions{
			Package:         b.target.Package,
			RoutesName:      b.target.RoutesName,
			BasePrefix:      b.target.Prefix(),
			ParamTypes:      b.target.ParamTypes,
			InferParamTypes: b.target.InferParamTypes,
			Source:          filepath.ToSlash(b.target.Input),
		}).Generate(root)
	default:
		return nil, errors.New("E121").WithDetailf("format %q is not one of go, json", b.target.Format)
	}
}

func (b *Builder) progress(step string) {
	if b.options.OnProgress != nil {
		b.options.OnProgress(step)
	}
}

// ReadTree loads a route tree written by `routegen tree` or found in a JSON
// manifest's "tree" member.
func ReadTree(path string) (*router.RouteNode, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New("E110").WithLocation(path, 0, 0).Wrap(err)
	}

	root := router.NewRouteNode()
	if err := root.UnmarshalJSON(data); err != nil {
		// A manifest wraps the tree; accept it as well.
		var manifest struct {
			Tree *router.RouteNode `json:"tree"`
		}
		if jerr := json.Unmarshal(data, &manifest); jerr == nil && manifest.Tree != nil {
			return manifest.Tree, nil
		}
		return nil, errors.New("E110").WithLocation(path, 0, 0).Wrap(err)
	}
	return root, nil
}

// WriteIfChanged writes data to path unless the file already holds exactly
// data. Parent directories are created as needed and the file is replaced
// through a rename so readers never see a partial write.
func WriteIfChanged(path string, data []byte) (bool, error) {
	existing, err := os.ReadFile(path)
	if err == nil && bytes.Equal(existing, data) {
		return false, nil
	}
	if err != nil && !stderrors.Is(err, fs.ErrNotExist) {
		return false, errors.New("E160").WithLocation(path, 0, 0).Wrap(err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return false, errors.New("E160").WithLocation(path, 0, 0).Wrap(err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return false, errors.New("E160").WithLocation(path, 0, 0).Wrap(err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return false, errors.New("E160").WithLocation(path, 0, 0).Wrap(err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return false, errors.New("E160").WithLocation(path, 0, 0).Wrap(err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return false, errors.New("E160").WithLocation(path, 0, 0).Wrap(err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return false, errors.New("E160").WithLocation(path, 0, 0).Wrap(err)
	}
	return true, nil
}

// scanError converts scanner and validator errors to coded errors.
func scanError(source string, err error) error {
	var notFound *router.NotFoundError
	var malformed *router.MalformedSegmentError
	var invalid *router.MultiValidationError

	switch {
	case stderrors.As(err, &notFound):
		e := errors.New("E100").WithLocation(notFound.Path, 0, 0).Wrap(err)
		if notFound.NotDir {
			return e.WithDetailf("%s is a file", notFound.Path)
		}
		return e
	case stderrors.As(err, &malformed):
		loc := malformed.Path
		if loc == "" {
			loc = source
		}
		return errors.New("E101").
			WithLocation(loc, 0, 0).
			WithDetail(malformed.Reason).
			Wrap(err)
	case stderrors.As(err, &invalid):
		return errors.New("E102").WithLocation(source, 0, 0).WithDetail(err.Error())
	case stderrors.Is(err, context.Canceled), stderrors.Is(err, context.DeadlineExceeded):
		return err
	default:
		return fmt.Errorf("scan %s: %w", source, err)
	}
}

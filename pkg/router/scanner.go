package router

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// Default marker files: a directory containing any of these is a route.
var (
	DefaultMarkerNames      = []string{"route", "page"}
	DefaultMarkerExtensions = []string{".js", ".jsx", ".ts", ".tsx"}
)

// DefaultConcurrency bounds the number of directories read at once.
const DefaultConcurrency = 16

// dependencyDir is never descended into.
const dependencyDir = "node_modules"

// ScanOptions configures scanning behavior.
type ScanOptions struct {
	// MarkerNames are the base names of marker files (default: route, page).
	MarkerNames []string

	// MarkerExtensions are the marker file extensions (default: .js .jsx .ts .tsx).
	MarkerExtensions []string

	// Malformed decides how bracketed names without a usable parameter are handled.
	Malformed MalformedPolicy

	// Concurrency bounds concurrent directory reads (default: DefaultConcurrency).
	Concurrency int

	// Validate runs the tree Validator on the result.
	Validate bool

	// Logger receives debug output about skipped directories. Optional.
	Logger *slog.Logger
}

// Scanner builds a RouteNode tree from a directory.
type Scanner struct {
	rootDir string
}

// NewScanner creates a new route scanner.
func NewScanner(rootDir string) *Scanner {
	return &Scanner{rootDir: rootDir}
}

// Root returns the directory the scanner reads.
func (s *Scanner) Root() string {
	return s.rootDir
}

// Scan reads the directory tree with default options.
func (s *Scanner) Scan(ctx context.Context) (*RouteNode, error) {
	return s.ScanWithOptions(ctx, ScanOptions{})
}

// ScanWithOptions reads the directory tree. On any error no tree is returned.
func (s *Scanner) ScanWithOptions(ctx context.Context, opts ScanOptions) (*RouteNode, error) {
	root, err := filepath.Abs(s.rootDir)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &NotFoundError{Path: s.rootDir, Err: err}
		}
		return nil, err
	}
	if !info.IsDir() {
		return nil, &NotFoundError{Path: s.rootDir, NotDir: true}
	}

	w := newWalker(opts)
	node, err := w.dir(ctx, root, Segment{Kind: SegmentStatic})
	if err != nil {
		return nil, err
	}

	if opts.Validate {
		if err := NewValidator(node).Validate(); err != nil {
			return nil, err
		}
	}
	return node, nil
}

// walker holds per-scan state shared by all directory goroutines.
// Everything in it is read-only after construction.
type walker struct {
	markers map[string]struct{}
	policy  MalformedPolicy
	sem     *semaphore.Weighted
	logger  *slog.Logger
}

// Markers returns the marker file names the options select, with defaults
// applied.
func (o ScanOptions) Markers() map[string]struct{} {
	names := o.MarkerNames
	if len(names) == 0 {
		names = DefaultMarkerNames
	}
	exts := o.MarkerExtensions
	if len(exts) == 0 {
		exts = DefaultMarkerExtensions
	}
	return MarkerFiles(names, exts)
}

func newWalker(opts ScanOptions) *walker {
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	return &walker{
		markers: opts.Markers(),
		policy:  opts.Malformed,
		sem:     semaphore.NewWeighted(int64(concurrency)),
		logger:  opts.Logger,
	}
}

// MarkerFiles returns the cross product of marker names and extensions.
// Extensions may be given with or without the leading dot.
func MarkerFiles(names, exts []string) map[string]struct{} {
	files := make(map[string]struct{}, len(names)*len(exts))
	for _, name := range names {
		for _, ext := range exts {
			ext = strings.TrimSpace(ext)
			if ext != "" && !strings.HasPrefix(ext, ".") {
				ext = "." + ext
			}
			files[name+ext] = struct{}{}
		}
	}
	return files
}

// dir scans one directory. seg describes the directory itself, so dynamic
// nodes are created with their parameter data and never mutated afterwards.
func (w *walker) dir(ctx context.Context, path string, seg Segment) (*RouteNode, error) {
	entries, err := w.readDir(ctx, path)
	if err != nil {
		return nil, err
	}

	node := NewRouteNode()
	if seg.Kind == SegmentDynamic {
		node = newParamNode(seg)
	}

	var subdirs []Segment
	for _, entry := range entries {
		name := entry.Name()
		if !entry.IsDir() {
			if _, ok := w.markers[name]; ok {
				node.IsRoute = true
			}
			continue
		}
		if skipDir(name) {
			w.debug("skipping directory", "path", filepath.Join(path, name))
			continue
		}

		sub, err := ParseSegment(name, w.policy)
		if err != nil {
			var mse *MalformedSegmentError
			if errors.As(err, &mse) {
				mse.Path = filepath.Join(path, name)
			}
			return nil, err
		}
		subdirs = append(subdirs, sub)
	}

	children := make([]*RouteNode, len(subdirs))
	g, gctx := errgroup.WithContext(ctx)
	for i, sub := range subdirs {
		i, sub := i, sub
		g.Go(func() error {
			child, err := w.dir(gctx, filepath.Join(path, sub.Raw), sub)
			if err != nil {
				return err
			}
			children[i] = child
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i, sub := range subdirs {
		child := children[i]
		if child.Empty() {
			w.debug("pruning empty directory", "path", filepath.Join(path, sub.Raw))
			continue
		}
		node.AddChild(sub.Key(), child)
	}

	return node, nil
}

// readDir lists a directory while holding a semaphore slot. The slot is not
// held while child directories are scanned, so nesting cannot deadlock.
func (w *walker) readDir(ctx context.Context, path string) ([]os.DirEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := w.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer w.sem.Release(1)

	entries, err := os.ReadDir(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &NotFoundError{Path: path, Err: err}
		}
		return nil, err
	}
	return entries, nil
}

// skipDir reports directories excluded from the tree: dot directories, the
// dependency cache and private (underscore) folders with their whole subtree.
func skipDir(name string) bool {
	return strings.HasPrefix(name, ".") || name == dependencyDir || strings.HasPrefix(name, "_")
}

func (w *walker) debug(msg string, args ...any) {
	if w.logger != nil {
		w.logger.Debug(msg, args...)
	}
}

package config

import (
	"path/filepath"
	"strings"
	"unicode"

	"github.com/vango-dev/routegen/internal/errors"
	"github.com/vango-dev/routegen/pkg/router"
)

const (
	// ModuleName is the config key in package.json and the stem of every
	// config file name.
	ModuleName = "routegen"

	// DefaultInput is the default route directory.
	DefaultInput = "app/api"

	// DefaultOutput is the default generated file.
	DefaultOutput = "routes/routes_gen.go"

	// DefaultRoutesName is the default name of the generated builder.
	DefaultRoutesName = "routes"

	// DefaultPackage is used when no package name can be derived from the output path.
	DefaultPackage = "routes"

	// EnvConfigPath names a config file to load instead of searching.
	EnvConfigPath = "ROUTEGEN_CONFIG"
)

// Format is the output format of a target.
type Format string

const (
	FormatGo   Format = "go"
	FormatJSON Format = "json"
)

// ParseFormat parses a format name. The empty string is FormatGo.
func ParseFormat(s string) (Format, bool) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatGo:
		return FormatGo, true
	case FormatJSON:
		return FormatJSON, true
	}
	return "", false
}

// Target is one generation target: a route directory and where its builder goes.
type Target struct {
	// Input is the route directory to scan.
	Input string `json:"input,omitempty" yaml:"input,omitempty"`

	// Output is the generated file.
	Output string `json:"output,omitempty" yaml:"output,omitempty"`

	// Format selects Go source or a JSON manifest.
	Format Format `json:"format,omitempty" yaml:"format,omitempty"`

	// Package is the Go package of the generated file.
	Package string `json:"package,omitempty" yaml:"package,omitempty"`

	// RoutesName is the name of the generated builder variable.
	RoutesName string `json:"routesName,omitempty" yaml:"routesName,omitempty"`

	// BasePrefix is prepended to every path. nil means derived from Input.
	BasePrefix *string `json:"basePrefix,omitempty" yaml:"basePrefix,omitempty"`

	// Watch rebuilds the target when its route tree changes.
	Watch bool `json:"watch,omitempty" yaml:"watch,omitempty"`

	// ParamTypes maps parameter names to Go types.
	ParamTypes map[string]string `json:"paramTypes,omitempty" yaml:"paramTypes,omitempty"`

	// InferParamTypes guesses Go types from parameter names (postId → int).
	InferParamTypes bool `json:"inferParamTypes,omitempty" yaml:"inferParamTypes,omitempty"`

	// MalformedSegments is "literal" (default) or "reject".
	MalformedSegments string `json:"malformedSegments,omitempty" yaml:"malformedSegments,omitempty"`

	MarkerNames      []string `json:"markerNames,omitempty" yaml:"markerNames,omitempty"`
	MarkerExtensions []string `json:"markerExtensions,omitempty" yaml:"markerExtensions,omitempty"`

	// Concurrency bounds concurrent directory reads while scanning.
	Concurrency int `json:"concurrency,omitempty" yaml:"concurrency,omitempty"`

	// Validate rejects trees whose paths would be ambiguous. Defaults to true.
	Validate *bool `json:"validate,omitempty" yaml:"validate,omitempty"`

	// Directories relative Input and Output are resolved against.
	inputBase  string
	outputBase string
}

// formatFor infers the format from the extension of output.
func formatFor(output string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(output)) {
	case ".json":
		return FormatJSON, true
	case ".go":
		return FormatGo, true
	}
	return "", false
}

// Default returns a target with every default applied.
func Default() Target {
	t := Target{}
	t.applyDefaults()
	return t
}

func (t *Target) applyDefaults() {
	if t.Input == "" {
		t.Input = DefaultInput
	}
	if t.Output == "" {
		t.Output = DefaultOutput
	}
	if t.Format == "" {
		t.Format = FormatGo
		if f, ok := formatFor(t.Output); ok {
			t.Format = f
		}
	}
	if t.RoutesName == "" {
		t.RoutesName = DefaultRoutesName
	}
	if t.Package == "" {
		t.Package = PackageName(t.Output)
	}
}

// setBase resolves relative paths of t against dir.
func (t *Target) setBase(dir string) {
	t.inputBase = dir
	t.outputBase = dir
}

// Prefix returns the base prefix, deriving it from Input when unset.
func (t Target) Prefix() string {
	if t.BasePrefix != nil {
		return *t.BasePrefix
	}
	return DefaultBasePrefix(t.Input)
}

// InputPath returns Input resolved against the directory of its source.
func (t Target) InputPath() string {
	return resolve(t.inputBase, t.Input)
}

// OutputPath returns Output resolved against the directory of its source.
func (t Target) OutputPath() string {
	return resolve(t.outputBase, t.Output)
}

func resolve(base, path string) string {
	if base == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}

// ShouldValidate reports whether the scanned tree is validated.
func (t Target) ShouldValidate() bool {
	return t.Validate == nil || *t.Validate
}

// ScanOptions returns the scanner options of the target.
func (t Target) ScanOptions() (router.ScanOptions, error) {
	policy, ok := router.ParseMalformedPolicy(t.MalformedSegments)
	if !ok {
		return router.ScanOptions{}, errors.New("E121").
			WithDetailf("malformedSegments %q is not one of literal, reject", t.MalformedSegments)
	}
	return router.ScanOptions{
		MarkerNames:      t.MarkerNames,
		MarkerExtensions: t.MarkerExtensions,
		Malformed:        policy,
		Concurrency:      t.Concurrency,
		Validate:         t.ShouldValidate(),
	}, nil
}

// Markers returns the marker file names of the target.
func (t Target) Markers() map[string]struct{} {
	return router.ScanOptions{
		MarkerNames:      t.MarkerNames,
		MarkerExtensions: t.MarkerExtensions,
	}.Markers()
}

// Check reports the first invalid field of t.
func (t Target) Check() error {
	if _, ok := ParseFormat(string(t.Format)); !ok {
		return errors.New("E121").
			WithDetailf("format %q is not one of go, json", t.Format).
			WithSuggestion(`Set "format" to "go" or "json"`)
	}
	if _, err := t.ScanOptions(); err != nil {
		return err
	}
	if t.Concurrency < 0 {
		return errors.New("E120").WithDetailf("concurrency must not be negative, got %d", t.Concurrency)
	}
	if t.Format == FormatGo && !isIdentifier(t.Package) {
		return errors.New("E120").WithDetailf("package %q is not a valid Go package name", t.Package)
	}
	return nil
}

// Name identifies the target in logs and metrics.
func (t Target) Name() string {
	return filepath.ToSlash(t.Output)
}

// DefaultBasePrefix derives a prefix from the input directory: the part of
// the path after its first "app" segment, or "/" when there is none.
//
//	./app/api      → /api
//	src/app/v1/api → /v1/api
//	routes         → /
func DefaultBasePrefix(input string) string {
	var parts []string
	for _, p := range strings.Split(filepath.ToSlash(input), "/") {
		if p != "" && p != "." {
			parts = append(parts, p)
		}
	}
	for i, p := range parts {
		if p == "app" {
			return "/" + strings.Join(parts[i+1:], "/")
		}
	}
	return "/"
}

// PackageName derives a Go package name from the directory of output.
func PackageName(output string) string {
	dir := filepath.Base(filepath.Dir(output))
	var b strings.Builder
	for _, r := range strings.ToLower(dir) {
		if r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	name := b.String()
	if !isIdentifier(name) {
		return DefaultPackage
	}
	return name
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r == '_' || unicode.IsLetter(r) || (i > 0 && unicode.IsDigit(r)) {
			continue
		}
		return false
	}
	return true
}

// Overrides are command line options. A nil field was not given.
type Overrides struct {
	Input      *string
	Output     *string
	BasePrefix *string
	Format     *string
	Package    *string
	RoutesName *string
	Watch      *bool

	// Dir resolves relative Input and Output overrides. Usually the working directory.
	Dir string
}

// Merge returns t with every set override applied.
func (t Target) Merge(o Overrides) (Target, error) {
	if o.Input != nil {
		t.Input = *o.Input
		t.inputBase = o.Dir
	}
	if o.Output != nil {
		t.Output = *o.Output
		t.outputBase = o.Dir
		if o.Package == nil {
			t.Package = PackageName(t.Output)
		}
		if o.Format == nil {
			if f, ok := formatFor(t.Output); ok {
				t.Format = f
			}
		}
	}
	if o.BasePrefix != nil {
		prefix := *o.BasePrefix
		t.BasePrefix = &prefix
	}
	if o.Format != nil {
		f, ok := ParseFormat(*o.Format)
		if !ok {
			return t, errors.New("E121").WithDetailf("format %q is not one of go, json", *o.Format)
		}
		t.Format = f
	}
	if o.Package != nil {
		t.Package = *o.Package
	}
	if o.RoutesName != nil {
		t.RoutesName = *o.RoutesName
	}
	if o.Watch != nil {
		t.Watch = *o.Watch
	}
	return t, nil
}

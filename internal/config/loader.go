package config

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/routegen/internal/errors"
)

// SearchPlaces lists the file names looked for in every directory, in order.
var SearchPlaces = []string{
	"package.json",
	".routegenrc",
	".routegenrc.json",
	".routegenrc.yaml",
	".routegenrc.yml",
	"routegen.json",
	"routegen.yaml",
	"routegen.yml",
}

// File is a loaded configuration.
type File struct {
	// Path is the file the targets were read from, or "" for defaults.
	Path string

	Targets []Target
}

// Dir returns the directory of the config file.
func (f *File) Dir() string {
	if f.Path == "" {
		return ""
	}
	return filepath.Dir(f.Path)
}

// Loader finds and reads configuration files.
type Loader struct {
	// SearchPlaces overrides the package-level SearchPlaces.
	SearchPlaces []string

	// StopDir ends the upward search after this directory. Empty searches up
	// to the filesystem root.
	StopDir string

	Logger *slog.Logger
}

// NewLoader creates a loader with the default search places.
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{Logger: logger}
}

func (l *Loader) places() []string {
	if len(l.SearchPlaces) > 0 {
		return l.SearchPlaces
	}
	return SearchPlaces
}

// Search looks for a config file in startDir and each of its parents.
// It returns an E141 error when none is found.
func (l *Loader) Search(startDir string) (*File, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, errors.New("E141").Wrap(err)
	}
	stop := ""
	if l.StopDir != "" {
		stop, _ = filepath.Abs(l.StopDir)
	}

	for {
		for _, name := range l.places() {
			path := filepath.Join(dir, name)
			data, err := os.ReadFile(path)
			if err != nil {
				if stderrors.Is(err, fs.ErrNotExist) || isDirErr(path) {
					continue
				}
				return nil, errors.New("E120").WithLocation(path, 0, 0).Wrap(err)
			}

			targets, found, err := decode(path, data)
			if err != nil {
				return nil, err
			}
			if !found {
				continue
			}
			return newFile(path, targets)
		}

		parent := filepath.Dir(dir)
		if parent == dir || dir == stop {
			break
		}
		dir = parent
	}

	return nil, errors.New("E141").
		WithDetailf("No routegen configuration found in %s or any parent directory", startDir).
		WithSuggestion("Run 'routegen init' to create routegen.json")
}

// Load reads one config file. Unlike Search, a package.json without a
// "routegen" key is an error.
func (l *Loader) Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.New("E141").
				WithDetailf("Config file %s does not exist", path).
				WithSuggestion("Check the --config flag or the " + EnvConfigPath + " variable")
		}
		return nil, errors.New("E120").WithLocation(path, 0, 0).Wrap(err)
	}

	targets, found, err := decode(path, data)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errors.New("E120").
			WithLocation(path, 0, 0).
			WithDetailf("%s has no %q key", filepath.Base(path), ModuleName)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return newFile(abs, targets)
}

// Resolve loads configPath when given, then the file named by
// ROUTEGEN_CONFIG, and otherwise searches from startDir. When no file is
// found it logs a warning and returns the default target.
func (l *Loader) Resolve(configPath, startDir string) (*File, error) {
	if configPath == "" {
		configPath = os.Getenv(EnvConfigPath)
	}
	if configPath != "" {
		return l.Load(configPath)
	}

	f, err := l.Search(startDir)
	if err == nil {
		return f, nil
	}
	if !errors.HasCode(err, "E141") {
		return nil, err
	}

	l.Logger.Warn("no config file found, using defaults", "dir", startDir)
	def := Default()
	def.setBase(startDir)
	return &File{Targets: []Target{def}}, nil
}

func newFile(path string, targets []Target) (*File, error) {
	if len(targets) == 0 {
		return nil, errors.New("E120").
			WithLocation(path, 0, 0).
			WithDetail("The configuration defines no targets")
	}
	dir := filepath.Dir(path)
	for i := range targets {
		targets[i].applyDefaults()
		targets[i].setBase(dir)
		if err := targets[i].Check(); err != nil {
			var re *errors.RouteError
			if stderrors.As(err, &re) && re.Location == nil {
				re.WithLocation(path, 0, 0)
			}
			return nil, fmt.Errorf("target %d: %w", i+1, err)
		}
	}
	return &File{Path: path, Targets: targets}, nil
}

func isDirErr(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// decode parses the targets in data. found is false for a package.json
// without a routegen key.
func decode(path string, data []byte) (targets []Target, found bool, err error) {
	name := filepath.Base(path)

	switch {
	case name == "package.json":
		var pkg map[string]json.RawMessage
		if err := json.Unmarshal(data, &pkg); err != nil {
			return nil, false, jsonError(path, data, err)
		}
		raw, ok := pkg[ModuleName]
		if !ok {
			return nil, false, nil
		}
		// Offsets inside the embedded value do not map to file lines.
		targets, err = decodeJSON(path, raw, nil)
		if err != nil {
			return nil, false, err
		}
		return targets, true, nil

	case strings.HasSuffix(name, ".json"):
		targets, err = decodeJSON(path, data, data)

	case strings.HasSuffix(name, ".yaml"), strings.HasSuffix(name, ".yml"):
		targets, err = decodeYAML(path, data)

	default:
		// Extensionless rc files hold JSON or YAML.
		trimmed := bytes.TrimSpace(data)
		if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
			targets, err = decodeJSON(path, data, data)
		} else {
			targets, err = decodeYAML(path, data)
		}
	}
	if err != nil {
		return nil, false, err
	}
	return targets, true, nil
}

// decodeJSON decodes one target or an array of targets. src is the whole
// file, used to turn error offsets into line numbers; nil skips them.
func decodeJSON(path string, data, src []byte) ([]Target, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var targets []Target
		if err := json.Unmarshal(data, &targets); err != nil {
			return nil, jsonError(path, src, err)
		}
		return targets, nil
	}

	var t Target
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, jsonError(path, src, err)
	}
	return []Target{t}, nil
}

func decodeYAML(path string, data []byte) ([]Target, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, yamlError(path, err)
	}
	if doc.Kind == 0 {
		// Empty file.
		return nil, nil
	}

	root := &doc
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}

	switch root.Kind {
	case yaml.SequenceNode:
		var targets []Target
		if err := root.Decode(&targets); err != nil {
			return nil, yamlError(path, err)
		}
		return targets, nil
	case yaml.MappingNode:
		var t Target
		if err := root.Decode(&t); err != nil {
			return nil, yamlError(path, err)
		}
		return []Target{t}, nil
	default:
		return nil, errors.New("E120").
			WithLocation(path, root.Line, root.Column).
			WithDetail("The configuration must be a target object or a list of targets")
	}
}

func jsonError(path string, data []byte, err error) error {
	re := errors.New("E120").Wrap(err).WithSuggestion("Check that " + filepath.Base(path) + " is valid JSON")
	if data == nil {
		return re.WithLocation(path, 0, 0)
	}

	var syntax *json.SyntaxError
	var typ *json.UnmarshalTypeError
	switch {
	case stderrors.As(err, &syntax):
		line, col := position(data, syntax.Offset)
		return re.WithLocation(path, line, col)
	case stderrors.As(err, &typ):
		line, col := position(data, typ.Offset)
		return re.WithLocation(path, line, col)
	}
	return re.WithLocation(path, 0, 0)
}

func yamlError(path string, err error) error {
	return errors.New("E120").
		Wrap(err).
		WithLocationFromError(path, err).
		WithSuggestion("Check the indentation and types in " + filepath.Base(path))
}

// position converts a byte offset into a 1-based line and column.
func position(data []byte, offset int64) (line, col int) {
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	line = 1 + bytes.Count(data[:offset], []byte("\n"))
	col = int(offset) - bytes.LastIndexByte(data[:offset], '\n')
	return line, col
}

// Save writes targets to path, as YAML for .yaml and .yml files and as JSON
// otherwise. A single target is written as an object.
func Save(path string, targets ...Target) error {
	var v any = targets
	if len(targets) == 1 {
		v = targets[0]
	}

	var data []byte
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(v)
	default:
		data, err = json.MarshalIndent(v, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return errors.New("E120").Wrap(err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("E160").WithLocation(path, 0, 0).Wrap(err)
	}
	return nil
}

package config

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vango-dev/routegen/internal/errors"
)

func quietLoader(stop string) *Loader {
	l := NewLoader(slog.New(slog.NewTextHandler(io.Discard, nil)))
	l.StopDir = stop
	return l
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadJSONObject(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "routegen.json")
	writeFile(t, path, `{
  "input": "src/app/api",
  "output": "internal/apiroutes/routes.go",
  "paramTypes": {"postId": "int64"},
  "inferParamTypes": true
}`)

	f, err := quietLoader(dir).Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(f.Targets) != 1 {
		t.Fatalf("len(Targets) = %d, want 1", len(f.Targets))
	}
	tgt := f.Targets[0]
	if tgt.InputPath() != filepath.Join(dir, "src/app/api") {
		t.Errorf("InputPath() = %q", tgt.InputPath())
	}
	if tgt.OutputPath() != filepath.Join(dir, "internal/apiroutes/routes.go") {
		t.Errorf("OutputPath() = %q", tgt.OutputPath())
	}
	if tgt.Package != "apiroutes" {
		t.Errorf("Package = %q, want apiroutes", tgt.Package)
	}
	if tgt.Prefix() != "/api" {
		t.Errorf("Prefix() = %q, want /api", tgt.Prefix())
	}
	if tgt.ParamTypes["postId"] != "int64" || !tgt.InferParamTypes {
		t.Errorf("param settings not loaded: %+v", tgt)
	}
	if f.Dir() != dir {
		t.Errorf("Dir() = %q, want %q", f.Dir(), dir)
	}
}

func TestLoadYAMLArray(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "routegen.yaml")
	writeFile(t, path, `
- input: app/api
  output: routes/api_gen.go
- input: app/admin
  output: routes/admin.json
  basePrefix: ""
  watch: true
  validate: false
`)

	f, err := quietLoader(dir).Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(f.Targets) != 2 {
		t.Fatalf("len(Targets) = %d, want 2", len(f.Targets))
	}
	api, admin := f.Targets[0], f.Targets[1]
	if api.Prefix() != "/api" || api.Format != FormatGo {
		t.Errorf("api target = %+v", api)
	}
	if admin.Prefix() != "" {
		t.Errorf("explicit empty basePrefix lost: %q", admin.Prefix())
	}
	if admin.Format != FormatJSON || !admin.Watch || admin.ShouldValidate() {
		t.Errorf("admin target = %+v", admin)
	}
}

func TestLoadRCFormats(t *testing.T) {
	dir := t.TempDir()

	jsonRC := filepath.Join(dir, "json", ".routegenrc")
	writeFile(t, jsonRC, `{"input": "app/v1"}`)
	yamlRC := filepath.Join(dir, "yaml", ".routegenrc")
	writeFile(t, yamlRC, "input: app/v2\n")

	for path, want := range map[string]string{jsonRC: "/v1", yamlRC: "/v2"} {
		f, err := quietLoader(dir).Load(path)
		if err != nil {
			t.Fatalf("Load(%s) error: %v", path, err)
		}
		if got := f.Targets[0].Prefix(); got != want {
			t.Errorf("%s: Prefix() = %q, want %q", path, got, want)
		}
	}
}

func TestSearchPrecedence(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "routegen.yaml"), "input: app/from-yaml\n")
	writeFile(t, filepath.Join(root, ".routegenrc.json"), `{"input": "app/from-rc"}`)
	writeFile(t, filepath.Join(root, "package.json"), `{"name": "web", "version": "1.0.0"}`)

	f, err := quietLoader(root).Search(root)
	if err != nil {
		t.Fatal(err)
	}
	if f.Targets[0].Input != "app/from-rc" {
		t.Errorf("Input = %q, want app/from-rc (package.json without key is skipped)", f.Targets[0].Input)
	}

	writeFile(t, filepath.Join(root, "package.json"), `{"name": "web", "routegen": {"input": "app/from-pkg"}}`)
	f, err = quietLoader(root).Search(root)
	if err != nil {
		t.Fatal(err)
	}
	if f.Targets[0].Input != "app/from-pkg" {
		t.Errorf("Input = %q, want app/from-pkg", f.Targets[0].Input)
	}
	if filepath.Base(f.Path) != "package.json" {
		t.Errorf("Path = %q", f.Path)
	}
}

func TestSearchWalksUp(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "routegen.json"), `{"input": "app/api"}`)
	nested := filepath.Join(root, "a", "b", "c")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}

	f, err := quietLoader(root).Search(nested)
	if err != nil {
		t.Fatal(err)
	}
	if f.Path != filepath.Join(root, "routegen.json") {
		t.Errorf("Path = %q", f.Path)
	}
	if f.Targets[0].InputPath() != filepath.Join(root, "app/api") {
		t.Errorf("InputPath() = %q, want relative to the config file", f.Targets[0].InputPath())
	}
}

func TestSearchNotFound(t *testing.T) {
	root := t.TempDir()
	_, err := quietLoader(root).Search(root)
	if !errors.HasCode(err, "E141") {
		t.Errorf("Search() = %v, want E141", err)
	}
}

func TestResolveFallsBackToDefaults(t *testing.T) {
	root := t.TempDir()
	t.Setenv(EnvConfigPath, "")

	f, err := quietLoader(root).Resolve("", root)
	if err != nil {
		t.Fatal(err)
	}
	if f.Path != "" {
		t.Errorf("Path = %q, want empty", f.Path)
	}
	if len(f.Targets) != 1 || f.Targets[0].Input != DefaultInput {
		t.Errorf("Targets = %+v", f.Targets)
	}
}

func TestResolveEnv(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "custom.yml")
	writeFile(t, path, "input: app/env\n")
	t.Setenv(EnvConfigPath, path)

	f, err := quietLoader(root).Resolve("", root)
	if err != nil {
		t.Fatal(err)
	}
	if f.Targets[0].Input != "app/env" {
		t.Errorf("Input = %q, want app/env", f.Targets[0].Input)
	}

	if _, err := quietLoader(root).Resolve(filepath.Join(root, "missing.json"), root); !errors.HasCode(err, "E141") {
		t.Errorf("missing explicit config = %v, want E141", err)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		code    string
		line    int
	}{
		{"json syntax", "routegen.json", "{\n  \"input\": \"app/api\",\n  \"output\" \"x.go\"\n}", "E120", 3},
		{"json type", "routegen.json", "{\n  \"watch\": \"yes\"\n}", "E120", 2},
		{"yaml syntax", "routegen.yaml", "input: app/api\n  output: [x\n", "E120", 0},
		{"yaml scalar", "routegen.yaml", "just a string\n", "E120", 1},
		{"empty array", "routegen.json", "[]", "E120", 0},
		{"bad format", "routegen.json", `{"format": "ts"}`, "E121", 0},
		{"package.json without key", "package.json", `{"name": "x"}`, "E120", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, tt.file)
			writeFile(t, path, tt.content)

			_, err := quietLoader(dir).Load(path)
			if !errors.HasCode(err, tt.code) {
				t.Fatalf("Load() = %v, want %s", err, tt.code)
			}
			if tt.line > 0 {
				re := errors.FromError(err, "")
				if re.Location == nil || re.Location.Line != tt.line {
					t.Errorf("Location = %+v, want line %d", re.Location, tt.line)
				}
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"routegen.json", "routegen.yaml"} {
		path := filepath.Join(dir, name)
		if err := Save(path, Default()); err != nil {
			t.Fatalf("Save(%s) error: %v", name, err)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(string(data), "app/api") {
			t.Errorf("%s does not mention the input:\n%s", name, data)
		}

		f, err := quietLoader(dir).Load(path)
		if err != nil {
			t.Fatalf("Load(%s) error: %v", name, err)
		}
		got := f.Targets[0]
		if got.Input != DefaultInput || got.Output != DefaultOutput || got.Format != FormatGo {
			t.Errorf("%s round trip = %+v", name, got)
		}
	}
}

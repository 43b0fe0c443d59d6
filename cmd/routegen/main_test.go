package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vango-dev/routegen/internal/codegen"
	"github.com/vango-dev/routegen/internal/config"
	"github.com/vango-dev/routegen/internal/errors"
)

// project creates a temporary project with a few routes and makes it the
// working directory for the rest of the test.
func project(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for _, p := range []string{
		"app/api/users/route.ts",
		"app/api/users/[userId]/route.ts",
		"app/api/posts/[postId]/page.tsx",
	} {
		full := filepath.Join(dir, filepath.FromSlash(p))
		if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(full, []byte("export {}\n"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(old) })
	t.Setenv(config.EnvConfigPath, "")
	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestGenerateDefaults(t *testing.T) {
	dir := project(t)

	if _, err := run(t, "generate"); err != nil {
		t.Fatalf("generate: %v", err)
	}

	src, err := os.ReadFile(filepath.Join(dir, "routes", "routes_gen.go"))
	if err != nil {
		t.Fatalf("generated file: %v", err)
	}
	for _, want := range []string{"package routes", `"/api/users/{userId}"`} {
		if !strings.Contains(string(src), want) {
			t.Errorf("generated source missing %q", want)
		}
	}
}

func TestGenerateFlags(t *testing.T) {
	dir := project(t)

	_, err := run(t, "-i", "app/api", "-o", "out/manifest.json", "-b", "/v2")
	if err != nil {
		t.Fatalf("routegen: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "out", "manifest.json"))
	if err != nil {
		t.Fatalf("manifest: %v", err)
	}
	var m codegen.Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("manifest JSON: %v", err)
	}
	if m.BasePrefix != "/v2" {
		t.Errorf("BasePrefix = %q, want /v2", m.BasePrefix)
	}
	if len(m.Routes) != 3 {
		t.Errorf("len(Routes) = %d, want 3", len(m.Routes))
	}
}

func TestGenerateConfigTargets(t *testing.T) {
	dir := project(t)
	cfg := `[
  {"input": "app/api", "output": "gen/a/routes_gen.go"},
  {"input": "app/api/users", "output": "gen/b.json"}
]`
	if err := os.WriteFile(filepath.Join(dir, "routegen.json"), []byte(cfg), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := run(t); err != nil {
		t.Fatalf("routegen: %v", err)
	}
	src, err := os.ReadFile(filepath.Join(dir, "gen", "a", "routes_gen.go"))
	if err != nil {
		t.Fatalf("first target: %v", err)
	}
	if !strings.Contains(string(src), "package a") {
		t.Error("package should default to the output directory name")
	}
	if _, err := os.Stat(filepath.Join(dir, "gen", "b.json")); err != nil {
		t.Errorf("second target: %v", err)
	}
}

func TestGenerateErrors(t *testing.T) {
	project(t)

	_, err := run(t, "-i", "missing")
	if !errors.HasCode(err, "E100") {
		t.Errorf("missing input: code = %q, want E100", errors.Code(err))
	}

	_, err = run(t, "--format", "yaml")
	if !errors.HasCode(err, "E121") {
		t.Errorf("bad format: code = %q, want E121", errors.Code(err))
	}

	_, err = run(t, "--tree", "tree.json", "--watch")
	if !errors.HasCode(err, "E120") {
		t.Errorf("--tree with --watch: code = %q, want E120", errors.Code(err))
	}
}

func TestGenerateMetricsFile(t *testing.T) {
	dir := project(t)

	if _, err := run(t, "generate", "--metrics-file", "routegen.prom"); err != nil {
		t.Fatalf("generate: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "routegen.prom"))
	if err != nil {
		t.Fatalf("metrics file: %v", err)
	}
	if !strings.Contains(string(data), "routegen_builds_total") {
		t.Errorf("metrics file missing builds counter:\n%s", data)
	}
}

func TestTreeRoundTrip(t *testing.T) {
	dir := project(t)

	out, err := run(t, "tree", "--compact", "app/api")
	if err != nil {
		t.Fatalf("tree: %v", err)
	}
	if !strings.Contains(out, `"users":{"$$route":true`) {
		t.Errorf("tree output = %s", out)
	}

	treeFile := filepath.Join(dir, "tree.json")
	if err := os.WriteFile(treeFile, []byte(out), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := run(t, "generate", "--tree", treeFile, "-o", "fromtree/routes_gen.go"); err != nil {
		t.Fatalf("generate --tree: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "fromtree", "routes_gen.go")); err != nil {
		t.Errorf("generated file: %v", err)
	}
}

func TestList(t *testing.T) {
	project(t)

	out, err := run(t, "list", "app/api")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for _, want := range []string{
		"PATTERN",
		"/api/users/:userId",
		"users.$userId(userId)",
		"posts.$postId(postId)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("list output missing %q:\n%s", want, out)
		}
	}

	out, err = run(t, "list", "--json", "app/api")
	if err != nil {
		t.Fatalf("list --json: %v", err)
	}
	var routes []codegen.ManifestRoute
	if err := json.Unmarshal([]byte(out), &routes); err != nil {
		t.Fatalf("list --json output: %v", err)
	}
	if len(routes) != 3 {
		t.Errorf("len(routes) = %d, want 3", len(routes))
	}
}

func TestPath(t *testing.T) {
	project(t)

	tests := []struct {
		args []string
		want string
	}{
		{[]string{"users", "$userId=7"}, "/api/users/7"},
		{[]string{"users"}, "/api/users"},
		{[]string{"posts", "$postId=hello"}, "/api/posts/hello"},
		{[]string{"-b", "/v1", "users"}, "/v1/users"},
	}
	for _, tt := range tests {
		out, err := run(t, append([]string{"path"}, tt.args...)...)
		if err != nil {
			t.Errorf("path %v: %v", tt.args, err)
			continue
		}
		if got := strings.TrimSpace(out); got != tt.want {
			t.Errorf("path %v = %q, want %q", tt.args, got, tt.want)
		}
	}

	for _, args := range [][]string{{"nope"}, {"posts"}, {"users", "$userId"}} {
		_, err := run(t, append([]string{"path"}, args...)...)
		if !errors.HasCode(err, "E142") {
			t.Errorf("path %v: code = %q, want E142", args, errors.Code(err))
		}
	}
}

func TestInit(t *testing.T) {
	dir := project(t)

	if _, err := run(t, "init", "-i", "src/app/api"); err != nil {
		t.Fatalf("init: %v", err)
	}
	f, err := config.NewLoader(nil).Load(filepath.Join(dir, "routegen.json"))
	if err != nil {
		t.Fatalf("load written config: %v", err)
	}
	if len(f.Targets) != 1 || f.Targets[0].Input != "src/app/api" {
		t.Errorf("targets = %+v", f.Targets)
	}

	_, err = run(t, "init")
	if !errors.HasCode(err, "E140") {
		t.Errorf("second init: code = %q, want E140", errors.Code(err))
	}
	if _, err := run(t, "init", "--force", "--file", "routegen.yaml"); err != nil {
		t.Errorf("init yaml: %v", err)
	}
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version", "--short")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if strings.TrimSpace(out) != version {
		t.Errorf("version --short = %q, want %q", out, version)
	}
}

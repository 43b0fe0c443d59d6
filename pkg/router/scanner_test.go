package router

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

// writeTree creates files (and their parent directories) under root.
// Entries ending in "/" create empty directories.
func writeTree(t *testing.T, root string, paths ...string) {
	t.Helper()
	for _, p := range paths {
		full := filepath.Join(root, filepath.FromSlash(p))
		if p[len(p)-1] == '/' {
			if err := os.MkdirAll(full, 0755); err != nil {
				t.Fatal(err)
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(full, []byte("export {}\n"), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

func childKeys(n *RouteNode) []string {
	var keys []string
	for _, c := range n.Children() {
		keys = append(keys, c.Key)
	}
	return keys
}

func mustChild(t *testing.T, n *RouteNode, keys ...string) *RouteNode {
	t.Helper()
	cur := n
	for _, k := range keys {
		next, ok := cur.Child(k)
		if !ok {
			t.Fatalf("missing child %q (have %v)", k, childKeys(cur))
		}
		cur = next
	}
	return cur
}

func TestScannerScan(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir,
		"hyphened-route/route.ts",
		"(collections)/posts/[postId]/route.ts",
		"(collections)/users/[userId]/route.ts",
		"(internal)/health/route.js",
		"_private/secret/route.ts",
		".next/cache/route.ts",
		"node_modules/pkg/route.ts",
		"empty/",
		"notes/readme.md",
	)

	root, err := NewScanner(dir).Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan error: %v", err)
	}

	want := []string{"(collections)", "(internal)", "hyphened-route"}
	got := childKeys(root)
	if len(got) != len(want) {
		t.Fatalf("root keys = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("root keys[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	if root.IsRoute {
		t.Error("root should not be a route")
	}
	if root.IsParam() {
		t.Error("root must not carry a parameter")
	}

	post := mustChild(t, root, "(collections)", "posts", "$postId")
	if !post.IsRoute {
		t.Error("[postId] should be a route")
	}
	if post.ParamName != "postId" {
		t.Errorf("ParamName = %q, want %q", post.ParamName, "postId")
	}

	posts := mustChild(t, root, "(collections)", "posts")
	if posts.IsRoute || posts.IsParam() {
		t.Error("posts should be a static non-route container")
	}

	if !mustChild(t, root, "(internal)", "health").IsRoute {
		t.Error("health should be a route")
	}
	if !mustChild(t, root, "hyphened-route").IsRoute {
		t.Error("hyphened-route should be a route")
	}
}

func TestScannerPrivateFoldersExcluded(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir,
		"users/route.ts",
		"users/_components/route.ts",
		"users/_lib/deep/nested/page.tsx",
	)

	root, err := NewScanner(dir).Scan(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	users := mustChild(t, root, "users")
	if users.HasChildren() {
		t.Errorf("users children = %v, want none", childKeys(users))
	}
	if !users.IsRoute {
		t.Error("users should be a route")
	}
}

func TestScannerPrunesEmptySubtrees(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir,
		"a/b/c/",
		"a/b/util.ts",
		"x/route.tsx",
	)

	root, err := NewScanner(dir).Scan(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if _, ok := root.Child("a"); ok {
		t.Error("a has no routes below it and should be pruned")
	}
	if _, ok := root.Child("x"); !ok {
		t.Error("x should be present")
	}
	_ = root.Walk(func(keys []string, n *RouteNode) error {
		if len(keys) > 0 && n.Empty() {
			t.Errorf("empty node attached at %v", keys)
		}
		return nil
	})
}

func TestScannerMarkerVariants(t *testing.T) {
	tests := []struct {
		file string
		want bool
	}{
		{"route.ts", true},
		{"route.js", true},
		{"page.tsx", true},
		{"page.jsx", true},
		{"layout.tsx", false},
		{"route.go", false},
		{"page.ts.bak", false},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			dir := t.TempDir()
			writeTree(t, dir, "seg/"+tt.file)
			root, err := NewScanner(dir).Scan(context.Background())
			if err != nil {
				t.Fatal(err)
			}
			_, ok := root.Child("seg")
			if ok != tt.want {
				t.Errorf("marker %q: present = %v, want %v", tt.file, ok, tt.want)
			}
		})
	}
}

func TestScannerMarkerDirectoryIgnored(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, "seg/route.ts/")

	root, err := NewScanner(dir).Scan(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := root.Child("seg"); ok {
		t.Error("a directory named like a marker must not mark its parent")
	}
}

func TestScannerCustomMarkers(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, "a/index.go", "b/route.ts")

	root, err := NewScanner(dir).ScanWithOptions(context.Background(), ScanOptions{
		MarkerNames:      []string{"index"},
		MarkerExtensions: []string{"go"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := root.Child("a"); !ok {
		t.Error("a/index.go should mark a as a route")
	}
	if _, ok := root.Child("b"); ok {
		t.Error("route.ts is not a marker under custom options")
	}
}

func TestScannerDynamicSegments(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir,
		"items/[id:int]/route.ts",
		"docs/[...slug]/page.tsx",
		"users/[user-id]/posts/route.ts",
	)

	root, err := NewScanner(dir).Scan(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	id := mustChild(t, root, "items", "$id")
	if id.ParamName != "id" || id.ParamType != "int" {
		t.Errorf("[id:int] = (%q, %q), want (id, int)", id.ParamName, id.ParamType)
	}

	slug := mustChild(t, root, "docs", "$slug")
	if !slug.CatchAll || slug.ParamName != "slug" {
		t.Errorf("[...slug] = %+v, want catch-all slug", slug)
	}

	userID := mustChild(t, root, "users", "$user-id")
	if userID.ParamName != "user-id" {
		t.Errorf("ParamName = %q, want raw %q", userID.ParamName, "user-id")
	}
	if userID.IsRoute {
		t.Error("[user-id] has no marker")
	}
	if !mustChild(t, userID, "posts").IsRoute {
		t.Error("posts should be a route")
	}
}

func TestScannerMalformedPolicy(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, "[]/route.ts")

	root, err := NewScanner(dir).Scan(context.Background())
	if err != nil {
		t.Fatalf("literal policy should not fail: %v", err)
	}
	node := mustChild(t, root, "[]")
	if node.IsParam() {
		t.Error("malformed segment must be static under the literal policy")
	}

	_, err = NewScanner(dir).ScanWithOptions(context.Background(), ScanOptions{Malformed: MalformedReject})
	var mse *MalformedSegmentError
	if !errors.As(err, &mse) {
		t.Fatalf("err = %v, want MalformedSegmentError", err)
	}
	if mse.Segment != "[]" {
		t.Errorf("Segment = %q, want %q", mse.Segment, "[]")
	}
	if mse.Path == "" {
		t.Error("Path should be set")
	}
}

func TestScannerNotFound(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope")

	root, err := NewScanner(missing).Scan(context.Background())
	if root != nil {
		t.Error("no partial tree may be returned")
	}
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("err = %v, want NotFoundError", err)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Error("NotFoundError should match fs.ErrNotExist")
	}
}

func TestScannerRootIsFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "file.txt")
	if err := os.WriteFile(file, nil, 0644); err != nil {
		t.Fatal(err)
	}

	_, err := NewScanner(file).Scan(context.Background())
	var nf *NotFoundError
	if !errors.As(err, &nf) || !nf.NotDir {
		t.Fatalf("err = %v, want NotFoundError with NotDir", err)
	}
}

func TestScannerCanceledContext(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, "a/route.ts", "b/c/route.ts")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	root, err := NewScanner(dir).Scan(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if root != nil {
		t.Error("no partial tree may be returned")
	}
}

func TestScannerValidate(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, "users/[id]/route.ts", "users/[slug]/route.ts")

	if _, err := NewScanner(dir).Scan(context.Background()); err != nil {
		t.Fatalf("validation is off by default: %v", err)
	}

	_, err := NewScanner(dir).ScanWithOptions(context.Background(), ScanOptions{Validate: true})
	var mve *MultiValidationError
	if !errors.As(err, &mve) {
		t.Fatalf("err = %v, want MultiValidationError", err)
	}
}

func TestScannerIdempotent(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir,
		"a/route.ts",
		"b/[x]/c/route.ts",
		"(g)/d/page.tsx",
	)

	first, err := NewScanner(dir).Scan(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	second, err := NewScanner(dir).Scan(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	a, _ := first.MarshalJSON()
	b, _ := second.MarshalJSON()
	if string(a) != string(b) {
		t.Errorf("scans differ:\n%s\n%s", a, b)
	}
}

func TestMarkerFiles(t *testing.T) {
	got := MarkerFiles([]string{"route", "page"}, []string{".ts", "js"})
	for _, want := range []string{"route.ts", "route.js", "page.ts", "page.js"} {
		if _, ok := got[want]; !ok {
			t.Errorf("missing %q", want)
		}
	}
	if len(got) != 4 {
		t.Errorf("len = %d, want 4", len(got))
	}
}

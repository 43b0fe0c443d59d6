package dev

import (
	"path/filepath"
	"strings"

	"github.com/vango-dev/routegen/internal/config"
)

// CollectWatchPaths returns the normalized, de-duplicated input directories
// of targets.
func CollectWatchPaths(targets []config.Target) []string {
	unique := make([]string, 0, len(targets))
	seen := make(map[string]struct{}, len(targets))
	for _, t := range targets {
		path := t.InputPath()
		if path == "" {
			continue
		}
		clean := filepath.Clean(path)
		if _, ok := seen[clean]; ok {
			continue
		}
		seen[clean] = struct{}{}
		unique = append(unique, clean)
	}
	return unique
}

// CollectMarkers returns the union of the marker file names of targets.
func CollectMarkers(targets []config.Target) map[string]struct{} {
	markers := make(map[string]struct{})
	for _, t := range targets {
		for name := range t.Markers() {
			markers[name] = struct{}{}
		}
	}
	return markers
}

// affects reports whether change can alter the tree of target.
func affects(target config.Target, change Change) bool {
	if change.Type != ChangeRoute {
		return false
	}
	if _, ok := target.Markers()[filepath.Base(change.Path)]; !ok {
		return false
	}
	return within(filepath.Clean(target.InputPath()), filepath.Clean(change.Path))
}

func within(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

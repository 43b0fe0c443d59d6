package codegen

import (
	"encoding/json"

	"github.com/vango-dev/routegen/internal/errors"
	"github.com/vango-dev/routegen/pkg/pathbuilder"
	"github.com/vango-dev/routegen/pkg/router"
)

// Manifest is the JSON output format: the route tree plus the flattened
// list of builder routes.
type Manifest struct {
	BasePrefix string            `json:"basePrefix"`
	Routes     []ManifestRoute   `json:"routes"`
	Tree       *router.RouteNode `json:"tree"`
}

// ManifestRoute is one entry of Manifest.Routes.
type ManifestRoute struct {
	Expr    string   `json:"expr"`
	Pattern string   `json:"pattern"`
	Params  []string `json:"params,omitempty"`
}

// NewManifest builds the manifest for root.
func NewManifest(root *router.RouteNode, basePrefix string) *Manifest {
	m := &Manifest{BasePrefix: basePrefix, Routes: []ManifestRoute{}, Tree: root}
	for _, r := range pathbuilder.List(root, basePrefix) {
		m.Routes = append(m.Routes, ManifestRoute{
			Expr:    r.Expr(),
			Pattern: r.Pattern,
			Params:  r.Params,
		})
	}
	return m
}

// GenerateJSON returns the indented JSON manifest for root.
func GenerateJSON(root *router.RouteNode, basePrefix string) ([]byte, error) {
	data, err := json.MarshalIndent(NewManifest(root, basePrefix), "", "  ")
	if err != nil {
		return nil, errors.New("E152").Wrap(err)
	}
	return append(data, '\n'), nil
}

package pathbuilder

import "github.com/vango-dev/routegen/pkg/router"

// Shape is the calling convention a route tree node is exposed with.
type Shape int

const (
	// ShapeNone marks a node that is neither a route nor has children. It is omitted.
	ShapeNone Shape = iota

	// ShapeParamLeaf is a dynamic segment without children: func(param) string.
	ShapeParamLeaf

	// ShapeParamBranch is a dynamic segment with children: func(param) *Object.
	ShapeParamBranch

	// ShapeLeaf is a static route without children: func() string.
	ShapeLeaf

	// ShapeBranch is a static segment with children: *Object.
	ShapeBranch
)

func (s Shape) String() string {
	switch s {
	case ShapeParamLeaf:
		return "param-leaf"
	case ShapeParamBranch:
		return "param-branch"
	case ShapeLeaf:
		return "leaf"
	case ShapeBranch:
		return "branch"
	default:
		return "none"
	}
}

// Classify returns the shape of n. The result depends only on whether n is a
// route, is dynamic and has children; every node maps to exactly one shape.
func Classify(n *router.RouteNode) Shape {
	switch {
	case n.IsParam() && n.HasChildren():
		return ShapeParamBranch
	case n.IsParam() && n.IsRoute:
		return ShapeParamLeaf
	case n.HasChildren():
		return ShapeBranch
	case n.IsRoute:
		return ShapeLeaf
	default:
		return ShapeNone
	}
}

// HasSelf reports whether a node of this shape exposes the "$" accessor.
func HasSelf(n *router.RouteNode) bool {
	s := Classify(n)
	return n.IsRoute && (s == ShapeBranch || s == ShapeParamBranch)
}

// plan is a route tree compiled for synthesis: shapes and display keys are
// computed once, and instantiating a builder never looks at the tree again.
type plan struct {
	key      string // raw tree key
	display  string
	shape    Shape
	route    bool
	param    string // raw parameter name
	catchAll bool
	children []*plan
}

// compile builds the plans for the children of n, skipping omitted nodes.
func compile(n *router.RouteNode) []*plan {
	var plans []*plan
	for _, c := range n.Children() {
		if router.IsReservedKey(c.Key) {
			continue
		}
		shape := Classify(c.Node)
		if shape == ShapeNone {
			continue
		}
		plans = append(plans, &plan{
			key:      c.Key,
			display:  DisplayKey(c),
			shape:    shape,
			route:    c.Node.IsRoute,
			param:    c.Node.ParamName,
			catchAll: c.Node.CatchAll,
			children: compile(c.Node),
		})
	}
	return plans
}

package pathbuilder

import (
	"fmt"
	"strings"

	"github.com/vango-dev/routegen/pkg/routepath"
	"github.com/vango-dev/routegen/pkg/router"
)

// SelfKey is the accessor a branch exposes when the branch itself is a route.
const SelfKey = "$"

// Node is a member of a builder Object. It is implemented by LeafFunc,
// ParamFunc, ParamBranchFunc and *Object only.
type Node interface {
	Shape() Shape
	node()
}

// LeafFunc returns the path of a static route.
type LeafFunc func() string

// ParamFunc returns the path of a dynamic route for the given value.
type ParamFunc func(param any) string

// ParamBranchFunc returns the builder for the subtree below a dynamic segment.
type ParamBranchFunc func(param any) *Object

func (LeafFunc) Shape() Shape        { return ShapeLeaf }
func (ParamFunc) Shape() Shape       { return ShapeParamLeaf }
func (ParamBranchFunc) Shape() Shape { return ShapeParamBranch }
func (*Object) Shape() Shape         { return ShapeBranch }

func (LeafFunc) node()        {}
func (ParamFunc) node()       {}
func (ParamBranchFunc) node() {}
func (*Object) node()         {}

// Object is a synthesized builder for one level of the route tree.
// Members are kept in tree order and an Object is never mutated once returned.
type Object struct {
	keys    []string
	members map[string]Node
	self    LeafFunc
}

// Get returns the member stored under key. Get(SelfKey) returns the route's
// own path accessor when the branch is a route.
func (o *Object) Get(key string) (Node, bool) {
	if key == SelfKey {
		if o.self == nil {
			return nil, false
		}
		return o.self, true
	}
	n, ok := o.members[key]
	return n, ok
}

// Keys returns the member keys in tree order, without SelfKey.
func (o *Object) Keys() []string {
	out := make([]string, len(o.keys))
	copy(out, o.keys)
	return out
}

// Len returns the number of members, without SelfKey.
func (o *Object) Len() int {
	return len(o.keys)
}

// Self returns the path of the branch itself when it is a route.
func (o *Object) Self() (string, bool) {
	if o.self == nil {
		return "", false
	}
	return o.self(), true
}

// set stores n under key. A key that is already present keeps its position
// and takes the later value.
func (o *Object) set(key string, n Node) {
	if _, ok := o.members[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.members[key] = n
}

// Synthesize builds the path builder for a scanned route tree. Every path the
// builder returns starts with basePrefix.
//
//	api := pathbuilder.Synthesize(root, "/api")
//	api.Call("health")                 // "/api/health"
//	pathbuilder.Resolve(api, "collections", "posts", "$postId=123") // "/api/posts/123"
func Synthesize(root *router.RouteNode, basePrefix string) *Object {
	return SynthesizeAt(root, nil, basePrefix)
}

// SynthesizeAt builds the builder for the subtree at node, whose accumulated
// segments from the root are segments.
func SynthesizeAt(node *router.RouteNode, segments []routepath.Segment, basePrefix string) *Object {
	return instantiate(compile(node), segments, basePrefix)
}

func instantiate(plans []*plan, segments []routepath.Segment, basePrefix string) *Object {
	obj := &Object{members: make(map[string]Node, len(plans))}
	for _, p := range plans {
		obj.set(p.display, member(p, segments, basePrefix))
	}
	return obj
}

func member(p *plan, parent []routepath.Segment, basePrefix string) Node {
	switch p.shape {
	case ShapeParamLeaf:
		return ParamFunc(func(param any) string {
			return routepath.Join(basePrefix, extend(parent, routepath.Param(FormatParam(param))))
		})

	case ShapeParamBranch:
		return ParamBranchFunc(func(param any) *Object {
			path := extend(parent, routepath.Param(FormatParam(param)))
			obj := instantiate(p.children, path, basePrefix)
			if p.route {
				obj.self = leaf(path, basePrefix)
			}
			return obj
		})

	case ShapeLeaf:
		return leaf(extend(parent, routepath.Static(p.key)), basePrefix)

	default:
		path := extend(parent, routepath.Static(p.key))
		obj := instantiate(p.children, path, basePrefix)
		if p.route {
			obj.self = leaf(path, basePrefix)
		}
		return obj
	}
}

func leaf(path []routepath.Segment, basePrefix string) LeafFunc {
	return func() string {
		return routepath.Join(basePrefix, path)
	}
}

// extend returns a new slice; closures never share a backing array.
func extend(segments []routepath.Segment, seg routepath.Segment) []routepath.Segment {
	out := make([]routepath.Segment, len(segments), len(segments)+1)
	copy(out, segments)
	return append(out, seg)
}

// FormatParam renders a parameter value as path text. String slices are
// joined with "/" so catch-all values can span several segments.
func FormatParam(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case []string:
		return strings.Join(v, "/")
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

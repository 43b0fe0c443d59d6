package router

// Reserved metadata keys of the serialized tree. They can never collide with
// a directory-derived key: static keys are directory names and dynamic keys
// carry a single "$".
const (
	RouteKey    = "$$route"
	ParamKey    = "$$param"
	TypeKey     = "$$type"
	CatchAllKey = "$$catchAll"
)

var reservedKeys = map[string]struct{}{
	RouteKey:    {},
	ParamKey:    {},
	TypeKey:     {},
	CatchAllKey: {},
}

// IsReservedKey reports whether key is node metadata rather than a child segment.
func IsReservedKey(key string) bool {
	_, ok := reservedKeys[key]
	return ok
}

// DynamicKey returns the child key under which a dynamic segment is stored.
func DynamicKey(paramName string) string {
	return "$" + paramName
}

// RouteNode is one path segment of a scanned route tree.
type RouteNode struct {
	// IsRoute is true when the directory contains a marker file.
	IsRoute bool

	// ParamName is the raw parameter name of a dynamic segment ("postId" for [postId]).
	ParamName string

	// ParamType is the explicit type annotation of [name:type], if any.
	ParamType string

	// CatchAll marks a [...name] segment.
	CatchAll bool

	children []Child
	index    map[string]int
}

// Child is a keyed child of a RouteNode.
type Child struct {
	Key  string
	Node *RouteNode
}

// NewRouteNode creates an empty, non-route node.
func NewRouteNode() *RouteNode {
	return &RouteNode{}
}

// newParamNode creates the node for a dynamic segment.
func newParamNode(seg Segment) *RouteNode {
	return &RouteNode{
		ParamName: seg.Name,
		ParamType: seg.Type,
		CatchAll:  seg.CatchAll,
	}
}

// IsParam reports whether the node is a dynamic segment.
func (n *RouteNode) IsParam() bool {
	return n.ParamName != ""
}

// AddChild attaches child under key. Re-adding an existing key replaces the
// node in place and keeps its original position.
func (n *RouteNode) AddChild(key string, child *RouteNode) {
	if n.index == nil {
		n.index = make(map[string]int)
	}
	if i, ok := n.index[key]; ok {
		n.children[i].Node = child
		return
	}
	n.index[key] = len(n.children)
	n.children = append(n.children, Child{Key: key, Node: child})
}

// Child returns the child stored under key.
func (n *RouteNode) Child(key string) (*RouteNode, bool) {
	i, ok := n.index[key]
	if !ok {
		return nil, false
	}
	return n.children[i].Node, true
}

// Children returns the children in insertion order.
func (n *RouteNode) Children() []Child {
	out := make([]Child, len(n.children))
	copy(out, n.children)
	return out
}

// HasChildren reports whether the node has at least one child segment.
func (n *RouteNode) HasChildren() bool {
	return len(n.children) > 0
}

// Len returns the number of child segments.
func (n *RouteNode) Len() int {
	return len(n.children)
}

// Empty reports whether the node is neither a route nor has children.
// Such a node is a dead path and is never attached by the scanner.
func (n *RouteNode) Empty() bool {
	return !n.IsRoute && !n.HasChildren()
}

// Walk visits n and its descendants depth-first in insertion order.
// keys is the raw key path from n to the visited node.
// Returning a non-nil error stops the walk.
func (n *RouteNode) Walk(fn func(keys []string, node *RouteNode) error) error {
	return n.walk(nil, fn)
}

func (n *RouteNode) walk(keys []string, fn func([]string, *RouteNode) error) error {
	if err := fn(keys, n); err != nil {
		return err
	}
	for _, c := range n.children {
		next := make([]string, len(keys), len(keys)+1)
		copy(next, keys)
		if err := c.Node.walk(append(next, c.Key), fn); err != nil {
			return err
		}
	}
	return nil
}

// CountRoutes returns the number of route nodes in the tree rooted at n.
func (n *RouteNode) CountRoutes() int {
	count := 0
	_ = n.Walk(func(_ []string, node *RouteNode) error {
		if node.IsRoute {
			count++
		}
		return nil
	})
	return count
}

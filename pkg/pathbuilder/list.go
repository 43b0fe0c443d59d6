package pathbuilder

import (
	"strings"

	"github.com/vango-dev/routegen/pkg/routepath"
	"github.com/vango-dev/routegen/pkg/router"
)

// Route is one route reachable through a synthesized builder.
type Route struct {
	// Keys is the display key path, e.g. ["collections", "posts", "$postId"].
	Keys []string

	// Pattern is the path with parameters in ":name" or "*name" form,
	// e.g. "/api/posts/:postId".
	Pattern string

	// Params lists the raw parameter names in path order.
	Params []string

	// Self marks a branch route reached through the "$" accessor.
	Self bool
}

// Expr renders the builder call expression for the route:
//
//	collections.posts.$postId(postId)
//	users.$userId(userId).$()
func (r Route) Expr() string {
	var b strings.Builder
	pi := 0
	for i, k := range r.Keys {
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(k)
		if strings.HasPrefix(k, ParamSigil) && pi < len(r.Params) {
			b.WriteString("(" + r.Params[pi] + ")")
			pi++
		} else if i == len(r.Keys)-1 && !r.Self {
			b.WriteString("()")
		}
	}
	if r.Self {
		b.WriteString("." + SelfKey + "()")
	}
	return b.String()
}

// List returns every route the builder for root exposes, in tree order.
// The root node itself has no accessor and is not listed.
func List(root *router.RouteNode, basePrefix string) []Route {
	var routes []Route
	listPlans(compile(root), nil, nil, nil, basePrefix, &routes)
	return routes
}

func listPlans(plans []*plan, keys []string, segs []routepath.Segment, params []string, basePrefix string, out *[]Route) {
	for _, p := range plans {
		k := append(append([]string(nil), keys...), p.display)
		ps := params
		var seg routepath.Segment
		if p.param != "" {
			prefix := ":"
			if p.catchAll {
				prefix = "*"
			}
			seg = routepath.Param(prefix + p.param)
			ps = append(append([]string(nil), params...), p.param)
		} else {
			seg = routepath.Static(p.key)
		}
		s := extend(segs, seg)

		if p.route {
			*out = append(*out, Route{
				Keys:    k,
				Pattern: routepath.Join(basePrefix, s),
				Params:  ps,
				Self:    p.shape == ShapeBranch || p.shape == ShapeParamBranch,
			})
		}
		listPlans(p.children, k, s, ps, basePrefix, out)
	}
}

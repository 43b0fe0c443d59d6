package codegen

import (
	"fmt"
	"go/format"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/vango-dev/routegen/internal/errors"
	"github.com/vango-dev/routegen/pkg/pathbuilder"
	"github.com/vango-dev/routegen/pkg/routepath"
	"github.com/vango-dev/routegen/pkg/router"
)

// receiver is the receiver name of every generated method.
const receiver = "r"

// selfMethod is the generated name of the "$" accessor.
const selfMethod = "Href"

// GoOptions configures Go source generation.
type GoOptions struct {
	// Package is the package clause of the generated file.
	Package string

	// RoutesName names the exported builder variable ("routes" → Routes).
	RoutesName string

	// BasePrefix is prepended to every path.
	BasePrefix string

	// ParamTypes maps parameter names to Go types. It wins over annotations.
	ParamTypes map[string]string

	// InferParamTypes guesses types from parameter names.
	InferParamTypes bool

	// Source is mentioned in the generated header, usually the input directory.
	Source string
}

// GoGenerator emits a typed Go path builder for a route tree. Static
// children become zero-argument methods, dynamic children one-argument
// methods, and branches that are routes themselves get an Href method.
type GoGenerator struct {
	opts GoOptions

	names    *nameAllocator
	types    []*typeDef
	helper   string
	needsFmt bool
}

type typeDef struct {
	name    string
	pattern string
	methods []method
}

type method struct {
	name   string
	doc    string
	param  string
	ptype  string
	result string
	body   string
}

// NewGoGenerator creates a generator.
func NewGoGenerator(opts GoOptions) *GoGenerator {
	return &GoGenerator{opts: opts}
}

// Generate returns the formatted source of the builder for root.
func (g *GoGenerator) Generate(root *router.RouteNode) ([]byte, error) {
	if !isValidIdentifier(g.opts.Package) {
		return nil, errors.New("E151").
			WithDetailf("package name %q is not a Go identifier", g.opts.Package).
			WithSuggestion(`Set "package" in the configuration or pass --package`)
	}
	varName, ok := exportedName(pathbuilder.CamelCase(g.opts.RoutesName))
	if !ok || !isValidIdentifier(varName) {
		return nil, errors.New("E151").
			WithDetailf("routesName %q cannot be turned into a Go identifier", g.opts.RoutesName)
	}

	r, size := utf8.DecodeRuneInString(varName)
	g.helper = string(unicode.ToLower(r)) + varName[size:]
	g.names = newNameAllocator(varName, g.helper+"Path", g.helper+"Append", g.helper+"BasePrefix")
	g.types = nil
	g.needsFmt = false

	rootType := g.names.take(varName + "Builder")
	if err := g.build(root, rootType, varName, nil, false); err != nil {
		return nil, err
	}

	src := g.render(varName, rootType)
	out, err := format.Source(src)
	if err != nil {
		return nil, errors.New("E152").Wrap(err)
	}
	return out, nil
}

// build records the type for node and, recursively, for its branches.
func (g *GoGenerator) build(node *router.RouteNode, typeName, prefix string, segs []routepath.Segment, self bool) error {
	def := &typeDef{name: typeName, pattern: routepath.Join(g.opts.BasePrefix, segs)}
	g.types = append(g.types, def)

	seen := make(map[string]string)
	if self {
		seen[selfMethod] = pathbuilder.SelfKey
		def.methods = append(def.methods, method{
			name:   selfMethod,
			doc:    fmt.Sprintf("%s returns %q.", selfMethod, def.pattern),
			result: "string",
			body:   fmt.Sprintf("%sPath(%s.segs)", g.helper, receiver),
		})
	}

	for _, c := range node.Children() {
		shape := pathbuilder.Classify(c.Node)
		if shape == pathbuilder.ShapeNone {
			continue
		}

		display := pathbuilder.DisplayKey(c)
		name, ok := exportedName(display)
		if !ok {
			return errors.New("E151").
				WithLocation(keyPath(segs, c.Key), 0, 0).
				WithDetailf("segment %q has no characters usable in a Go identifier", c.Key).
				WithSuggestion("Rename the directory")
		}
		if prev, dup := seen[name]; dup {
			return errors.New("E150").
				WithDetailf("segments %q and %q both map to %s.%s", prev, c.Key, typeName, name).
				WithSuggestion("Rename one of the directories")
		}
		seen[name] = c.Key

		m := method{name: name}
		var seg routepath.Segment
		var segExpr string

		if c.Node.IsParam() {
			pname, ok := paramName(c.Node.ParamName)
			if !ok {
				return errors.New("E151").
					WithDetailf("parameter %q has no characters usable in a Go identifier", c.Node.ParamName)
			}
			ptype := g.paramType(c.Node)
			if !builtinTypes[ptype] {
				return errors.New("E151").
					WithDetailf("parameter %q has type %q, which is not a predeclared Go type", c.Node.ParamName, ptype).
					WithSuggestion("Use string, []string, a sized int or uint, bool or a float type")
			}
			m.param, m.ptype = pname, ptype
			segExpr = g.formatExpr(pname, ptype)

			placeholder := "{" + c.Node.ParamName + "}"
			if c.Node.CatchAll {
				placeholder = "{" + c.Node.ParamName + "...}"
			}
			seg = routepath.Param(placeholder)
		} else {
			seg = routepath.Static(c.Key)
			if !routepath.IsGroupSegment(c.Key) {
				segExpr = strconv.Quote(c.Key)
			}
		}

		childSegs := extend(segs, seg)
		pattern := routepath.Join(g.opts.BasePrefix, childSegs)
		next := receiver + ".segs"
		if segExpr != "" {
			next = fmt.Sprintf("%sAppend(%s.segs, %s)", g.helper, receiver, segExpr)
		}

		switch shape {
		case pathbuilder.ShapeLeaf, pathbuilder.ShapeParamLeaf:
			m.result = "string"
			m.body = fmt.Sprintf("%sPath(%s)", g.helper, next)
			m.doc = fmt.Sprintf("%s returns %q.", name, pattern)
		default:
			childType := g.names.take(prefix + name)
			m.result = childType
			m.body = fmt.Sprintf("%s{segs: %s}", childType, next)
			m.doc = fmt.Sprintf("%s returns the builder for %q.", name, pattern)
			def.methods = append(def.methods, m)
			if err := g.build(c.Node, childType, childType, childSegs, c.Node.IsRoute); err != nil {
				return err
			}
			continue
		}
		def.methods = append(def.methods, m)
	}
	return nil
}

func (g *GoGenerator) paramType(n *router.RouteNode) string {
	if t, ok := g.opts.ParamTypes[n.ParamName]; ok && t != "" {
		return t
	}
	return router.InferParamType(n, g.opts.InferParamTypes)
}

func (g *GoGenerator) formatExpr(name, typ string) string {
	switch typ {
	case "string":
		return name
	case "[]string":
		return fmt.Sprintf("strings.Join(%s, \"/\")", name)
	default:
		g.needsFmt = true
		return fmt.Sprintf("fmt.Sprint(%s)", name)
	}
}

func (g *GoGenerator) render(varName, rootType string) []byte {
	var code strings.Builder

	if g.opts.Source != "" {
		code.WriteString(fmt.Sprintf("// Code generated by routegen from %s. DO NOT EDIT.\n\n", g.opts.Source))
	} else {
		code.WriteString("// Code generated by routegen. DO NOT EDIT.\n\n")
	}
	code.WriteString(fmt.Sprintf("package %s\n\n", g.opts.Package))

	code.WriteString("import (\n")
	if g.needsFmt {
		code.WriteString("\t\"fmt\"\n")
	}
	code.WriteString("\t\"strings\"\n")
	code.WriteString(")\n\n")

	code.WriteString(fmt.Sprintf("// %sBasePrefix is prepended to every path.\n", g.helper))
	code.WriteString(fmt.Sprintf("const %sBasePrefix = %s\n\n", g.helper, strconv.Quote(g.opts.BasePrefix)))

	code.WriteString(fmt.Sprintf("// %s builds the paths of the route tree.\n", varName))
	code.WriteString(fmt.Sprintf("var %s = %s{}\n\n", varName, rootType))

	for _, def := range g.types {
		code.WriteString(fmt.Sprintf("// %s builds paths under %q.\n", def.name, def.pattern))
		code.WriteString(fmt.Sprintf("type %s struct {\n\tsegs []string\n}\n\n", def.name))

		for _, m := range def.methods {
			code.WriteString(fmt.Sprintf("// %s\n", m.doc))
			params := ""
			if m.param != "" {
				params = m.param + " " + m.ptype
			}
			code.WriteString(fmt.Sprintf("func (%s %s) %s(%s) %s {\n", receiver, def.name, m.name, params, m.result))
			code.WriteString(fmt.Sprintf("\treturn %s\n", m.body))
			code.WriteString("}\n\n")
		}
	}

	code.WriteString(fmt.Sprintf(`func %[1]sAppend(segs []string, seg string) []string {
	out := make([]string, len(segs), len(segs)+1)
	copy(out, segs)
	return append(out, seg)
}

func %[1]sPath(segs []string) string {
	p := strings.Join(segs, "/")
	switch {
	case %[1]sBasePrefix != "" && p != "":
		p = %[1]sBasePrefix + "/" + p
	case %[1]sBasePrefix != "":
		p = %[1]sBasePrefix
	}
	for strings.Contains(p, "//") {
		p = strings.ReplaceAll(p, "//", "/")
	}
	return p
}
`, g.helper))

	return []byte(code.String())
}

func extend(segs []routepath.Segment, seg routepath.Segment) []routepath.Segment {
	out := make([]routepath.Segment, len(segs), len(segs)+1)
	copy(out, segs)
	return append(out, seg)
}

func keyPath(segs []routepath.Segment, key string) string {
	parts := make([]string, 0, len(segs)+1)
	for _, s := range segs {
		parts = append(parts, s.Text)
	}
	return strings.Join(append(parts, key), "/")
}

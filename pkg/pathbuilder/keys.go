package pathbuilder

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-openapi/inflect"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/vango-dev/routegen/pkg/router"
)

// ParamSigil prefixes the display key of every dynamic segment.
const ParamSigil = "$"

// keyCacheSize bounds the memoized key conversions. Route trees rarely have
// more distinct segment names than this.
const keyCacheSize = 2048

var camelCache = mustCache(keyCacheSize)

func mustCache(size int) *lru.Cache[string, string] {
	c, err := lru.New[string, string](size)
	if err != nil {
		panic(err)
	}
	return c
}

// DisplayKey returns the builder key for a child of a route tree node.
// Static keys lose their group parentheses and any "$" and are camel-cased;
// dynamic keys become ParamSigil + camel-cased parameter name.
//
//	hyphened-route → hyphenedRoute
//	(collections)  → collections
//	[post-id]      → $postId
func DisplayKey(c router.Child) string {
	if c.Node.IsParam() {
		return ParamSigil + CamelCase(StripParens(c.Node.ParamName))
	}
	return strings.ReplaceAll(CamelCase(StripParens(c.Key)), ParamSigil, "")
}

// StripParens removes every "(" and ")" from s.
func StripParens(s string) string {
	if !strings.ContainsAny(s, "()") {
		return s
	}
	return strings.NewReplacer("(", "", ")", "").Replace(s)
}

// CamelCase converts kebab-case and snake_case words to lowerCamelCase.
func CamelCase(s string) string {
	if s == "" {
		return ""
	}
	if v, ok := camelCache.Get(s); ok {
		return v
	}

	v := lowerFirst(inflect.Camelize(s))
	camelCache.Add(s, v)
	return v
}

// PascalCase converts s to UpperCamelCase.
func PascalCase(s string) string {
	c := CamelCase(s)
	if c == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(c)
	return string(unicode.ToUpper(r)) + c[size:]
}

func lowerFirst(s string) string {
	if s == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToLower(r)) + s[size:]
}

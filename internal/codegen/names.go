package codegen

import (
	"fmt"
	"go/token"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/vango-dev/routegen/pkg/pathbuilder"
)

// builtinTypes are the parameter types a generated file can use without imports.
var builtinTypes = map[string]bool{
	"string": true, "[]string": true, "bool": true,
	"int": true, "int8": true, "int16": true, "int32": true, "int64": true,
	"uint": true, "uint8": true, "uint16": true, "uint32": true, "uint64": true,
	"float32": true, "float64": true, "byte": true, "rune": true,
}

// exportedName turns a builder display key into an exported Go identifier.
// Characters that cannot appear in identifiers are dropped and names that
// start with a digit get a "Seg" prefix.
//
//	hyphenedRoute → HyphenedRoute
//	$postId       → PostId
//	404           → Seg404
func exportedName(display string) (string, bool) {
	name := sanitize(strings.TrimPrefix(display, pathbuilder.ParamSigil))
	if name == "" {
		return "", false
	}
	r, size := utf8.DecodeRuneInString(name)
	if unicode.IsDigit(r) {
		return "Seg" + name, true
	}
	return string(unicode.ToUpper(r)) + name[size:], true
}

// paramName returns the Go parameter name for a dynamic segment.
func paramName(raw string) (string, bool) {
	name := sanitize(pathbuilder.CamelCase(pathbuilder.StripParens(raw)))
	if name == "" {
		return "", false
	}
	r, _ := utf8.DecodeRuneInString(name)
	if unicode.IsDigit(r) {
		name = "p" + name
	}
	if token.IsKeyword(name) || name == receiver || isPredeclared(name) {
		name += "Param"
	}
	return name, true
}

func sanitize(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isPredeclared(name string) bool {
	switch name {
	case "string", "int", "bool", "len", "append", "copy", "make", "new", "nil",
		"true", "false", "fmt", "strings", "error", "any":
		return true
	}
	return builtinTypes[name]
}

func isValidIdentifier(s string) bool {
	if s == "" || token.IsKeyword(s) {
		return false
	}
	for i, r := range s {
		if i == 0 && !unicode.IsLetter(r) && r != '_' {
			return false
		}
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			return false
		}
	}
	return true
}

// nameAllocator hands out unique type names.
type nameAllocator struct {
	used map[string]bool
}

func newNameAllocator(reserved ...string) *nameAllocator {
	a := &nameAllocator{used: make(map[string]bool)}
	for _, r := range reserved {
		a.used[r] = true
	}
	return a
}

func (a *nameAllocator) take(name string) string {
	candidate := name
	for i := 2; a.used[candidate]; i++ {
		candidate = fmt.Sprintf("%s%d", name, i)
	}
	a.used[candidate] = true
	return candidate
}

// Package routepath emits normalized URL path strings from route segments.
//
// Route groups ("(marketing)") organize the source tree and never appear in
// an emitted path. Consecutive slashes are collapsed so that prefixes and
// segments can be joined without caring about leading or trailing slashes.
package routepath

import "strings"

// Segment is one element of an accumulated route path.
type Segment struct {
	// Text is the raw segment (a directory name or a parameter value).
	Text string

	// Param marks a runtime parameter value. Parameter values are emitted
	// verbatim and are never treated as group segments.
	Param bool
}

// Static returns a Segment for a literal directory name.
func Static(text string) Segment {
	return Segment{Text: text}
}

// Param returns a Segment for a parameter value.
func Param(value string) Segment {
	return Segment{Text: value, Param: true}
}

// IsGroupSegment reports whether s is a route group such as "(admin)".
func IsGroupSegment(s string) bool {
	return len(s) >= 2 && strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")")
}

// BuildPath joins basePrefix and segments into a path.
//
// Group segments are dropped, the remaining segments are joined with "/",
// the non-empty prefix is prepended and runs of slashes are collapsed:
//
//	BuildPath([]string{"(internal)", "health"}, "/api") → "/api/health"
//	BuildPath([]string{"posts", "123"}, "/api/")        → "/api/posts/123"
func BuildPath(segments []string, basePrefix string) string {
	segs := make([]Segment, len(segments))
	for i, s := range segments {
		segs[i] = Static(s)
	}
	return Join(basePrefix, segs)
}

// Join is BuildPath for typed segments. Static segments that are groups are
// elided; parameter segments are always kept.
func Join(basePrefix string, segments []Segment) string {
	parts := make([]string, 0, len(segments))
	for _, seg := range segments {
		if !seg.Param && IsGroupSegment(seg.Text) {
			continue
		}
		parts = append(parts, seg.Text)
	}
	path := strings.Join(parts, "/")

	var result string
	switch {
	case basePrefix != "" && path != "":
		result = basePrefix + "/" + path
	case basePrefix != "":
		result = basePrefix
	default:
		result = path
	}
	return CollapseSlashes(result)
}

// CollapseSlashes replaces every run of consecutive slashes with one slash.
func CollapseSlashes(path string) string {
	if !strings.Contains(path, "//") {
		return path
	}
	var b strings.Builder
	b.Grow(len(path))
	prevSlash := false
	for i := 0; i < len(path); i++ {
		c := path[i]
		if c == '/' {
			if prevSlash {
				continue
			}
			prevSlash = true
		} else {
			prevSlash = false
		}
		b.WriteByte(c)
	}
	return b.String()
}

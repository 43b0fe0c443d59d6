package router

import (
	"regexp"
	"strings"
)

// MalformedPolicy decides what happens to a bracketed directory name whose
// contents are not a usable parameter name (e.g. "[]" or "[a b]").
type MalformedPolicy int

const (
	// MalformedLiteral treats the directory as a static segment named literally.
	MalformedLiteral MalformedPolicy = iota

	// MalformedReject fails the scan with a MalformedSegmentError.
	MalformedReject
)

// String returns the config spelling of the policy.
func (p MalformedPolicy) String() string {
	switch p {
	case MalformedReject:
		return "reject"
	default:
		return "literal"
	}
}

// ParseMalformedPolicy parses "literal" or "reject". The empty string is literal.
func ParseMalformedPolicy(s string) (MalformedPolicy, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "literal":
		return MalformedLiteral, true
	case "reject":
		return MalformedReject, true
	}
	return MalformedLiteral, false
}

// SegmentKind classifies a directory name.
type SegmentKind int

const (
	SegmentStatic SegmentKind = iota
	SegmentDynamic
	SegmentGroup
)

// Segment is a parsed directory name.
type Segment struct {
	// Raw is the directory name as found on disk.
	Raw string

	Kind SegmentKind

	// Name is the parameter name for dynamic segments.
	Name string

	// Type is the annotation of [name:type], empty when absent.
	Type string

	// CatchAll marks [...name].
	CatchAll bool
}

// Key returns the tree key for the segment.
func (s Segment) Key() string {
	if s.Kind == SegmentDynamic {
		return DynamicKey(s.Name)
	}
	return s.Raw
}

var (
	bracketRe   = regexp.MustCompile(`^\[(.*)\]$`)
	paramNameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_-]*$`)
	paramTypeRe = regexp.MustCompile(`^[A-Za-z_][\w.\[\]]*$`)
)

// ParseSegment classifies a directory name.
//
//	posts       → static
//	(internal)  → group (a static segment for tree building)
//	[postId]    → dynamic, Name "postId"
//	[id:int]    → dynamic, Name "id", Type "int"
//	[...slug]   → dynamic catch-all, Name "slug"
//
// A bracketed name that does not yield a valid parameter name is returned as
// a static segment under MalformedLiteral and as a MalformedSegmentError
// under MalformedReject.
func ParseSegment(name string, policy MalformedPolicy) (Segment, error) {
	seg := Segment{Raw: name, Kind: SegmentStatic}

	m := bracketRe.FindStringSubmatch(name)
	if m == nil {
		if isGroupName(name) {
			seg.Kind = SegmentGroup
		}
		return seg, nil
	}

	inner := m[1]
	catchAll := false
	if strings.HasPrefix(inner, "...") {
		catchAll = true
		inner = inner[3:]
	}

	paramName, paramType := inner, ""
	if idx := strings.Index(inner, ":"); idx != -1 {
		paramName, paramType = inner[:idx], inner[idx+1:]
	}

	reason := ""
	switch {
	case paramName == "":
		reason = "empty parameter name"
	case !paramNameRe.MatchString(paramName):
		reason = "parameter name is not an identifier"
	case strings.Contains(inner, ":") && !paramTypeRe.MatchString(paramType):
		reason = "invalid type annotation"
	}
	if reason != "" {
		if policy == MalformedReject {
			return Segment{}, &MalformedSegmentError{Segment: name, Reason: reason}
		}
		return seg, nil
	}

	seg.Kind = SegmentDynamic
	seg.Name = paramName
	seg.Type = paramType
	seg.CatchAll = catchAll
	if catchAll && seg.Type == "" {
		seg.Type = "[]string"
	}
	return seg, nil
}

func isGroupName(name string) bool {
	return len(name) >= 2 && name[0] == '(' && name[len(name)-1] == ')'
}

// inferParamTypeFromName infers the Go type from a parameter name.
// This follows common naming conventions to reduce boilerplate.
func inferParamTypeFromName(name string) string {
	lower := strings.ToLower(name)

	// UUID patterns → string (check BEFORE ID patterns since "uuid" ends with "id")
	if lower == "uuid" || strings.HasSuffix(lower, "uuid") {
		return "string"
	}

	// Matches: id, userId, user_id, user-id, postId, etc.
	if lower == "id" || strings.HasSuffix(lower, "id") {
		return "int"
	}

	switch lower {
	case "page", "limit", "offset", "count", "index", "num", "number":
		return "int"
	case "year", "month", "day":
		return "int"
	}

	return "string"
}

// InferParamType returns the Go type used for a dynamic node in generated
// code: the explicit annotation first, then []string for catch-alls, then
// name-based inference when infer is set, else string.
func InferParamType(n *RouteNode, infer bool) string {
	if n.ParamType != "" {
		return n.ParamType
	}
	if n.CatchAll {
		return "[]string"
	}
	if infer {
		return inferParamTypeFromName(n.ParamName)
	}
	return "string"
}

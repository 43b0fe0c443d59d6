package router

import (
	"fmt"
	"strings"
)

// Validator checks a scanned tree for structures that a file-system router
// would reject.
type Validator struct {
	root   *RouteNode
	errors []ValidationError
}

// ValidationError represents a route validation error.
type ValidationError struct {
	// Type is the error category
	Type ValidationErrorType

	// Message is the human-readable error message
	Message string

	// Path is the raw key path of the offending node ("users/$id")
	Path string

	// Details contains additional error-specific information
	Details string
}

func (e ValidationError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Type, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// ValidationErrorType categorizes validation errors.
type ValidationErrorType string

const (
	// ErrorConflictingParams indicates sibling dynamic segments with different names.
	// Example: users/[id] and users/[slug]
	ErrorConflictingParams ValidationErrorType = "CONFLICTING_PARAMS"

	// ErrorDuplicateParam indicates the same parameter name twice on one path.
	// Example: [id]/posts/[id]
	ErrorDuplicateParam ValidationErrorType = "DUPLICATE_PARAM"

	// ErrorCatchAllNotLast indicates a catch-all segment with child segments.
	// Example: docs/[...slug]/edit
	ErrorCatchAllNotLast ValidationErrorType = "CATCH_ALL_NOT_LAST"
)

// MultiValidationError wraps multiple validation errors.
type MultiValidationError struct {
	Errors []ValidationError
}

func (e *MultiValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "no validation errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d route validation errors:\n", len(e.Errors)))
	for i, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// NewValidator creates a new tree validator.
func NewValidator(root *RouteNode) *Validator {
	return &Validator{root: root}
}

// Validate checks the whole tree.
// Returns nil if the tree is valid, or a MultiValidationError with all errors.
func (v *Validator) Validate() error {
	v.errors = nil
	v.visit(v.root, nil, nil)

	if len(v.errors) > 0 {
		return &MultiValidationError{Errors: v.errors}
	}
	return nil
}

// visit checks node and its subtree. keys is the raw key path to node and
// params the parameter names already bound above it.
func (v *Validator) visit(node *RouteNode, keys, params []string) {
	path := strings.Join(keys, "/")

	if node.CatchAll && node.HasChildren() {
		v.errors = append(v.errors, ValidationError{
			Type:    ErrorCatchAllNotLast,
			Message: fmt.Sprintf("catch-all segment %q must be the last segment", node.ParamName),
			Path:    path,
		})
	}

	var dynamic []string
	for _, c := range node.children {
		if c.Node.IsParam() {
			dynamic = append(dynamic, c.Node.ParamName)
		}
	}
	if len(dynamic) > 1 {
		v.errors = append(v.errors, ValidationError{
			Type:    ErrorConflictingParams,
			Message: fmt.Sprintf("different dynamic segment names at the same level: %s", strings.Join(dynamic, ", ")),
			Path:    path,
			Details: "use one parameter name per directory level",
		})
	}

	for _, c := range node.children {
		childParams := params
		if c.Node.IsParam() {
			for _, p := range params {
				if p == c.Node.ParamName {
					v.errors = append(v.errors, ValidationError{
						Type:    ErrorDuplicateParam,
						Message: fmt.Sprintf("parameter %q appears more than once in one path", p),
						Path:    joinKey(path, c.Key),
					})
					break
				}
			}
			childParams = append(append([]string(nil), params...), c.Node.ParamName)
		}
		childKeys := append(append([]string(nil), keys...), c.Key)
		v.visit(c.Node, childKeys, childParams)
	}
}

func joinKey(path, key string) string {
	if path == "" {
		return key
	}
	return path + "/" + key
}

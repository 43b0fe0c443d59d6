package pathbuilder

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotRoute is returned by Resolve when the final step names a branch
// that is not itself a route.
var ErrNotRoute = errors.New("not a route")

// CallError describes a builder member invoked the wrong way.
type CallError struct {
	Key    string
	Shape  Shape
	Reason string
}

func (e *CallError) Error() string {
	if e.Shape == ShapeNone {
		return fmt.Sprintf("%s: %s", e.Key, e.Reason)
	}
	return fmt.Sprintf("%s (%s): %s", e.Key, e.Shape, e.Reason)
}

// Call invokes the member stored under key. A member that yields a path
// returns it as a string; a member that yields a nested builder returns it as
// an *Object. Exactly one of the two is set when err is nil.
//
// Static branches take no arguments and return themselves. Dynamic members
// take exactly one argument.
func (o *Object) Call(key string, args ...any) (string, *Object, error) {
	n, ok := o.Get(key)
	if !ok {
		return "", nil, &CallError{Key: key, Reason: fmt.Sprintf("no such member (have %s)", strings.Join(o.Keys(), ", "))}
	}

	want := 0
	if n.Shape() == ShapeParamLeaf || n.Shape() == ShapeParamBranch {
		want = 1
	}
	if len(args) != want {
		return "", nil, &CallError{Key: key, Shape: n.Shape(), Reason: fmt.Sprintf("takes %d argument(s), got %d", want, len(args))}
	}

	switch fn := n.(type) {
	case LeafFunc:
		return fn(), nil, nil
	case ParamFunc:
		return fn(args[0]), nil, nil
	case ParamBranchFunc:
		return "", fn(args[0]), nil
	case *Object:
		return "", fn, nil
	}
	return "", nil, &CallError{Key: key, Reason: "unknown member"}
}

// Resolve walks obj along steps and returns the resulting path. A step is a
// member key, optionally followed by "=" and the parameter value of a dynamic
// member:
//
//	Resolve(api, "collections", "posts", "$postId=123") // "/api/posts/123"
//	Resolve(api, "users", "$userId=7")                  // "/api/users/7" via "$"
//
// When the steps end on a branch, the branch's own route path is returned.
func Resolve(obj *Object, steps ...string) (string, error) {
	cur := obj
	for i, step := range steps {
		key, value, hasValue := strings.Cut(step, "=")

		var args []any
		if hasValue {
			args = []any{value}
		}
		path, next, err := cur.Call(key, args...)
		if err != nil {
			return "", fmt.Errorf("step %d: %w", i+1, err)
		}
		if next == nil {
			if i != len(steps)-1 {
				return "", fmt.Errorf("step %d: %w", i+2, &CallError{Key: steps[i+1], Reason: fmt.Sprintf("%s is a leaf route", key)})
			}
			return path, nil
		}
		cur = next
	}

	if path, ok := cur.Self(); ok {
		return path, nil
	}
	return "", fmt.Errorf("%s: %w", strings.Join(steps, "."), ErrNotRoute)
}

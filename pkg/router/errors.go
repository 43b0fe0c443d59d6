package router

import (
	"fmt"
	"io/fs"
)

// NotFoundError reports a scan directory that does not exist or is not a
// directory. It is fatal for the whole scan.
type NotFoundError struct {
	// Path is the directory that could not be read.
	Path string

	// NotDir is set when the path exists but is not a directory.
	NotDir bool

	// Err is the underlying filesystem error, if any.
	Err error
}

func (e *NotFoundError) Error() string {
	if e.NotDir {
		return fmt.Sprintf("not a directory: %s", e.Path)
	}
	return fmt.Sprintf("directory does not exist: %s", e.Path)
}

// Unwrap returns the underlying filesystem error.
func (e *NotFoundError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, fs.ErrNotExist) match any NotFoundError.
func (e *NotFoundError) Is(target error) bool {
	return target == fs.ErrNotExist
}

// MalformedSegmentError reports a bracketed directory name that does not
// yield a usable parameter name. Only returned under MalformedReject.
type MalformedSegmentError struct {
	// Path is the directory path, when known.
	Path string

	// Segment is the offending directory name.
	Segment string

	// Reason describes what is wrong with the name.
	Reason string
}

func (e *MalformedSegmentError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("malformed dynamic segment %q at %s: %s", e.Segment, e.Path, e.Reason)
	}
	return fmt.Sprintf("malformed dynamic segment %q: %s", e.Segment, e.Reason)
}

package errors

import (
	"bufio"
	stderrors "errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
)

// Category represents the stage of the pipeline an error belongs to.
type Category string

const (
	CategoryScan       Category = "scan"
	CategoryValidation Category = "validation"
	CategoryConfig     Category = "config"
	CategoryCodegen    Category = "codegen"
	CategoryIO         Category = "io"
	CategoryCLI        Category = "cli"
)

// Location points into a file, usually a config file or a route directory.
type Location struct {
	File   string `json:"file"`
	Line   int    `json:"line,omitempty"`
	Column int    `json:"column,omitempty"`
}

// String returns the location as file[:line[:column]].
func (l *Location) String() string {
	if l == nil {
		return ""
	}
	switch {
	case l.Line > 0 && l.Column > 0:
		return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
	case l.Line > 0:
		return fmt.Sprintf("%s:%d", l.File, l.Line)
	default:
		return l.File
	}
}

// RouteError is a structured error with a registered code, an optional
// location and a suggestion for the user.
type RouteError struct {
	// Code is a unique error identifier (e.g., "E100").
	Code string

	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	Location *Location

	// Context contains the source lines around Location, starting at
	// line ContextStart.
	Context      []string
	ContextStart int

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Example shows the correct layout or config.
	Example string

	DocURL string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *RouteError) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = e.Code + ": " + msg
	}
	if e.Wrapped != nil {
		msg += ": " + e.Wrapped.Error()
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *RouteError) Unwrap() error {
	return e.Wrapped
}

// WithLocation adds a file location. When line is known the surrounding
// lines are read for display.
func (e *RouteError) WithLocation(file string, line, column int) *RouteError {
	e.Location = &Location{File: file, Line: line, Column: column}
	if line > 0 {
		e.Context, e.ContextStart = readContextLines(file, line, 5)
	}
	return e
}

var lineRe = regexp.MustCompile(`line (\d+)(?:, column (\d+))?`)

// WithLocationFromError attaches file and the line number mentioned by a
// parser error such as "yaml: line 3: did not find expected key".
func (e *RouteError) WithLocationFromError(file string, err error) *RouteError {
	if err == nil {
		return e
	}
	m := lineRe.FindStringSubmatch(err.Error())
	if m == nil {
		return e.WithLocation(file, 0, 0)
	}
	line, _ := strconv.Atoi(m[1])
	col, _ := strconv.Atoi(m[2])
	return e.WithLocation(file, line, col)
}

// WithSuggestion adds a fix suggestion to the error.
func (e *RouteError) WithSuggestion(s string) *RouteError {
	e.Suggestion = s
	return e
}

// WithExample adds an example to the error.
func (e *RouteError) WithExample(ex string) *RouteError {
	e.Example = ex
	return e
}

// WithDetail replaces the registered detail.
func (e *RouteError) WithDetail(d string) *RouteError {
	e.Detail = d
	return e
}

// WithDetailf is WithDetail with formatting.
func (e *RouteError) WithDetailf(format string, args ...any) *RouteError {
	e.Detail = fmt.Sprintf(format, args...)
	return e
}

// Wrap wraps another error.
func (e *RouteError) Wrap(err error) *RouteError {
	e.Wrapped = err
	return e
}

// readContextLines reads lines around targetLine from a file and returns
// them with the number of the first one.
func readContextLines(filename string, targetLine, contextSize int) ([]string, int) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, 0
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	lineNum := 0
	startLine := max(targetLine-contextSize/2, 1)
	endLine := targetLine + contextSize/2

	for scanner.Scan() {
		lineNum++
		if lineNum >= startLine && lineNum <= endLine {
			lines = append(lines, scanner.Text())
		}
		if lineNum > endLine {
			break
		}
	}

	if len(lines) == 0 {
		return nil, 0
	}
	return lines, startLine
}

// New creates a RouteError from a registered error code.
func New(code string) *RouteError {
	template, ok := registry[code]
	if !ok {
		return &RouteError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &RouteError{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
		Detail:   template.Detail,
		DocURL:   template.DocURL,
	}
}

// Newf creates a RouteError without a code.
func Newf(category Category, format string, args ...any) *RouteError {
	return &RouteError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError returns err as a RouteError, wrapping it under code when it is
// not one already.
func FromError(err error, code string) *RouteError {
	if err == nil {
		return nil
	}
	var re *RouteError
	if stderrors.As(err, &re) {
		return re
	}
	return New(code).Wrap(err)
}

// Code returns the code of the first RouteError in err's chain, or "".
func Code(err error) string {
	var re *RouteError
	if stderrors.As(err, &re) {
		return re.Code
	}
	return ""
}

// HasCode reports whether err's chain carries a RouteError with code.
func HasCode(err error, code string) bool {
	for err != nil {
		var re *RouteError
		if !stderrors.As(err, &re) {
			return false
		}
		if re.Code == code {
			return true
		}
		err = re.Wrapped
	}
	return false
}

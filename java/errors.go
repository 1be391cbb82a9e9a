package java

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a referenced source file or directory does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidArgument is returned for nil or empty required input.
	ErrInvalidArgument = errors.New("invalid argument")
)

// ParseError describes malformed source. Extraction reports it as a
// diagnostic rather than failing the caller.
type ParseError struct {
	Path    string
	Line    int
	Column  int
	Message string
}

func (e *ParseError) Error() string {
	path := e.Path
	if path == "" {
		path = "<source>"
	}
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s", path, e.Line, e.Column, e.Message)
	}
	return fmt.Sprintf("%s: %s", path, e.Message)
}

package api

import "fmt"

// ParseError reports a leaf file whose content could not be parsed.
// It is fatal for the whole enclosing aggregate, fold, or materialize
// call: no partial result is surfaced alongside it.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

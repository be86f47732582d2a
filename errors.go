package lepton

import (
	"errors"
	"fmt"
)

var (
	ErrValidation = errors.New("invalid query")
	ErrConnection = errors.New("connection failed")
	ErrParsing    = errors.New("response parsing failed")
)

// ParseError reports a stream chunk that did not match the expected
// structure. Chunk carries the offending line for diagnostics.
type ParseError struct {
	Chunk string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%v: %v (chunk: %q)", ErrParsing, e.Err, e.Chunk)
	}
	return fmt.Sprintf("%v (chunk: %q)", ErrParsing, e.Chunk)
}

func (e *ParseError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrParsing, e.Err}
	}
	return []error{ErrParsing}
}

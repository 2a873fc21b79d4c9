package filter

import (
	"fmt"
)

// CompilationError indicates a filter expression could not be compiled
type CompilationError struct {
	Expression string
	Reason     string
	// Line and Column locate the error, both 1-based; 0 when unknown.
	Line   int
	Column int
	Err    error
}

func (e *CompilationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("compilation error at line %d, column %d in '%s': %s", e.Line, e.Column, e.Expression, e.Reason)
	}
	msg := fmt.Sprintf("compilation error in '%s': %s", e.Expression, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *CompilationError) Unwrap() error {
	return e.Err
}

package parser

import (
	"fmt"

	"github.com/sjlouji/friday/ast"
)

// ParseError is a syntax error at a position in the source. A single
// parse can report several of them; each one covers exactly one entry,
// and the entries around it still load.
type ParseError struct {
	Pos     ast.Position
	Message string
}

func (e *ParseError) Error() string {
	if e.Pos.Filename == "" {
		return fmt.Sprintf("line %d: %s", e.Pos.Line, e.Message)
	}
	return fmt.Sprintf("%s:%d: %s", e.Pos.Filename, e.Pos.Line, e.Message)
}

func newErrorf(pos ast.Position, format string, args ...interface{}) *ParseError {
	return &ParseError{
		Pos:     pos,
		Message: fmt.Sprintf(format, args...),
	}
}

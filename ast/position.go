package ast

import "fmt"

// Position is a location in the source file. It lives on the node, not
// in its metadata, so codec-internal bookkeeping never leaks into the
// user-visible metadata map.
type Position struct {
	Filename string
	Line     int // 1-indexed
	Column   int // 1-indexed
}

func (p Position) String() string {
	if p.Filename != "" {
		return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

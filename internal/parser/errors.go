package parser

import (
	"fmt"

	"github.com/stormckey/accipit/internal/pos"
)

// Error is a syntax error: the recursive descent parser found a token it
// did not expect at that point in the grammar. It carries file position
// and a source context line, matching the teacher's own ParsingError
// (file+Span) shape, and exits with a distinct code from runtime errors.
type Error struct {
	File    string
	Pos     pos.Position
	Message string
	Context string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s:%s: %s\n  %s", e.File, e.Pos, e.Message, e.Context)
}

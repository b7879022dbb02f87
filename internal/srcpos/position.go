package srcpos

import (
	"fmt"
)

// Position is a 0-based line and column in the source.
type Position struct {
	Line   int
	Column int
}

// New creates a Position.
func New(line, column int) Position {
	return Position{Line: line, Column: column}
}

// String renders the position as `line:column`.
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Before reports whether p comes strictly before other.
func (p Position) Before(other Position) bool {
	if p.Line != other.Line {
		return p.Line < other.Line
	}
	return p.Column < other.Column
}

// Offset returns the byte offset of p within text, counting lines the way
// the lexer does: every '\n' and every '\r' starts a new line. A position
// past the end of its line or of text clamps to the nearest valid offset.
func (p Position) Offset(text string) int {
	line, col := 0, 0
	for i, c := range text {
		if line == p.Line && col >= p.Column {
			return i
		}
		if c == '\n' || c == '\r' {
			if line == p.Line {
				return i
			}
			line++
			col = 0
			continue
		}
		col++
	}
	return len(text)
}

// Range is a start/end span. End is exclusive.
type Range struct {
	Start Position
	End   Position
}

// NewRange creates a Range.
func NewRange(start, end Position) Range {
	return Range{Start: start, End: end}
}

// String renders the range as `start-end`.
func (r Range) String() string {
	return fmt.Sprintf("%s-%s", r.Start, r.End)
}

// Pos returns the start of the range.
func (r Range) Pos() Position {
	return r.Start
}

// Over returns the smallest range covering both r and other.
func (r Range) Over(other Range) Range {
	out := r
	if other.Start.Before(out.Start) {
		out.Start = other.Start
	}
	if out.End.Before(other.End) {
		out.End = other.End
	}
	return out
}

package buffer

// ToOffset converts a position into a byte offset within a snapshot.
// Implementations panic with a *RangeError if the position lies outside it.
type ToOffset interface {
	ToOffset(s *Snapshot) int
}

// Offset is a byte offset.
type Offset int

// ToOffset implements ToOffset.
func (o Offset) ToOffset(s *Snapshot) int {
	if o < 0 || int(o) > s.Len() {
		panic(&RangeError{Op: "offset", Start: int(o), End: int(o), Len: s.Len()})
	}
	return int(o)
}

// Point is a zero-based row and byte column.
type Point struct {
	Row    int
	Column int
}

// ToOffset implements ToOffset.
func (p Point) ToOffset(s *Snapshot) int { return s.PointToOffset(p) }

// Compare orders points by row, then column.
func (p Point) Compare(other Point) int {
	switch {
	case p.Row < other.Row:
		return -1
	case p.Row > other.Row:
		return 1
	case p.Column < other.Column:
		return -1
	case p.Column > other.Column:
		return 1
	default:
		return 0
	}
}

// LineEnd is the offset at the end of a row, before its newline.
type LineEnd int

// ToOffset implements ToOffset.
func (r LineEnd) ToOffset(s *Snapshot) int {
	row := int(r)
	if row < 0 || row >= len(s.lineStarts) {
		panic(&RangeError{Op: "line end", Start: row, End: row, Len: len(s.lineStarts)})
	}
	if row+1 < len(s.lineStarts) {
		return s.lineStarts[row+1] - 1
	}
	return len(s.text)
}

package multibuffer

import (
	"cmp"
	"fmt"

	"github.com/hupe1980/multibuffer/buffer"
)

// ExcerptKey identifies an excerpt and defines the order of the index:
// path, then buffer, then range start ascending, then range end descending.
// The empty path means the buffer has no file and sorts before any path.
type ExcerptKey struct {
	Path     string
	BufferID buffer.ID
	Range    buffer.Range
}

// Compare returns -1, 0 or +1 depending on whether k sorts before, equal to
// or after other.
func (k ExcerptKey) Compare(other ExcerptKey) int {
	if c := cmp.Compare(k.Path, other.Path); c != 0 {
		return c
	}
	if c := k.BufferID.Compare(other.BufferID); c != 0 {
		return c
	}
	if c := cmp.Compare(k.Range.Start, other.Range.Start); c != 0 {
		return c
	}
	// Wider ranges first.
	return cmp.Compare(other.Range.End, k.Range.End)
}

// Intersects reports whether both keys belong to the same buffer and their
// ranges overlap or touch.
func (k ExcerptKey) Intersects(other ExcerptKey) bool {
	return k.BufferID == other.BufferID &&
		k.Range.Start <= other.Range.End &&
		other.Range.Start <= k.Range.End
}

// union widens k to cover other as well.
func (k ExcerptKey) union(other ExcerptKey) ExcerptKey {
	k.Range.Start = min(k.Range.Start, other.Range.Start)
	k.Range.End = max(k.Range.End, other.Range.End)
	return k
}

// String returns a string representation of the ExcerptKey.
func (k ExcerptKey) String() string {
	path := k.Path
	if path == "" {
		path = "<untitled>"
	}
	return fmt.Sprintf("%s %v %v", path, k.BufferID, k.Range)
}

// ExcerptOffset is a position inside one buffer of the index, used as a
// seek target over the max-key dimension.
type ExcerptOffset struct {
	Path     string
	BufferID buffer.ID
	Offset   int
}

// Compare compares o against the key at a cursor position. An offset inside
// or at the edge of the key's range compares equal. A nil key means the
// cursor is past the end and always compares less than o.
func (o ExcerptOffset) Compare(key *ExcerptKey) int {
	if key == nil {
		return 1
	}
	if c := cmp.Compare(o.Path, key.Path); c != 0 {
		return c
	}
	if c := o.BufferID.Compare(key.BufferID); c != 0 {
		return c
	}
	switch {
	case o.Offset < key.Range.Start:
		return -1
	case o.Offset > key.Range.End:
		return 1
	default:
		return 0
	}
}

func startOf(k ExcerptKey) ExcerptOffset {
	return ExcerptOffset{Path: k.Path, BufferID: k.BufferID, Offset: k.Range.Start}
}

func endOf(k ExcerptKey) ExcerptOffset {
	return ExcerptOffset{Path: k.Path, BufferID: k.BufferID, Offset: k.Range.End}
}

// runStart is the seek target in front of every excerpt of id under path.
func runStart(path string, id buffer.ID) ExcerptOffset {
	return ExcerptOffset{Path: path, BufferID: id}
}

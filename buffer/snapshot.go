package buffer

import (
	"iter"
	"slices"
	"sort"
	"strings"
)

// Edit replaces the bytes Old of the preceding text with the bytes New of
// the following text. Edits yielded together are sequential: each one is
// expressed against the text produced by the edit before it.
type Edit struct {
	Old Range
	New Range
}

// Delta returns the change in length caused by the edit.
func (e Edit) Delta() int { return e.New.Len() - e.Old.Len() }

type versionedEdit struct {
	version uint64
	edit    Edit
}

// Snapshot is an immutable view of a buffer at one version.
type Snapshot struct {
	id         ID
	version    uint64
	path       string
	text       string
	lineStarts []int
	history    []versionedEdit

	// base is the oldest version history still holds every later edit of.
	base uint64
}

func newSnapshot(id ID, version uint64, path, text string, history []versionedEdit, base uint64) *Snapshot {
	lineStarts := make([]int, 1, strings.Count(text, "\n")+1)
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			lineStarts = append(lineStarts, i+1)
		}
	}
	return &Snapshot{
		id:         id,
		version:    version,
		path:       path,
		text:       text,
		lineStarts: lineStarts,
		history:    history,
		base:       base,
	}
}

// ID returns the identity of the buffer.
func (s *Snapshot) ID() ID { return s.id }

// Version returns the content version. It advances by one per change.
func (s *Snapshot) Version() uint64 { return s.version }

// Path returns the file path associated with the buffer, or "" if none.
func (s *Snapshot) Path() string { return s.path }

// Len returns the length of the text in bytes.
func (s *Snapshot) Len() int { return len(s.text) }

// Text returns the whole text.
func (s *Snapshot) Text() string { return s.text }

// TextForRange returns the text within r.
func (s *Snapshot) TextForRange(r Range) string {
	checkRange("text for range", r, len(s.text))
	return s.text[r.Start:r.End]
}

// TextSummaryForRange summarizes the text within r.
func (s *Snapshot) TextSummaryForRange(r Range) TextSummary {
	return SummarizeText(s.TextForRange(r))
}

// MaxPoint returns the point at the end of the text.
func (s *Snapshot) MaxPoint() Point {
	row := len(s.lineStarts) - 1
	return Point{Row: row, Column: len(s.text) - s.lineStarts[row]}
}

// PointToOffset converts p to a byte offset.
func (s *Snapshot) PointToOffset(p Point) int {
	if p.Row < 0 || p.Row >= len(s.lineStarts) || p.Column < 0 {
		panic(&RangeError{Op: "point to offset", Start: p.Row, End: p.Row, Len: len(s.lineStarts)})
	}
	lineEnd := len(s.text)
	if p.Row+1 < len(s.lineStarts) {
		lineEnd = s.lineStarts[p.Row+1] - 1
	}
	offset := s.lineStarts[p.Row] + p.Column
	if offset > lineEnd {
		panic(&RangeError{Op: "point to offset", Start: offset, End: offset, Len: lineEnd})
	}
	return offset
}

// OffsetToPoint converts a byte offset to a point.
func (s *Snapshot) OffsetToPoint(offset int) Point {
	Offset(offset).ToOffset(s)
	row := sort.SearchInts(s.lineStarts, offset+1) - 1
	return Point{Row: row, Column: offset - s.lineStarts[row]}
}

// EditsSince returns the edits applied after version, in order. Edits
// older than the buffer's history limit are gone; EditsFrom handles
// snapshots that far back.
func (s *Snapshot) EditsSince(version uint64) iter.Seq[Edit] {
	start, _ := slices.BinarySearchFunc(s.history, version+1, func(e versionedEdit, v uint64) int {
		switch {
		case e.version < v:
			return -1
		case e.version > v:
			return 1
		default:
			return 0
		}
	})
	pending := s.history[start:]
	return func(yield func(Edit) bool) {
		for _, e := range pending {
			if !yield(e.edit) {
				return
			}
		}
	}
}

// EditsFrom returns edits turning old, an earlier snapshot of the same
// buffer, into s. When the history no longer reaches back to old the edits
// are recomputed from the two texts.
func (s *Snapshot) EditsFrom(old *Snapshot) iter.Seq[Edit] {
	if old.version >= s.base {
		return s.EditsSince(old.version)
	}
	return slices.Values(diffEdits(old.text, s.text))
}

package multibuffer

import (
	"cmp"
	"iter"
	"strings"

	"github.com/hupe1980/multibuffer/buffer"
	"github.com/hupe1980/multibuffer/internal/sumtree"
)

// Snapshot is an immutable view of a MultiBuffer. Copying a Snapshot is
// cheap: the excerpt tree is shared with the MultiBuffer and every other
// snapshot taken from it, and is never modified in place.
//
// Offsets into a snapshot count the bytes of the excerpts' text laid end to
// end, without the separators Text inserts.
type Snapshot struct {
	excerpts excerptTree
	// buffers is replaced, never written, once a snapshot has been handed out.
	buffers map[buffer.ID]*buffer.Snapshot
}

// Len returns the total length of the excerpted text.
func (s Snapshot) Len() int { return s.excerpts.Summary().Text.Len }

// TextSummary returns the aggregate statistics of the excerpted text.
func (s Snapshot) TextSummary() buffer.TextSummary { return s.excerpts.Summary().Text }

// ExcerptCount returns the number of excerpts.
func (s Snapshot) ExcerptCount() int { return s.excerpts.Len() }

// Excerpts returns an iterator over the excerpts in key order.
func (s Snapshot) Excerpts() iter.Seq[Excerpt] { return s.excerpts.All() }

// Text returns the excerpts' text, each one preceded by a newline.
func (s Snapshot) Text() string {
	var sb strings.Builder
	sb.Grow(s.Len() + s.ExcerptCount())
	for e := range s.excerpts.All() {
		sb.WriteByte('\n')
		sb.WriteString(e.Text())
	}
	return sb.String()
}

// BufferSnapshot returns the snapshot of a tracked buffer as of the last
// sync.
func (s Snapshot) BufferSnapshot(id buffer.ID) (*buffer.Snapshot, bool) {
	snap, ok := s.buffers[id]
	return snap, ok
}

// Offset checks that offset lies within the snapshot and returns it. It
// panics with an *OffsetError otherwise, since the caller is holding a
// position from another snapshot.
func (s Snapshot) Offset(offset int) int {
	if offset < 0 || offset > s.Len() {
		panic(&OffsetError{Offset: offset, Len: s.Len()})
	}
	return offset
}

// ExcerptAt returns the excerpt containing offset together with the
// matching offset in its buffer. An offset on the boundary of two excerpts
// belongs to the second one; the end of the snapshot belongs to none.
func (s Snapshot) ExcerptAt(offset int) (Excerpt, int, bool) {
	s.Offset(offset)

	c := sumtree.NewCursor(s.excerpts, byOffset)
	c.Seek(offsetTarget(offset), sumtree.Right)
	e, ok := c.Item()
	if !ok {
		return Excerpt{}, 0, false
	}
	return e, e.Key.Range.Start + offset - c.Start(), true
}

// TextForRange returns the excerpted text between two offsets.
func (s Snapshot) TextForRange(start, end int) string {
	s.Offset(start)
	s.Offset(end)
	if start >= end {
		return ""
	}

	var sb strings.Builder
	sb.Grow(end - start)

	c := sumtree.NewCursor(s.excerpts, byOffset)
	c.Seek(offsetTarget(start), sumtree.Right)
	for ; !c.Done() && c.Start() < end; c.Next() {
		e, _ := c.Item()
		lo := max(start-c.Start(), 0)
		hi := min(end-c.Start(), e.TextSummary.Len)
		sb.WriteString(e.Snapshot.TextForRange(buffer.Range{
			Start: e.Key.Range.Start + lo,
			End:   e.Key.Range.Start + hi,
		}))
	}
	return sb.String()
}

type offsetTarget int

func (t offsetTarget) Compare(pos int) int { return cmp.Compare(int(t), pos) }

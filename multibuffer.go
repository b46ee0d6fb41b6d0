package multibuffer

import (
	"maps"
	"slices"
	"time"

	"github.com/hupe1980/multibuffer/buffer"
	"github.com/hupe1980/multibuffer/internal/sumtree"
)

// Source is a live text buffer the index can take snapshots of.
// *buffer.Buffer implements it.
type Source interface {
	Snapshot() *buffer.Snapshot
}

// ExcerptRange asks for the text between Start and End of Source.
type ExcerptRange struct {
	Source Source
	Start  buffer.ToOffset
	End    buffer.ToOffset
}

// Range returns an ExcerptRange over the byte offsets [start, end).
func Range(src Source, start, end int) ExcerptRange {
	return ExcerptRange{Source: src, Start: buffer.Offset(start), End: buffer.Offset(end)}
}

// Lines returns an ExcerptRange over the rows startRow through endRow,
// excluding the newline that ends endRow.
func Lines(src Source, startRow, endRow int) ExcerptRange {
	return ExcerptRange{Source: src, Start: buffer.Point{Row: startRow}, End: buffer.LineEnd(endRow)}
}

// MultiBuffer composes excerpts of many buffers into one ordered index.
//
// A MultiBuffer has a single owner: its methods must not be called
// concurrently. Snapshots it returns may be read from any goroutine.
type MultiBuffer struct {
	snapshot Snapshot
	buffers  map[buffer.ID]Source

	opts options
}

// New returns an empty MultiBuffer.
func New(optFns ...Option) *MultiBuffer {
	return &MultiBuffer{
		snapshot: Snapshot{buffers: map[buffer.ID]*buffer.Snapshot{}},
		buffers:  map[buffer.ID]Source{},
		opts:     applyOptions(optFns),
	}
}

// Snapshot synchronizes with the source buffers and returns the current
// state of the index.
func (m *MultiBuffer) Snapshot() Snapshot {
	m.sync()
	return m.snapshot
}

// BufferIDs returns the ids of every tracked buffer in order.
func (m *MultiBuffer) BufferIDs() []buffer.ID {
	return slices.SortedFunc(maps.Keys(m.buffers), buffer.ID.Compare)
}

type pendingExcerpt struct {
	key  ExcerptKey
	snap *buffer.Snapshot
}

// InsertExcerpts adds ranges to the index. Ranges may overlap each other
// and the excerpts already present: overlapping or touching ranges of one
// buffer are coalesced into a single excerpt. Empty and reversed ranges are
// ignored. Buffers seen for the first time become tracked.
func (m *MultiBuffer) InsertExcerpts(ranges ...ExcerptRange) {
	start := time.Now()
	m.sync()

	registered := map[buffer.ID]*buffer.Snapshot{}
	pending := make([]pendingExcerpt, 0, len(ranges))
	for _, r := range ranges {
		snap := m.resolve(r.Source, registered)
		rng := buffer.Range{Start: r.Start.ToOffset(snap), End: r.End.ToOffset(snap)}
		if rng.IsEmpty() {
			continue
		}
		if _, ok := m.snapshot.buffers[snap.ID()]; !ok {
			m.buffers[snap.ID()] = r.Source
			registered[snap.ID()] = snap
		}
		pending = append(pending, pendingExcerpt{
			key:  ExcerptKey{Path: snap.Path(), BufferID: snap.ID(), Range: rng},
			snap: snap,
		})
	}
	if len(registered) > 0 {
		m.cacheSnapshots(registered)
	}

	pending = coalesce(pending)
	m.snapshot.excerpts = mergeExcerpts(m.snapshot.excerpts, pending)
	m.checkInvariants()

	count := m.snapshot.ExcerptCount()
	m.opts.logger.LogInsert(len(ranges), len(pending), count)
	m.opts.metricsCollector.RecordInsert(len(ranges), count, time.Since(start))
}

// resolve returns the snapshot to resolve src's ranges against: the cached
// one for tracked buffers, otherwise the first one taken in this call.
func (m *MultiBuffer) resolve(src Source, registered map[buffer.ID]*buffer.Snapshot) *buffer.Snapshot {
	snap := src.Snapshot()
	if cached, ok := m.snapshot.buffers[snap.ID()]; ok {
		return cached
	}
	if first, ok := registered[snap.ID()]; ok {
		return first
	}
	return snap
}

// cacheSnapshots installs a new buffer map so snapshots already handed out
// keep theirs.
func (m *MultiBuffer) cacheSnapshots(updates map[buffer.ID]*buffer.Snapshot) {
	buffers := maps.Clone(m.snapshot.buffers)
	maps.Copy(buffers, updates)
	m.snapshot.buffers = buffers
}

// coalesce sorts the pending excerpts and merges those that intersect.
func coalesce(pending []pendingExcerpt) []pendingExcerpt {
	slices.SortFunc(pending, func(a, b pendingExcerpt) int { return a.key.Compare(b.key) })

	out := pending[:0]
	for _, p := range pending {
		if n := len(out); n > 0 && out[n-1].key.Intersects(p.key) {
			out[n-1].key = out[n-1].key.union(p.key)
			continue
		}
		out = append(out, p)
	}
	return out
}

// mergeExcerpts splices sorted, disjoint new excerpts into old in a single
// forward pass. Old excerpts that intersect a new one are folded into it.
func mergeExcerpts(old excerptTree, pending []pendingExcerpt) excerptTree {
	var out excerptTree
	c := sumtree.NewCursor(old, byKey)

	for _, p := range pending {
		if compareAtCursor(startOf(p.key), c) >= 0 {
			out.Append(c.Slice(startOf(p.key), sumtree.Left))
			if e, ok := c.Item(); ok && e.Key.Intersects(p.key) {
				pushExcerpt(&out, e)
				c.Next()
			}
		}

		pushExcerpt(&out, newExcerpt(p.key, p.snap))

		if compareAtCursor(endOf(p.key), c) >= 0 {
			// Everything before the end is covered by the new excerpt.
			c.SeekForward(endOf(p.key), sumtree.Left)
			if e, ok := c.Item(); ok && e.Key.Intersects(p.key) {
				pushExcerpt(&out, e)
				c.Next()
			}
		}
	}

	out.Append(c.Suffix())
	return out
}

// compareAtCursor compares target against the key of the cursor's item.
func compareAtCursor(target ExcerptOffset, c *sumtree.Cursor[Excerpt, ExcerptSummary, *ExcerptKey]) int {
	e, ok := c.Item()
	if !ok {
		return target.Compare(nil)
	}
	return target.Compare(&e.Key)
}

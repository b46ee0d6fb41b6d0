package multibuffer

import (
	"cmp"
	"slices"
	"time"

	"github.com/hupe1980/multibuffer/buffer"
	"github.com/hupe1980/multibuffer/internal/sumtree"
)

type rename struct {
	id      buffer.ID
	oldPath string
	newPath string
}

type bufferEdits struct {
	id    buffer.ID
	path  string
	snap  *buffer.Snapshot
	edits []buffer.Edit
}

// Sync reconciles the index with the source buffers: excerpts of edited
// buffers are moved and resized to follow the edits, and excerpts of
// renamed buffers are relocated to their new place in the order.
func (m *MultiBuffer) Sync() {
	m.sync()
}

func (m *MultiBuffer) sync() {
	start := time.Now()

	var (
		renames []rename
		edited  []bufferEdits
		updates = map[buffer.ID]*buffer.Snapshot{}
	)
	for _, id := range m.BufferIDs() {
		old := m.snapshot.buffers[id]
		cur := m.buffers[id].Snapshot()
		if cur == old {
			continue
		}

		changed := false
		if cur.Path() != old.Path() {
			renames = append(renames, rename{id: id, oldPath: old.Path(), newPath: cur.Path()})
			changed = true
		}
		if cur.Version() != old.Version() {
			edits := slices.Collect(cur.EditsFrom(old))
			edited = append(edited, bufferEdits{id: id, path: old.Path(), snap: cur, edits: edits})
			changed = true
		}
		if changed {
			updates[id] = cur
		}
	}

	if len(updates) > 0 {
		m.cacheSnapshots(updates)
		// Edits are applied while the excerpts are still filed under their
		// old paths.
		m.applyEdits(edited)
		m.applyRenames(renames)
		m.checkInvariants()
		m.opts.logger.LogSync(len(edited), len(renames))
	}
	m.opts.metricsCollector.RecordSync(len(edited), len(renames), time.Since(start))
}

// applyEdits maps the excerpts of each edited buffer through its edits and
// recaptures them from the buffer's new snapshot.
func (m *MultiBuffer) applyEdits(edited []bufferEdits) {
	if len(edited) == 0 {
		return
	}
	slices.SortFunc(edited, func(a, b bufferEdits) int {
		return cmp.Or(cmp.Compare(a.path, b.path), a.id.Compare(b.id))
	})

	var out excerptTree
	c := sumtree.NewCursor(m.snapshot.excerpts, byKey)
	for _, be := range edited {
		out.Append(c.Slice(runStart(be.path, be.id), sumtree.Left))

		dropped := 0
		for e, ok := c.Item(); ok && e.Key.BufferID == be.id; e, ok = c.Item() {
			c.Next()
			key := e.Key
			key.Range = projectRange(key.Range, be.edits)
			if key.Range.IsEmpty() {
				dropped++
				continue
			}
			pushExcerpt(&out, newExcerpt(key, be.snap))
		}
		if dropped > 0 {
			m.opts.logger.LogDropped(be.id, dropped)
			m.opts.metricsCollector.RecordDropped(dropped)
		}
	}
	out.Append(c.Suffix())
	m.snapshot.excerpts = out
}

// projectRange maps r through a sequence of edits. Text inserted at either
// boundary of r, or replacing bytes that straddle a boundary, becomes part
// of the range.
func projectRange(r buffer.Range, edits []buffer.Edit) buffer.Range {
	for _, e := range edits {
		r.Start = projectStart(r.Start, e)
		r.End = projectEnd(r.End, e)
	}
	return r
}

func projectStart(p int, e buffer.Edit) int {
	switch {
	case p <= e.Old.Start:
		return p
	case p >= e.Old.End:
		return p + e.Delta()
	default:
		return e.New.Start
	}
}

func projectEnd(p int, e buffer.Edit) int {
	switch {
	case p < e.Old.Start:
		return p
	case p >= e.Old.End:
		return p + e.Delta()
	default:
		return e.New.End
	}
}

// applyRenames moves the excerpts of renamed buffers to the position their
// new path sorts at. The first pass lifts every renamed run out of the
// tree; the second splices the runs back in under their new paths.
func (m *MultiBuffer) applyRenames(renames []rename) {
	if len(renames) == 0 {
		return
	}

	slices.SortFunc(renames, func(a, b rename) int {
		return cmp.Or(cmp.Compare(a.oldPath, b.oldPath), a.id.Compare(b.id))
	})
	runs := make([][]Excerpt, len(renames))

	var rest excerptTree
	c := sumtree.NewCursor(m.snapshot.excerpts, byKey)
	for i, rn := range renames {
		rest.Append(c.Slice(runStart(rn.oldPath, rn.id), sumtree.Left))

		snap := m.snapshot.buffers[rn.id]
		for e, ok := c.Item(); ok && e.Key.BufferID == rn.id; e, ok = c.Item() {
			c.Next()
			e.Key.Path = rn.newPath
			e.Snapshot = snap
			runs[i] = append(runs[i], e)
		}
		m.opts.logger.LogRename(rn.id, rn.oldPath, rn.newPath, len(runs[i]))
	}
	rest.Append(c.Suffix())

	order := make([]int, len(renames))
	for i := range order {
		order[i] = i
	}
	slices.SortFunc(order, func(a, b int) int {
		return cmp.Or(cmp.Compare(renames[a].newPath, renames[b].newPath), renames[a].id.Compare(renames[b].id))
	})

	var out excerptTree
	c = sumtree.NewCursor(rest, byKey)
	for _, i := range order {
		rn := renames[i]
		out.Append(c.Slice(runStart(rn.newPath, rn.id), sumtree.Left))
		out.Append(sumtree.FromItems[Excerpt, ExcerptSummary](runs[i]...))
	}
	out.Append(c.Suffix())
	m.snapshot.excerpts = out
}

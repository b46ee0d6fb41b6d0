package multibuffer

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/hupe1980/multibuffer/buffer"
	"github.com/hupe1980/multibuffer/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSync_Edits(t *testing.T) {
	const text = "0123456789abcdef"

	tests := []struct {
		name   string
		edit   func(b *buffer.Buffer)
		ranges []buffer.Range
		want   string
	}{
		{"insert before", func(b *buffer.Buffer) { b.Insert(0, "xx") }, []buffer.Range{{Start: 6, End: 10}}, "\n4567"},
		{"insert after", func(b *buffer.Buffer) { b.Insert(12, "xx") }, []buffer.Range{{Start: 4, End: 8}}, "\n4567"},
		{"insert inside", func(b *buffer.Buffer) { b.Insert(6, "XY") }, []buffer.Range{{Start: 4, End: 10}}, "\n45XY67"},
		{"insert at start", func(b *buffer.Buffer) { b.Insert(4, "S") }, []buffer.Range{{Start: 4, End: 9}}, "\nS4567"},
		{"insert at end", func(b *buffer.Buffer) { b.Insert(8, "E") }, []buffer.Range{{Start: 4, End: 9}}, "\n4567E"},
		{"delete across start", func(b *buffer.Buffer) { b.Delete(buffer.Range{Start: 2, End: 6}) }, []buffer.Range{{Start: 2, End: 4}}, "\n67"},
		{"delete across end", func(b *buffer.Buffer) { b.Delete(buffer.Range{Start: 6, End: 10}) }, []buffer.Range{{Start: 4, End: 6}}, "\n45"},
		{"replace inside", func(b *buffer.Buffer) { b.Edit(buffer.Range{Start: 5, End: 7}, "Z") }, []buffer.Range{{Start: 4, End: 7}}, "\n4Z7"},
		{"delete everything", func(b *buffer.Buffer) { b.Delete(buffer.Range{Start: 3, End: 9}) }, nil, ""},
		{"reload", func(b *buffer.Buffer) { b.SetText("--" + text) }, []buffer.Range{{Start: 6, End: 10}}, "\n4567"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := buffer.New(text)
			mb := newChecked()
			mb.InsertExcerpts(Range(buf, 4, 8))

			tt.edit(buf)
			snap := mb.Snapshot()

			assert.Equal(t, tt.want, snap.Text())
			assert.Equal(t, tt.ranges, rangesOf(snap))
		})
	}
}

func TestSync_ReloadInvalidUTF8(t *testing.T) {
	tests := []struct {
		name    string
		old     string
		new     string
		excerpt buffer.Range
		ranges  []buffer.Range
		want    string
	}{
		{"delete at end", "\xff\xff\xffab", "\xff\xff\xffa", buffer.Range{Start: 3, End: 5}, []buffer.Range{{Start: 3, End: 4}}, "\na"},
		{"insert before", "\xff\xffabcdef", "\xff\xffXabcdef", buffer.Range{Start: 4, End: 6}, []buffer.Range{{Start: 5, End: 7}}, "\ncd"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := buffer.New(tt.old)
			mb := newChecked()
			mb.InsertExcerpts(Range(buf, tt.excerpt.Start, tt.excerpt.End))

			buf.SetText(tt.new)
			snap := mb.Snapshot()

			assert.Equal(t, tt.want, snap.Text())
			assert.Equal(t, tt.ranges, rangesOf(snap))
		})
	}
}

func TestSync_EditsBeyondHistoryLimit(t *testing.T) {
	buf := buffer.New("0123456789abcdef", buffer.WithHistoryLimit(2))
	mb := newChecked()
	mb.InsertExcerpts(Range(buf, 4, 8))

	for range 10 {
		buf.Insert(0, "x")
	}
	snap := mb.Snapshot()

	assert.Equal(t, "\n4567", snap.Text())
	assert.Equal(t, []buffer.Range{{Start: 14, End: 18}}, rangesOf(snap))
}

func TestSync_EditsCoalesce(t *testing.T) {
	buf := buffer.New("0123456789")
	mb := newChecked()
	mb.InsertExcerpts(Range(buf, 0, 2), Range(buf, 5, 8))
	require.Equal(t, 2, mb.Snapshot().ExcerptCount())

	buf.Delete(buffer.Range{Start: 1, End: 6})
	snap := mb.Snapshot()
	assert.Equal(t, []buffer.Range{{Start: 0, End: 3}}, rangesOf(snap))
	assert.Equal(t, "\n067", snap.Text())
}

func TestSync_ManyEditsBetweenSyncs(t *testing.T) {
	rng := testutil.NewRNG(7)
	for iter := range 200 {
		buf := buffer.New(rng.Lines(6, 3))
		mb := newChecked()

		var ranges []ExcerptRange
		for _, r := range rng.Ranges(4, buf.Len()) {
			ranges = append(ranges, Range(buf, r.Start, r.End))
		}
		mb.InsertExcerpts(ranges...)

		for range 1 + rng.Intn(5) {
			r, text := rng.Edit(buf.Text())
			buf.Edit(r, text)
		}

		// The invariant scan checks every projected excerpt against the
		// buffer's new snapshot.
		snap := mb.Snapshot()
		for e := range snap.Excerpts() {
			require.Equal(t, buf.Snapshot().TextForRange(e.Key.Range), e.Text(), "iteration %d", iter)
		}
	}
}

func TestSync_OnlyEditedBufferChanges(t *testing.T) {
	a := buffer.New("aaaa aaaa", buffer.WithPath("a"))
	b := buffer.New("bbbb bbbb", buffer.WithPath("b"))
	c := buffer.New("cccc cccc", buffer.WithPath("c"))

	mb := newChecked()
	mb.InsertExcerpts(Range(a, 0, 4), Range(b, 0, 4), Range(b, 5, 9), Range(c, 5, 9))

	b.Insert(0, "B")
	snap := mb.Snapshot()
	assert.Equal(t, "\naaaa\nBbbbb\nbbbb\ncccc", snap.Text())
	assert.Equal(t, []buffer.Range{{Start: 0, End: 4}, {Start: 0, End: 5}, {Start: 6, End: 10}, {Start: 5, End: 9}}, rangesOf(snap))
}

func TestSync_Rename(t *testing.T) {
	a := buffer.New("alpha text", buffer.WithPath("z.txt"))
	b := buffer.New("beta text", buffer.WithPath("m.txt"))

	mb := newChecked()
	mb.InsertExcerpts(Range(a, 0, 5), Range(a, 6, 10), Range(b, 0, 4))
	assert.Equal(t, "\nbeta\nalpha\ntext", mb.Snapshot().Text())

	a.SetPath("a.txt")
	snap := mb.Snapshot()
	assert.Equal(t, "\nalpha\ntext\nbeta", snap.Text())

	want := []ExcerptKey{
		{Path: "a.txt", BufferID: a.ID(), Range: buffer.Range{Start: 0, End: 5}},
		{Path: "a.txt", BufferID: a.ID(), Range: buffer.Range{Start: 6, End: 10}},
		{Path: "m.txt", BufferID: b.ID(), Range: buffer.Range{Start: 0, End: 4}},
	}
	if diff := cmp.Diff(want, keysOf(snap)); diff != "" {
		t.Errorf("keys after rename (-want +got):\n%s", diff)
	}

	// Dropping the path moves the buffer in front of every named one.
	b.SetPath("")
	assert.Equal(t, "\nbeta\nalpha\ntext", mb.Snapshot().Text())
}

func TestSync_SwapPaths(t *testing.T) {
	a := buffer.New("first", buffer.WithPath("1"))
	b := buffer.New("second", buffer.WithPath("2"))
	c := buffer.New("third", buffer.WithPath("3"))

	mb := newChecked()
	mb.InsertExcerpts(Range(a, 0, 5), Range(b, 0, 6), Range(c, 0, 5))

	a.SetPath("3")
	c.SetPath("1")
	snap := mb.Snapshot()
	assert.Equal(t, "\nthird\nsecond\nfirst", snap.Text())

	var paths []string
	for _, k := range keysOf(snap) {
		paths = append(paths, k.Path)
	}
	assert.Equal(t, []string{"1", "2", "3"}, paths)
}

func TestSync_RenameAndEdit(t *testing.T) {
	a := buffer.New("one two three", buffer.WithPath("b"))
	other := buffer.New("other", buffer.WithPath("a"))

	mb := newChecked()
	mb.InsertExcerpts(Range(a, 4, 7), Range(other, 0, 5))

	a.Insert(0, "zero ")
	a.SetPath("0")
	snap := mb.Snapshot()

	assert.Equal(t, "\ntwo\nother", snap.Text())
	keys := keysOf(snap)
	require.Len(t, keys, 2)
	assert.Equal(t, ExcerptKey{Path: "0", BufferID: a.ID(), Range: buffer.Range{Start: 9, End: 12}}, keys[0])
}

func TestSync_RenamePreservesContent(t *testing.T) {
	rng := testutil.NewRNG(3)
	paths := []string{"", "a", "b", "c", "d"}

	bufs := make([]*buffer.Buffer, 4)
	mb := newChecked()
	for i := range bufs {
		bufs[i] = buffer.New(rng.Sentence(8), buffer.WithPath(paths[1+i]))
		var ranges []ExcerptRange
		for _, r := range rng.Ranges(3, bufs[i].Len()) {
			ranges = append(ranges, Range(bufs[i], r.Start, r.End))
		}
		mb.InsertExcerpts(ranges...)
	}

	textOf := func(s Snapshot) map[buffer.ID][]string {
		out := map[buffer.ID][]string{}
		for e := range s.Excerpts() {
			out[e.Key.BufferID] = append(out[e.Key.BufferID], e.Text())
		}
		return out
	}

	for range 50 {
		before := textOf(mb.Snapshot())
		for _, b := range bufs {
			if rng.Intn(2) == 0 {
				b.SetPath(paths[rng.Intn(len(paths))])
			}
		}
		snap := mb.Snapshot()
		assert.Equal(t, before, textOf(snap))

		for e := range snap.Excerpts() {
			bs, _ := snap.BufferSnapshot(e.Key.BufferID)
			require.Equal(t, bs.Path(), e.Key.Path)
		}
	}
}

func TestSync_Metrics(t *testing.T) {
	metrics := &BasicMetricsCollector{}
	buf := buffer.New("0123456789", buffer.WithPath("x"))
	mb := newChecked(WithMetricsCollector(metrics))

	mb.InsertExcerpts(Range(buf, 0, 2), Range(buf, 4, 6))
	mb.InsertExcerpts(Range(buf, 8, 9))

	buf.Delete(buffer.Range{Start: 4, End: 6})
	buf.SetPath("y")
	mb.Sync()

	stats := metrics.GetStats()
	assert.Equal(t, int64(2), stats.InsertCount)
	assert.Equal(t, int64(3), stats.InsertRanges)
	assert.Equal(t, int64(3), stats.Excerpts)
	assert.Equal(t, int64(3), stats.SyncCount)
	assert.Equal(t, int64(1), stats.SyncEdited)
	assert.Equal(t, int64(1), stats.SyncRenamed)
	assert.Equal(t, int64(1), stats.Dropped)
	assert.Equal(t, 2, mb.Snapshot().ExcerptCount())
}

func TestSync_Logging(t *testing.T) {
	var out bytes.Buffer
	logger := NewLogger(slog.NewJSONHandler(&out, &slog.HandlerOptions{Level: slog.LevelDebug}))

	buf := buffer.New("hello", buffer.WithPath("old.txt"))
	mb := newChecked(WithLogger(logger))
	mb.InsertExcerpts(Range(buf, 0, 5))

	buf.SetPath("new.txt")
	mb.Sync()

	assert.Contains(t, out.String(), `"msg":"excerpts inserted"`)
	assert.Contains(t, out.String(), `"msg":"buffer renamed"`)
	assert.Contains(t, out.String(), `"new_path":"new.txt"`)
	assert.Contains(t, out.String(), buf.ID().String())
}

func TestSync_NoChanges(t *testing.T) {
	buf := buffer.New("stable")
	mb := newChecked()
	mb.InsertExcerpts(Range(buf, 0, 6))

	s1 := mb.Snapshot()
	s2 := mb.Snapshot()
	assert.Equal(t, keysOf(s1), keysOf(s2))
}

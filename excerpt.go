package multibuffer

import (
	"github.com/hupe1980/multibuffer/buffer"
	"github.com/hupe1980/multibuffer/internal/invariants"
	"github.com/hupe1980/multibuffer/internal/sumtree"
)

// Excerpt is a range of one buffer as captured at the last sync. Excerpts
// are values; the index replaces them wholesale when they change.
type Excerpt struct {
	Key         ExcerptKey
	Snapshot    *buffer.Snapshot
	TextSummary buffer.TextSummary
}

func newExcerpt(key ExcerptKey, snap *buffer.Snapshot) Excerpt {
	return Excerpt{
		Key:         key,
		Snapshot:    snap,
		TextSummary: snap.TextSummaryForRange(key.Range),
	}
}

// Text returns the excerpted text.
func (e Excerpt) Text() string {
	return e.Snapshot.TextForRange(e.Key.Range)
}

// Summary implements sumtree.Item.
func (e Excerpt) Summary() ExcerptSummary {
	key := e.Key
	return ExcerptSummary{MaxKey: &key, Text: e.TextSummary}
}

// ExcerptSummary aggregates a run of excerpts: the greatest key seen so far
// and the concatenated text statistics.
type ExcerptSummary struct {
	MaxKey *ExcerptKey
	Text   buffer.TextSummary
}

// Add implements sumtree.Summary. The rightmost present key wins.
func (s ExcerptSummary) Add(other ExcerptSummary) ExcerptSummary {
	out := ExcerptSummary{MaxKey: s.MaxKey, Text: s.Text.Add(other.Text)}
	if other.MaxKey != nil {
		out.MaxKey = other.MaxKey
	}
	return out
}

type excerptTree = sumtree.Tree[Excerpt, ExcerptSummary]

// byKey is the max-key dimension used for key ordered seeks.
func byKey(acc *ExcerptKey, s ExcerptSummary) *ExcerptKey {
	if s.MaxKey == nil {
		return acc
	}
	if invariants.Enabled && acc != nil && s.MaxKey.Compare(*acc) < 0 {
		violation("max key", "went backwards from %v to %v", *acc, *s.MaxKey)
	}
	return s.MaxKey
}

// byOffset is the text length dimension.
func byOffset(acc int, s ExcerptSummary) int {
	return acc + s.Text.Len
}

// pushExcerpt appends e to t, folding it into the last excerpt instead when
// the two intersect.
func pushExcerpt(t *excerptTree, e Excerpt) {
	if last, ok := t.Last(); !ok || !last.Key.Intersects(e.Key) {
		t.Push(e)
		return
	}
	t.UpdateLast(func(last *Excerpt) {
		snap := last.Snapshot
		if e.Snapshot.Version() > snap.Version() {
			snap = e.Snapshot
		}
		*last = newExcerpt(last.Key.union(e.Key), snap)
	})
}

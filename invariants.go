package multibuffer

import (
	"github.com/hupe1980/multibuffer/internal/invariants"
)

// checkInvariants scans the whole index and panics with an *InvariantError
// if it finds excerpts out of order, consecutive excerpts that should have
// been coalesced, or excerpts that disagree with the cached buffer state.
func (m *MultiBuffer) checkInvariants() {
	if !invariants.Enabled && !m.opts.invariantChecks {
		return
	}
	m.snapshot.check()
}

func (s Snapshot) check() {
	var (
		prev    Excerpt
		hasPrev bool
	)
	for e := range s.excerpts.All() {
		if hasPrev {
			if prev.Key.Compare(e.Key) >= 0 {
				violation("order", "%v is not before %v", prev.Key, e.Key)
			}
			if prev.Key.Intersects(e.Key) {
				violation("disjoint", "%v intersects %v", prev.Key, e.Key)
			}
		}

		cached, ok := s.buffers[e.Key.BufferID]
		switch {
		case !ok:
			violation("tracked", "%v belongs to an untracked buffer", e.Key)
		case e.Snapshot.Version() != cached.Version():
			violation("version", "%v captured at version %d, buffer is at %d", e.Key, e.Snapshot.Version(), cached.Version())
		case e.Key.Path != cached.Path():
			violation("path", "%v filed under a stale path, buffer is at %q", e.Key, cached.Path())
		case e.Key.Range.IsEmpty() || e.Key.Range.End > cached.Len():
			violation("range", "%v does not fit buffer of length %d", e.Key, cached.Len())
		case e.TextSummary != cached.TextSummaryForRange(e.Key.Range):
			violation("summary", "%v has a stale text summary", e.Key)
		}

		prev, hasPrev = e, true
	}
}

// Package buffer implements source text buffers: versioned, concurrently
// editable text with immutable snapshots.
//
// A [Buffer] is the live handle. Every content change bumps its version and
// is recorded as an [Edit], so a later [Snapshot] can report exactly what
// changed since an earlier one:
//
//	buf := buffer.New("hello world", buffer.WithPath("greeting.txt"))
//	before := buf.Snapshot()
//	buf.Edit(buffer.Range{Start: 0, End: 5}, "goodbye")
//	for e := range buf.Snapshot().EditsSince(before.Version()) {
//	    fmt.Println(e.Old, "->", e.New) // [0,5) -> [0,7)
//	}
//
// The edit history is bounded by [WithHistoryLimit]; [Snapshot.EditsFrom]
// falls back to diffing texts for snapshots older than what is kept.
//
// Snapshots are safe to share between goroutines. Positions passed to a
// snapshot must lie inside it; out-of-range positions indicate a stale
// snapshot and panic with a [*RangeError].
package buffer

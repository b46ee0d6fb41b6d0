// Package multibuffer composes excerpts of many text buffers into a single
// ordered, linearly addressable index.
//
// An excerpt is a byte range of one buffer. The index keeps excerpts sorted
// by buffer path, buffer identity and range, and never holds two excerpts of
// the same buffer that overlap or touch: inserting such ranges coalesces them
// into one. The excerpts live in a persistent sum tree, so a Snapshot can be
// taken in constant time and read from other goroutines while the owning
// MultiBuffer keeps changing.
//
// # Quick Start
//
//	buf := buffer.New("abcdefghijklmnopqrstuvwxyz", buffer.WithPath("alphabet.txt"))
//
//	mb := multibuffer.New()
//	mb.InsertExcerpts(
//	    multibuffer.Range(buf, 0, 2),
//	    multibuffer.Range(buf, 4, 12),
//	)
//	fmt.Printf("%q\n", mb.Snapshot().Text()) // "\nab\nefghijkl"
//
// # Synchronization
//
// Buffers are mutated outside the index. Every operation on a MultiBuffer
// first calls Sync, which compares each tracked buffer with the snapshot
// captured last time:
//
//   - a changed path moves the buffer's excerpts to their new place in the
//     order, leaving ranges and text untouched;
//   - edits move and resize the buffer's excerpts. Text inserted at an
//     excerpt boundary joins the excerpt, excerpts whose text was deleted
//     entirely are dropped, and excerpts that end up touching are coalesced.
//
// # Consistency Checks
//
// Building with the invariants tag (go test -tags invariants), or with the
// race detector, makes every mutation scan the index and panic with an
// error wrapping ErrInvariantViolation on the first inconsistency.
// WithInvariantChecks enables the same scan in other builds.
package multibuffer

package buffer

import (
	"slices"
	"sync"
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// DefaultHistoryLimit is the number of edits a buffer keeps for EditsSince
// unless WithHistoryLimit says otherwise.
const DefaultHistoryLimit = 1024

type config struct {
	path         string
	remoteID     uint64
	replicaID    uint16
	historyLimit int
}

// Option configures a Buffer.
type Option func(*config)

// WithPath associates a file path with the buffer.
func WithPath(path string) Option {
	return func(c *config) {
		c.path = path
	}
}

// WithRemoteID sets the remote id instead of allocating a fresh one.
func WithRemoteID(id uint64) Option {
	return func(c *config) {
		c.remoteID = id
	}
}

// WithReplicaID sets the replica id (default 0).
func WithReplicaID(id uint16) Option {
	return func(c *config) {
		c.replicaID = id
	}
}

// WithHistoryLimit bounds the edit history kept for EditsSince. Once more
// than twice limit edits pile up, all but the latest limit are dropped.
// A limit <= 0 keeps every edit.
func WithHistoryLimit(limit int) Option {
	return func(c *config) {
		c.historyLimit = limit
	}
}

// Buffer is a mutable text buffer. It is safe for concurrent use.
type Buffer struct {
	mu           sync.RWMutex
	snap         *Snapshot
	historyLimit int
}

// New creates a buffer holding text at version 0.
func New(text string, optFns ...Option) *Buffer {
	c := config{historyLimit: DefaultHistoryLimit}
	for _, fn := range optFns {
		fn(&c)
	}
	if c.remoteID == 0 {
		c.remoteID = allocRemoteID()
	}

	id := ID{RemoteID: c.remoteID, ReplicaID: c.replicaID}
	return &Buffer{
		snap:         newSnapshot(id, 0, c.path, text, nil, 0),
		historyLimit: c.historyLimit,
	}
}

// Snapshot returns the current immutable snapshot.
func (b *Buffer) Snapshot() *Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.snap
}

// ID returns the identity of the buffer.
func (b *Buffer) ID() ID { return b.Snapshot().ID() }

// Len returns the current length in bytes.
func (b *Buffer) Len() int { return b.Snapshot().Len() }

// Text returns the current text.
func (b *Buffer) Text() string { return b.Snapshot().Text() }

// Path returns the current path.
func (b *Buffer) Path() string { return b.Snapshot().Path() }

// SetPath associates the buffer with a new path. The content version does
// not change.
func (b *Buffer) SetPath(path string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	s := b.snap
	if s.path == path {
		return
	}
	b.snap = &Snapshot{
		id:         s.id,
		version:    s.version,
		path:       path,
		text:       s.text,
		lineStarts: s.lineStarts,
		history:    s.history,
		base:       s.base,
	}
}

// Edit replaces the bytes in r with text. It panics with a *RangeError if
// r does not fit the current text.
func (b *Buffer) Edit(r Range, text string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	s := b.snap
	checkRange("edit", r, len(s.text))
	if r.IsEmpty() && text == "" {
		return
	}
	edit := Edit{Old: r, New: Range{Start: r.Start, End: r.Start + len(text)}}
	b.commit(s.text[:r.Start]+text+s.text[r.End:], []Edit{edit})
}

// Insert inserts text at offset.
func (b *Buffer) Insert(offset int, text string) {
	b.Edit(Range{Start: offset, End: offset}, text)
}

// Delete removes the bytes in r.
func (b *Buffer) Delete(r Range) {
	b.Edit(r, "")
}

// SetText replaces the whole content, recording the difference between the
// old and new text as a minimal sequence of edits. Reloading a file from
// disk goes through here so excerpts over unchanged regions stay put.
func (b *Buffer) SetText(text string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	s := b.snap
	if s.text == text {
		return
	}
	b.commit(text, diffEdits(s.text, text))
}

// commit installs text as the next version. Callers hold mu.
func (b *Buffer) commit(text string, edits []Edit) {
	s := b.snap
	version := s.version + 1
	history := s.history
	for _, e := range edits {
		history = append(history, versionedEdit{version: version, edit: e})
	}

	base := s.base
	if limit := b.historyLimit; limit > 0 && len(history) > 2*limit {
		// Keep the edits of one version together.
		drop := len(history) - limit
		for drop < len(history) && history[drop].version == history[drop-1].version {
			drop++
		}
		base = history[drop-1].version
		history = slices.Clone(history[drop:])
	}
	b.snap = newSnapshot(s.id, version, s.path, text, history, base)
}

// diffEdits expresses the change from old to new as sequential edits,
// pairing each deletion with an immediately following insertion. The diff
// runs over bytes, so offsets stay exact for text that is not valid UTF-8.
func diffEdits(old, new string) []Edit {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMainRunes(byteRunes(old), byteRunes(new), false)

	var (
		edits []Edit
		pos   int
	)
	for i := 0; i < len(diffs); i++ {
		d := diffs[i]
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			pos += byteLen(d.Text)
		case diffmatchpatch.DiffDelete:
			e := Edit{
				Old: Range{Start: pos, End: pos + byteLen(d.Text)},
				New: Range{Start: pos, End: pos},
			}
			if i+1 < len(diffs) && diffs[i+1].Type == diffmatchpatch.DiffInsert {
				i++
				e.New.End = pos + byteLen(diffs[i].Text)
			}
			edits = append(edits, e)
			pos = e.New.End
		case diffmatchpatch.DiffInsert:
			edits = append(edits, Edit{
				Old: Range{Start: pos, End: pos},
				New: Range{Start: pos, End: pos + byteLen(d.Text)},
			})
			pos += byteLen(d.Text)
		}
	}
	return edits
}

// byteRunes maps every byte of s to the rune of the same value.
func byteRunes(s string) []rune {
	runes := make([]rune, len(s))
	for i := 0; i < len(s); i++ {
		runes[i] = rune(s[i])
	}
	return runes
}

// byteLen returns the number of bytes a diff text produced from byteRunes
// stands for.
func byteLen(text string) int {
	return utf8.RuneCountInString(text)
}

// Package sumtree provides a persistent B+ sum tree.
//
// Every node caches the aggregate [Summary] of its subtree. A [Dimension]
// folds summaries into a position (a byte count, a maximum key, ...), which
// lets a [Cursor] seek to any [SeekTarget] in O(log n) by skipping whole
// subtrees whose end position lies before the target.
//
// # Persistence
//
// Nodes are never modified after construction. Push, Append and UpdateLast
// path-copy the nodes they touch and share everything else, so a [Tree]
// value taken before a mutation keeps observing the old contents. This is
// what makes snapshots cheap: copying a Tree copies one pointer.
//
// # Seeking
//
// A cursor advances past an element while the target compares greater than
// the element's end position, or equal when seeking with [Right] bias:
//
//	c := sumtree.NewCursor(tree, byteLen)
//	prefix := c.Slice(offset(10), sumtree.Left) // elements ending before 10
//	rest := c.Suffix()                          // everything else
package sumtree

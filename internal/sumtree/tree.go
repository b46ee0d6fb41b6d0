package sumtree

import (
	"iter"
	"slices"
)

const (
	// treeBase is the minimum fan-out of a non-root node after a split.
	treeBase = 6
	// maxFanout is the maximum number of items in a leaf or children in an
	// internal node.
	maxFanout = 2 * treeBase
)

// Summary is an associative aggregate. The zero value must be the identity.
type Summary[S any] interface {
	Add(other S) S
}

// Item is an element stored in a Tree.
type Item[S any] interface {
	Summary() S
}

// Dimension folds a summary into an accumulated position. The zero value of
// D is the position before the first element.
type Dimension[S, D any] func(acc D, summary S) D

// SeekTarget compares itself against a position. Compare returns a positive
// number if the target lies after pos, zero if it lies at pos and a negative
// number if it lies before pos.
type SeekTarget[D any] interface {
	Compare(pos D) int
}

// Bias decides what happens when a seek target equals an element's end.
type Bias int

const (
	// Left stops before an element whose end equals the target.
	Left Bias = iota
	// Right includes an element whose end equals the target.
	Right
)

// Tree is a persistent, balanced sequence of items with cached summaries.
// The zero value is an empty tree.
type Tree[T Item[S], S Summary[S]] struct {
	root *node[T, S]
}

// FromItems builds a tree holding items in order.
func FromItems[T Item[S], S Summary[S]](items ...T) Tree[T, S] {
	if len(items) == 0 {
		return Tree[T, S]{}
	}

	level := make([]*node[T, S], 0, (len(items)+maxFanout-1)/maxFanout)
	for chunk := range slices.Chunk(items, maxFanout) {
		level = append(level, newLeaf[T, S](slices.Clone(chunk), nil))
	}
	for len(level) > 1 {
		next := make([]*node[T, S], 0, (len(level)+maxFanout-1)/maxFanout)
		for chunk := range slices.Chunk(level, maxFanout) {
			next = append(next, newInternal(slices.Clone(chunk)))
		}
		level = next
	}
	return Tree[T, S]{root: level[0]}
}

// IsEmpty reports whether the tree holds no items.
func (t Tree[T, S]) IsEmpty() bool { return t.root == nil }

// Len returns the number of items.
func (t Tree[T, S]) Len() int {
	if t.root == nil {
		return 0
	}
	return t.root.count
}

// Height returns the number of levels above the leaves.
func (t Tree[T, S]) Height() int {
	if t.root == nil {
		return 0
	}
	return t.root.height
}

// Summary returns the aggregate summary of all items.
func (t Tree[T, S]) Summary() S {
	if t.root == nil {
		var zero S
		return zero
	}
	return t.root.summary
}

// First returns the first item.
func (t Tree[T, S]) First() (T, bool) {
	var zero T
	n := t.root
	if n == nil {
		return zero, false
	}
	for !n.isLeaf() {
		n = n.children[0]
	}
	return n.items[0], true
}

// Last returns the last item.
func (t Tree[T, S]) Last() (T, bool) {
	var zero T
	n := t.root
	if n == nil {
		return zero, false
	}
	for !n.isLeaf() {
		n = n.children[len(n.children)-1]
	}
	return n.items[len(n.items)-1], true
}

// All returns an iterator over the items in order.
func (t Tree[T, S]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		if t.root != nil {
			t.root.walk(yield)
		}
	}
}

// Items returns the items as a slice.
func (t Tree[T, S]) Items() []T {
	return slices.AppendSeq(make([]T, 0, t.Len()), t.All())
}

// Push appends a single item.
func (t *Tree[T, S]) Push(item T) {
	t.root = concat(t.root, newLeaf[T, S]([]T{item}, nil))
}

// Append appends all items of other. Nodes of other are shared, not copied.
func (t *Tree[T, S]) Append(other Tree[T, S]) {
	t.root = concat(t.root, other.root)
}

// UpdateLast applies f to a copy of the last item and stores the result.
// It reports false if the tree is empty.
func (t *Tree[T, S]) UpdateLast(f func(*T)) bool {
	if t.root == nil {
		return false
	}
	t.root = updateLast(t.root, f)
	return true
}

func updateLast[T Item[S], S Summary[S]](n *node[T, S], f func(*T)) *node[T, S] {
	if n.isLeaf() {
		items := slices.Clone(n.items)
		sums := slices.Clone(n.itemSums)
		last := len(items) - 1
		f(&items[last])
		sums[last] = items[last].Summary()
		return newLeaf(items, sums)
	}
	children := slices.Clone(n.children)
	last := len(children) - 1
	children[last] = updateLast(children[last], f)
	return newInternal(children)
}

package sumtree

import "slices"

// node is immutable once built. Leaves (height 0) hold items and their
// cached summaries; internal nodes hold children of equal height.
type node[T Item[S], S Summary[S]] struct {
	height   int
	count    int
	summary  S
	items    []T
	itemSums []S
	children []*node[T, S]
}

// newLeaf takes ownership of items and sums. A nil sums slice is computed.
func newLeaf[T Item[S], S Summary[S]](items []T, sums []S) *node[T, S] {
	if sums == nil {
		sums = make([]S, len(items))
		for i := range items {
			sums[i] = items[i].Summary()
		}
	}
	n := &node[T, S]{
		count:    len(items),
		items:    items,
		itemSums: sums,
	}
	for _, s := range sums {
		n.summary = n.summary.Add(s)
	}
	return n
}

// newInternal takes ownership of children, which must share one height.
func newInternal[T Item[S], S Summary[S]](children []*node[T, S]) *node[T, S] {
	n := &node[T, S]{
		height:   children[0].height + 1,
		children: children,
	}
	for _, c := range children {
		n.count += c.count
		n.summary = n.summary.Add(c.summary)
	}
	return n
}

func (n *node[T, S]) isLeaf() bool { return n.height == 0 }

func (n *node[T, S]) fanout() int {
	if n.isLeaf() {
		return len(n.items)
	}
	return len(n.children)
}

func (n *node[T, S]) walk(yield func(T) bool) bool {
	if n.isLeaf() {
		for _, item := range n.items {
			if !yield(item) {
				return false
			}
		}
		return true
	}
	for _, c := range n.children {
		if !c.walk(yield) {
			return false
		}
	}
	return true
}

// concat joins two trees, all of a before all of b. Only the spine along
// which the shorter tree is grafted gets copied.
func concat[T Item[S], S Summary[S]](a, b *node[T, S]) *node[T, S] {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}

	var parts []*node[T, S]
	if a.height >= b.height {
		parts = graftRight(a, b)
	} else {
		parts = graftLeft(a, b)
	}
	root := parts[0]
	if len(parts) > 1 {
		root = newInternal(parts)
	}
	for !root.isLeaf() && len(root.children) == 1 {
		root = root.children[0]
	}
	return root
}

// graftRight attaches b along the right edge of a (a.height >= b.height).
// It returns one or two nodes of a's height.
func graftRight[T Item[S], S Summary[S]](a, b *node[T, S]) []*node[T, S] {
	if a.height == b.height {
		return mergeSiblings(a, b)
	}
	last := len(a.children) - 1
	parts := graftRight(a.children[last], b)
	return splitInternal(slices.Concat(a.children[:last], parts))
}

// graftLeft attaches a along the left edge of b (a.height < b.height).
func graftLeft[T Item[S], S Summary[S]](a, b *node[T, S]) []*node[T, S] {
	if a.height == b.height {
		return mergeSiblings(a, b)
	}
	parts := graftLeft(a, b.children[0])
	return splitInternal(slices.Concat(parts, b.children[1:]))
}

// mergeSiblings combines two nodes of equal height into one node, or two
// evenly split nodes when the combined fan-out overflows.
func mergeSiblings[T Item[S], S Summary[S]](a, b *node[T, S]) []*node[T, S] {
	if !a.isLeaf() {
		return splitInternal(slices.Concat(a.children, b.children))
	}
	items := slices.Concat(a.items, b.items)
	sums := slices.Concat(a.itemSums, b.itemSums)
	if len(items) <= maxFanout {
		return []*node[T, S]{newLeaf(items, sums)}
	}
	mid := len(items) / 2
	return []*node[T, S]{
		newLeaf(items[:mid:mid], sums[:mid:mid]),
		newLeaf(items[mid:], sums[mid:]),
	}
}

func splitInternal[T Item[S], S Summary[S]](children []*node[T, S]) []*node[T, S] {
	if len(children) <= maxFanout {
		return []*node[T, S]{newInternal(children)}
	}
	mid := len(children) / 2
	return []*node[T, S]{
		newInternal(children[:mid:mid]),
		newInternal(children[mid:]),
	}
}

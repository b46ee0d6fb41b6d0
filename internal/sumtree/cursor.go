package sumtree

// Cursor walks a Tree forward, tracking the position of the current item
// in dimension D.
//
// Outside of a seek the top of the stack is always a leaf frame whose index
// points at the current item, or the stack is empty and the cursor is past
// the end.
type Cursor[T Item[S], S Summary[S], D any] struct {
	tree  Tree[T, S]
	dim   Dimension[S, D]
	stack []frame[T, S]
	pos   D
}

type frame[T Item[S], S Summary[S]] struct {
	n   *node[T, S]
	idx int
}

// NewCursor returns a cursor positioned on the first item of t.
func NewCursor[T Item[S], S Summary[S], D any](t Tree[T, S], dim Dimension[S, D]) *Cursor[T, S, D] {
	c := &Cursor[T, S, D]{
		tree:  t,
		dim:   dim,
		stack: make([]frame[T, S], 0, t.Height()+1),
	}
	c.Reset()
	return c
}

// Reset moves the cursor back to the first item.
func (c *Cursor[T, S, D]) Reset() {
	var zero D
	c.pos = zero
	c.stack = c.stack[:0]
	for n := c.tree.root; n != nil; n = n.children[0] {
		c.stack = append(c.stack, frame[T, S]{n: n})
		if n.isLeaf() {
			break
		}
	}
}

// Done reports whether the cursor is past the last item.
func (c *Cursor[T, S, D]) Done() bool { return len(c.stack) == 0 }

// Item returns the current item.
func (c *Cursor[T, S, D]) Item() (T, bool) {
	if c.Done() {
		var zero T
		return zero, false
	}
	top := c.stack[len(c.stack)-1]
	return top.n.items[top.idx], true
}

// Start returns the position before the current item.
func (c *Cursor[T, S, D]) Start() D { return c.pos }

// End returns the position after the current item, or Start when done.
func (c *Cursor[T, S, D]) End() D {
	if c.Done() {
		return c.pos
	}
	top := c.stack[len(c.stack)-1]
	return c.dim(c.pos, top.n.itemSums[top.idx])
}

// Next advances to the following item.
func (c *Cursor[T, S, D]) Next() {
	if c.Done() {
		return
	}
	top := &c.stack[len(c.stack)-1]
	c.pos = c.dim(c.pos, top.n.itemSums[top.idx])
	top.idx++
	c.settle()
}

// settle pops exhausted frames and descends to the leftmost leaf of the
// next unvisited subtree.
func (c *Cursor[T, S, D]) settle() {
	for len(c.stack) > 0 {
		top := c.stack[len(c.stack)-1]
		if top.idx < top.n.fanout() {
			if top.n.isLeaf() {
				return
			}
			c.stack = append(c.stack, frame[T, S]{n: top.n.children[top.idx]})
			continue
		}
		c.pop()
	}
}

func (c *Cursor[T, S, D]) pop() {
	c.stack = c.stack[:len(c.stack)-1]
	if len(c.stack) > 0 {
		c.stack[len(c.stack)-1].idx++
	}
}

// Seek resets the cursor and advances it to target. It reports whether the
// target equals the end of the item the cursor stops on.
func (c *Cursor[T, S, D]) Seek(target SeekTarget[D], bias Bias) bool {
	c.Reset()
	return c.seek(target, bias, nil)
}

// SeekForward advances to target without revisiting earlier items.
func (c *Cursor[T, S, D]) SeekForward(target SeekTarget[D], bias Bias) bool {
	return c.seek(target, bias, nil)
}

// Slice advances to target and returns the items passed over. Whole
// subtrees are shared with the source tree rather than copied.
func (c *Cursor[T, S, D]) Slice(target SeekTarget[D], bias Bias) Tree[T, S] {
	var out Tree[T, S]
	c.seek(target, bias, &out)
	return out
}

// Suffix returns every item from the current one to the end and moves the
// cursor past the end.
func (c *Cursor[T, S, D]) Suffix() Tree[T, S] {
	var out Tree[T, S]
	if c.Done() {
		return out
	}
	top := c.stack[len(c.stack)-1]
	out.root = newLeaf(cloneTail(top.n.items, top.idx), cloneTail(top.n.itemSums, top.idx))
	for i := len(c.stack) - 2; i >= 0; i-- {
		f := c.stack[i]
		for _, child := range f.n.children[f.idx+1:] {
			out.root = concat(out.root, child)
		}
	}
	c.pos = c.dim(c.pos, out.Summary())
	c.stack = c.stack[:0]
	return out
}

func (c *Cursor[T, S, D]) seek(target SeekTarget[D], bias Bias, out *Tree[T, S]) bool {
	for len(c.stack) > 0 {
		top := &c.stack[len(c.stack)-1]
		if top.n.isLeaf() {
			first := top.idx
			for top.idx < len(top.n.items) {
				end := c.dim(c.pos, top.n.itemSums[top.idx])
				if !passes(target.Compare(end), bias) {
					break
				}
				c.pos = end
				top.idx++
			}
			if out != nil && top.idx > first {
				items := top.n.items[first:top.idx]
				sums := top.n.itemSums[first:top.idx]
				out.root = concat(out.root, newLeaf(cloneTail(items, 0), cloneTail(sums, 0)))
			}
			if top.idx < len(top.n.items) {
				return target.Compare(c.End()) == 0
			}
			c.pop()
			continue
		}

		descended := false
		for top.idx < len(top.n.children) {
			child := top.n.children[top.idx]
			end := c.dim(c.pos, child.summary)
			if !passes(target.Compare(end), bias) {
				c.stack = append(c.stack, frame[T, S]{n: child})
				descended = true
				break
			}
			if out != nil {
				out.root = concat(out.root, child)
			}
			c.pos = end
			top.idx++
		}
		if !descended {
			c.pop()
		}
	}
	return target.Compare(c.pos) == 0
}

func passes(cmp int, bias Bias) bool {
	return cmp > 0 || (cmp == 0 && bias == Right)
}

func cloneTail[E any](s []E, from int) []E {
	out := make([]E, len(s)-from)
	copy(out, s[from:])
	return out
}

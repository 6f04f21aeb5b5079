package avltree

// Remove deletes value from the tree. Removing an absent value is a no-op
// and returns false.
func (t *Tree[T]) Remove(value T) bool {
	var removed bool
	t.root, removed = t.remove(t.root, value)
	if removed {
		t.count--
	}
	return removed
}

// remove deletes value below n and returns the possibly new subtree root.
//
// A node with at most one child is replaced by that child. A node with two
// children takes the value of its in-order successor, then the successor is
// removed from the right subtree, so exactly one slot is released.
func (t *Tree[T]) remove(n int32, value T) (int32, bool) {
	if n == none {
		return none, false
	}

	var (
		removed bool
		child   int32
	)
	switch cur := t.nodes[n].value; {
	case value < cur:
		child, removed = t.remove(t.nodes[n].left, value)
		t.nodes[n].left = child
	case value > cur:
		child, removed = t.remove(t.nodes[n].right, value)
		t.nodes[n].right = child
	default:
		left, right := t.nodes[n].left, t.nodes[n].right
		if left == none || right == none {
			replacement := left
			if replacement == none {
				replacement = right
			}
			t.release(n)
			return replacement, true
		}

		successor := t.nodes[t.leftmost(right)].value
		t.nodes[n].value = successor
		child, removed = t.remove(right, successor)
		t.nodes[n].right = child
	}

	if !removed {
		return n, false
	}

	return t.rebalance(n), true
}

// leftmost returns the node holding the smallest value below n.
func (t *Tree[T]) leftmost(n int32) int32 {
	for t.nodes[n].left != none {
		n = t.nodes[n].left
	}
	return n
}

// rightmost returns the node holding the largest value below n.
func (t *Tree[T]) rightmost(n int32) int32 {
	for t.nodes[n].right != none {
		n = t.nodes[n].right
	}
	return n
}

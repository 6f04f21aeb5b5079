package avltree

// Insert adds value to the tree. It returns false, leaving the tree
// untouched, when an equal value is already stored.
func (t *Tree[T]) Insert(value T) bool {
	var added bool
	t.root, added = t.insert(t.root, value)
	if added {
		t.count++
	}
	return added
}

// insert places value below n and returns the possibly new subtree root.
// Ancestors are rebalanced on the way back up.
func (t *Tree[T]) insert(n int32, value T) (int32, bool) {
	if n == none {
		return t.alloc(value), true
	}

	var (
		added bool
		child int32
	)
	// alloc may grow the arena, so never hold a pointer into it across
	// the recursive call.
	switch cur := t.nodes[n].value; {
	case value < cur:
		child, added = t.insert(t.nodes[n].left, value)
		t.nodes[n].left = child
	case value > cur:
		child, added = t.insert(t.nodes[n].right, value)
		t.nodes[n].right = child
	default:
		return n, false
	}

	if !added {
		return n, false
	}

	return t.rebalance(n), true
}

package avltree

func (t *Tree[T]) height(n int32) int32 {
	if n == none {
		return 0
	}
	return t.nodes[n].height
}

// balanceFactor is height(left) - height(right).
func (t *Tree[T]) balanceFactor(n int32) int32 {
	if n == none {
		return 0
	}
	return t.height(t.nodes[n].left) - t.height(t.nodes[n].right)
}

func (t *Tree[T]) updateHeight(n int32) {
	t.nodes[n].height = 1 + max(t.height(t.nodes[n].left), t.height(t.nodes[n].right))
}

// rotateRight lifts the left child of y and returns it as the new subtree root.
//
//	    y            x
//	   / \          / \
//	  x   C  =>    A   y
//	 / \              / \
//	A   B            B   C
func (t *Tree[T]) rotateRight(y int32) int32 {
	x := t.nodes[y].left
	t.nodes[y].left = t.nodes[x].right
	t.nodes[x].right = y

	t.updateHeight(y)
	t.updateHeight(x)

	return x
}

// rotateLeft is the mirror of rotateRight.
func (t *Tree[T]) rotateLeft(x int32) int32 {
	y := t.nodes[x].right
	t.nodes[x].right = t.nodes[y].left
	t.nodes[y].left = x

	t.updateHeight(x)
	t.updateHeight(y)

	return y
}

// rebalance refreshes the cached height of n and restores |balance| <= 1 with
// a single or double rotation. It returns the root of the rebuilt subtree.
func (t *Tree[T]) rebalance(n int32) int32 {
	t.updateHeight(n)

	switch bf := t.balanceFactor(n); {
	case bf > 1:
		// left-right case
		if t.balanceFactor(t.nodes[n].left) < 0 {
			t.nodes[n].left = t.rotateLeft(t.nodes[n].left)
		}
		return t.rotateRight(n)
	case bf < -1:
		// right-left case
		if t.balanceFactor(t.nodes[n].right) > 0 {
			t.nodes[n].right = t.rotateRight(t.nodes[n].right)
		}
		return t.rotateLeft(n)
	}

	return n
}

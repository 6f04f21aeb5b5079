package avltree

import (
	"fmt"
	"strings"
)

// Each calls fn for every value in ascending order until fn returns false.
func (t *Tree[T]) Each(fn func(value T) bool) {
	// explicit stack, the depth is bounded by the tree height.
	stack := make([]int32, 0, t.Height())
	n := t.root
	for n != none || len(stack) > 0 {
		for n != none {
			stack = append(stack, n)
			n = t.nodes[n].left
		}

		n = stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !fn(t.nodes[n].value) {
			return
		}
		n = t.nodes[n].right
	}
}

// InOrder returns all values in ascending order.
func (t *Tree[T]) InOrder() []T {
	values := make([]T, 0, t.count)
	t.Each(func(value T) bool {
		values = append(values, value)
		return true
	})
	return values
}

// Min returns the smallest value, ok is false for an empty tree.
func (t *Tree[T]) Min() (value T, ok bool) {
	if t.root == none {
		return value, false
	}
	return t.nodes[t.leftmost(t.root)].value, true
}

// Max returns the largest value, ok is false for an empty tree.
func (t *Tree[T]) Max() (value T, ok bool) {
	if t.root == none {
		return value, false
	}
	return t.nodes[t.rightmost(t.root)].value, true
}

// Root returns the value held by the root node.
func (t *Tree[T]) Root() (value T, ok bool) {
	if t.root == none {
		return value, false
	}
	return t.nodes[t.root].value, true
}

// String renders the ascending listing along with size and height, e.g.
//
//	AVLTree [1 2 3 ] (size: 3, height: 2)
func (t *Tree[T]) String() string {
	var sb strings.Builder
	sb.WriteString("AVLTree [")
	t.Each(func(value T) bool {
		fmt.Fprintf(&sb, "%v ", value)
		return true
	})
	fmt.Fprintf(&sb, "] (size: %d, height: %d)", t.count, t.Height())
	return sb.String()
}

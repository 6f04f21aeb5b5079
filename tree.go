package avltree

import (
	"cmp"
	"math"
)

// none is the handle of an empty subtree.
const none int32 = -1

// node is a single slot of the arena. A live node always has height >= 1,
// a released slot has height 0.
type node[T cmp.Ordered] struct {
	value  T
	left   int32
	right  int32
	height int32
}

// arena owns every node of one tree. Slots are handed out by alloc and
// returned by release, released slots are reused before the slice grows.
type arena[T cmp.Ordered] struct {
	nodes []node[T]
	free  []int32
}

func (a *arena[T]) alloc(value T) int32 {
	fresh := node[T]{value: value, left: none, right: none, height: 1}

	if n := len(a.free); n > 0 {
		idx := a.free[n-1]
		a.free = a.free[:n-1]
		a.nodes[idx] = fresh
		return idx
	}

	if len(a.nodes) == math.MaxInt32 {
		panic("avltree: arena exhausted")
	}
	a.nodes = append(a.nodes, fresh)
	return int32(len(a.nodes) - 1)
}

func (a *arena[T]) release(idx int32) {
	if a.nodes[idx].height == 0 {
		panic("avltree: release of a free slot")
	}

	// drop the value so the arena doesn't pin it.
	a.nodes[idx] = node[T]{left: none, right: none}
	a.free = append(a.free, idx)
}

// reset forgets every slot. The backing array is kept for reuse but zeroed
// first so released values can be collected.
func (a *arena[T]) reset() {
	clear(a.nodes)
	a.nodes = a.nodes[:0]
	a.free = a.free[:0]
}

// Tree is a self-balancing binary search tree holding distinct values in
// ascending order. The zero value is not ready for use, create trees with New.
type Tree[T cmp.Ordered] struct {
	arena[T]

	root  int32
	count int
}

// New creates an initially empty tree.
func New[T cmp.Ordered]() *Tree[T] {
	return &Tree[T]{root: none}
}

// Size returns the number of values stored.
func (t *Tree[T]) Size() int {
	return t.count
}

// Empty reports whether the tree holds no value.
func (t *Tree[T]) Empty() bool {
	return t.count == 0
}

// Height returns the height of the root, 0 for an empty tree.
func (t *Tree[T]) Height() int {
	return int(t.height(t.root))
}

// Clear removes every value. Calling it on an empty tree is a no-op.
func (t *Tree[T]) Clear() {
	t.reset()
	t.root = none
	t.count = 0
}

// Search reports whether value is stored in the tree.
func (t *Tree[T]) Search(value T) bool {
	return t.find(value) != none
}

func (t *Tree[T]) find(value T) int32 {
	n := t.root
	for n != none {
		switch cur := t.nodes[n].value; {
		case value < cur:
			n = t.nodes[n].left
		case value > cur:
			n = t.nodes[n].right
		default:
			return n
		}
	}

	return none
}

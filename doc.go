// Package avltree implements an ordered, duplicate-free set of values kept in
// a height balanced (AVL) binary search tree, and a structural binary codec
// that stores the exact shape of the tree so it can be restored without
// replaying insertions.
//
// Nodes live in an arena owned by the tree and are addressed by int32
// handles; removed slots are recycled through a free list. A Tree is not safe
// for concurrent use, callers must serialize access to a single instance.
//
// The binary layout written by SaveBinary is:
//
//	[count: u32]
//	node  := 0                      empty subtree
//	       | 1 [value] node node    pre-order: value, left, right
//
// String values are encoded as [len: u32][bytes], fixed width numbers as
// their raw bytes. All integers use the byte order chosen by WithByteOrder
// (little-endian by default).
//
// Values are compared with the built-in ordering of cmp.Ordered types, so a
// comparison can neither fail nor panic; no rollback is attempted inside
// Insert or Remove. Floating point NaN has no place in a total order and must
// not be stored.
package avltree

package avltree

import "github.com/pkg/errors"

var (
	// ErrTruncated is returned when the stream ends before a field is complete.
	ErrTruncated = errors.New("binary stream truncated")
	// ErrInvalidMarker is returned when a node marker byte is neither 0 nor 1.
	ErrInvalidMarker = errors.New("invalid node marker")
	// ErrValueTooLarge is returned when a length-prefixed value exceeds the
	// configured maximum.
	ErrValueTooLarge = errors.New("value is oversize")
	// ErrTooManyNodes is returned when the tree can't be described by a 32 bit count.
	ErrTooManyNodes = errors.New("too many nodes to encode")
	// ErrCountMismatch is returned by strict loading when the stored count
	// differs from the number of decoded nodes.
	ErrCountMismatch = errors.New("node count mismatch")
	// ErrUnbalanced is returned by Check when an AVL invariant is broken.
	ErrUnbalanced = errors.New("tree invariant broken")
)

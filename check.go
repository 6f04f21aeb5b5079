package avltree

import "github.com/pkg/errors"

// Check walks the whole tree and verifies its invariants: every cached height
// equals 1 + max(child heights), every balance factor is within [-1, 1],
// values are strictly ascending in-order, no slot is reachable twice and the
// count matches the number of reachable nodes. It returns an error wrapping
// ErrUnbalanced describing the first violation.
func (t *Tree[T]) Check() error {
	seen := make([]bool, len(t.nodes))
	reachable := 0

	var walk func(n int32) (int32, error)
	walk = func(n int32) (int32, error) {
		if n == none {
			return 0, nil
		}
		if n < 0 || int(n) >= len(t.nodes) {
			return 0, errors.Wrapf(ErrUnbalanced, "handle %d out of arena", n)
		}
		if seen[n] {
			return 0, errors.Wrapf(ErrUnbalanced, "slot %d reachable twice", n)
		}
		seen[n] = true
		reachable++

		lh, err := walk(t.nodes[n].left)
		if err != nil {
			return 0, err
		}
		rh, err := walk(t.nodes[n].right)
		if err != nil {
			return 0, err
		}

		nd := t.nodes[n]
		if want := 1 + max(lh, rh); nd.height != want {
			return 0, errors.Wrapf(ErrUnbalanced, "node %v: cached height %d, want %d", nd.value, nd.height, want)
		}
		if bf := lh - rh; bf < -1 || bf > 1 {
			return 0, errors.Wrapf(ErrUnbalanced, "node %v: balance factor %d", nd.value, bf)
		}

		return nd.height, nil
	}

	if _, err := walk(t.root); err != nil {
		return err
	}
	if reachable != t.count {
		return errors.Wrapf(ErrUnbalanced, "count %d, reachable nodes %d", t.count, reachable)
	}
	if reachable+len(t.free) != len(t.nodes) {
		return errors.Wrapf(ErrUnbalanced, "arena leaks: %d live, %d free, %d slots",
			reachable, len(t.free), len(t.nodes))
	}

	var (
		err   error
		prev  T
		first = true
	)
	t.Each(func(value T) bool {
		if !first && !(prev < value) {
			err = errors.Wrapf(ErrUnbalanced, "order broken: %v before %v", prev, value)
			return false
		}
		prev, first = value, false
		return true
	})

	return err
}

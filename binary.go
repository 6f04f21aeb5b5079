package avltree

import (
	"bufio"
	"io"
	"math"

	"github.com/pkg/errors"
)

// SaveBinary writes the tree to w, keeping its exact shape: the count first,
// then every node in pre-order with explicit markers for empty subtrees.
func (t *Tree[T]) SaveBinary(w io.Writer, codec ValueCodec[T], opts ...Option) error {
	o := newOptions(opts)

	if uint64(t.count) > math.MaxUint32 {
		return errors.Wrapf(ErrTooManyNodes, "SaveBinary %d nodes", t.count)
	}

	bw, ok := w.(*bufio.Writer)
	if !ok {
		bw = bufio.NewWriter(w)
	}

	enc := newEncoder(bw, o)
	if err := enc.PutUint32(uint32(t.count)); err != nil {
		return errors.Wrap(err, "SaveBinary count")
	}
	if err := t.saveNode(enc, codec, t.root); err != nil {
		return errors.Wrap(err, "SaveBinary nodes")
	}

	return errors.Wrap(bw.Flush(), "SaveBinary flush")
}

func (t *Tree[T]) saveNode(enc *Encoder, codec ValueCodec[T], n int32) error {
	if n == none {
		return enc.PutUint8(markerEmpty)
	}

	if err := enc.PutUint8(markerNode); err != nil {
		return err
	}
	if err := codec.EncodeValue(enc, t.nodes[n].value); err != nil {
		return err
	}
	if err := t.saveNode(enc, codec, t.nodes[n].left); err != nil {
		return err
	}
	return t.saveNode(enc, codec, t.nodes[n].right)
}

// LoadBinary replaces the content of the tree with the one read from r.
//
// The stored shape is rebuilt as is, no rotation is replayed; heights are
// recomputed from the children. The stored count is trusted unless
// WithStrictCount is given, balance is trusted unless WithVerify is given.
//
// r is read exactly up to the end of the tree, so several trees may follow
// each other in one stream. On any error the tree is left empty.
func (t *Tree[T]) LoadBinary(r io.Reader, codec ValueCodec[T], opts ...Option) error {
	o := newOptions(opts)
	t.Clear()

	err := t.load(newDecoder(r, o), codec, o)
	if err != nil {
		t.Clear()
		o.logger.Log("LoadBinary failed, tree cleared: %v", err)
	}
	return err
}

func (t *Tree[T]) load(dec *Decoder, codec ValueCodec[T], o *options) error {
	count, err := dec.Uint32()
	if err != nil {
		return errors.Wrap(err, "LoadBinary count")
	}

	// nodes are decoded into a staging tree, which is only adopted once the
	// whole stream was read.
	staged := New[T]()
	staged.nodes = make([]node[T], 0, min(count, maxPreallocNodes))

	root, err := staged.loadNode(dec, codec)
	if err != nil {
		return errors.Wrap(err, "LoadBinary nodes")
	}

	if o.strictCount && uint32(len(staged.nodes)) != count {
		return errors.Wrapf(ErrCountMismatch, "LoadBinary stored %d, decoded %d", count, len(staged.nodes))
	}

	staged.root = root
	staged.count = int(count)
	*t = *staged

	if o.verify {
		if err = t.Check(); err != nil {
			return errors.Wrap(err, "LoadBinary verify")
		}
	}

	return nil
}

func (t *Tree[T]) loadNode(dec *Decoder, codec ValueCodec[T]) (int32, error) {
	marker, err := dec.Uint8()
	if err != nil {
		return none, err
	}

	switch marker {
	case markerEmpty:
		return none, nil
	case markerNode:
	default:
		return none, errors.Wrapf(ErrInvalidMarker, "marker %d", marker)
	}

	value, err := codec.DecodeValue(dec)
	if err != nil {
		return none, err
	}

	n := t.alloc(value)

	left, err := t.loadNode(dec, codec)
	if err != nil {
		return none, err
	}
	t.nodes[n].left = left

	right, err := t.loadNode(dec, codec)
	if err != nil {
		return none, err
	}
	t.nodes[n].right = right

	t.updateHeight(n)
	return n, nil
}

package avltree

import (
	"math"

	"github.com/pkg/errors"
)

var (
	_ ValueCodec[string]  = StringCodec[string]{}
	_ ValueCodec[int64]   = FixedCodec[int64]{}
	_ ValueCodec[float64] = FixedCodec[float64]{}
)

// ValueCodec encodes a single node value. The codec is picked by the caller
// for the tree's value type: StringCodec for text, FixedCodec for fixed width
// numbers.
type ValueCodec[T any] interface {
	EncodeValue(enc *Encoder, value T) error
	DecodeValue(dec *Decoder) (T, error)
}

// Fixed is the set of numeric types with a fixed binary size.
type Fixed interface {
	~int8 | ~int16 | ~int32 | ~int64 |
		~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// StringCodec writes text values as [len: u32][raw bytes].
type StringCodec[T ~string] struct{}

func (StringCodec[T]) EncodeValue(enc *Encoder, value T) error {
	if uint64(len(value)) > math.MaxUint32 {
		return errors.Wrapf(ErrValueTooLarge, "%d bytes", len(value))
	}
	if err := enc.PutUint32(uint32(len(value))); err != nil {
		return err
	}
	return enc.PutString(string(value))
}

func (StringCodec[T]) DecodeValue(dec *Decoder) (T, error) {
	n, err := dec.Uint32()
	if err != nil {
		return "", err
	}

	data, err := dec.Bytes(n)
	if err != nil {
		return "", err
	}
	return T(data), nil
}

// FixedCodec writes numeric values as their raw bytes.
type FixedCodec[T Fixed] struct{}

func (FixedCodec[T]) EncodeValue(enc *Encoder, value T) error {
	return enc.PutFixed(value)
}

func (FixedCodec[T]) DecodeValue(dec *Decoder) (T, error) {
	var value T
	err := dec.Fixed(&value)
	return value, err
}

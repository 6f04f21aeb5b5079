package avltree

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

const (
	markerEmpty = uint8(0)
	markerNode  = uint8(1)
)

// Encoder is the write side of the binary stream as seen by a ValueCodec.
type Encoder struct {
	w     io.Writer
	order binary.ByteOrder
	buf   [4]byte
}

// NewEncoder creates an Encoder writing to w. Only the byte order option
// applies to encoding.
func NewEncoder(w io.Writer, opts ...Option) *Encoder {
	return newEncoder(w, newOptions(opts))
}

func newEncoder(w io.Writer, o *options) *Encoder {
	return &Encoder{w: w, order: o.order}
}

// Order returns the byte order of the stream.
func (e *Encoder) Order() binary.ByteOrder { return e.order }

// PutUint8 writes a single byte.
func (e *Encoder) PutUint8(v uint8) error {
	e.buf[0] = v
	return e.write(e.buf[:1], "uint8")
}

// PutUint32 writes v as 4 bytes.
func (e *Encoder) PutUint32(v uint32) error {
	e.order.PutUint32(e.buf[:4], v)
	return e.write(e.buf[:4], "uint32")
}

// PutString writes the raw bytes of s, without any length or terminator.
func (e *Encoder) PutString(s string) error {
	if _, err := io.WriteString(e.w, s); err != nil {
		return errors.Wrap(err, "write string")
	}
	return nil
}

// PutFixed writes the raw bytes of a fixed-size value.
func (e *Encoder) PutFixed(v any) error {
	if err := binary.Write(e.w, e.order, v); err != nil {
		return errors.Wrap(err, "write fixed")
	}
	return nil
}

func (e *Encoder) write(p []byte, what string) error {
	if _, err := e.w.Write(p); err != nil {
		return errors.Wrapf(err, "write %s", what)
	}
	return nil
}

// Decoder is the read side of the binary stream as seen by a ValueCodec.
// A short read of any field is reported as ErrTruncated.
type Decoder struct {
	r             io.Reader
	order         binary.ByteOrder
	maxValueBytes uint32
	buf           [4]byte
}

// NewDecoder creates a Decoder reading from r with the byte order and value
// size limit taken from opts.
func NewDecoder(r io.Reader, opts ...Option) *Decoder {
	return newDecoder(r, newOptions(opts))
}

func newDecoder(r io.Reader, o *options) *Decoder {
	return &Decoder{r: r, order: o.order, maxValueBytes: o.maxValueBytes}
}

// Order returns the byte order of the stream.
func (d *Decoder) Order() binary.ByteOrder { return d.order }

// Uint8 reads a single byte.
func (d *Decoder) Uint8() (uint8, error) {
	if err := d.readFull(d.buf[:1], "uint8"); err != nil {
		return 0, err
	}
	return d.buf[0], nil
}

// Uint32 reads 4 bytes.
func (d *Decoder) Uint32() (uint32, error) {
	if err := d.readFull(d.buf[:4], "uint32"); err != nil {
		return 0, err
	}
	return d.order.Uint32(d.buf[:4]), nil
}

// Bytes reads exactly n bytes. n is checked against the maximum value size
// before anything is allocated.
func (d *Decoder) Bytes(n uint32) ([]byte, error) {
	if n > d.maxValueBytes {
		return nil, errors.Wrapf(ErrValueTooLarge, "%d bytes, limit %d", n, d.maxValueBytes)
	}

	p := make([]byte, n)
	if err := d.readFull(p, "bytes"); err != nil {
		return nil, err
	}
	return p, nil
}

// Fixed reads a fixed-size value into the pointer v.
func (d *Decoder) Fixed(v any) error {
	return d.mapErr(binary.Read(d.r, d.order, v), "fixed")
}

func (d *Decoder) readFull(p []byte, what string) error {
	_, err := io.ReadFull(d.r, p)
	return d.mapErr(err, what)
}

func (d *Decoder) mapErr(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return errors.Wrapf(ErrTruncated, "read %s", what)
	default:
		return errors.Wrapf(err, "read %s", what)
	}
}

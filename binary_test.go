package avltree

import (
	"bytes"
	"encoding/binary"
	"strconv"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encode[T Fixed | ~string](t *testing.T, tree *Tree[T], codec ValueCodec[T], opts ...Option) []byte {
	t.Helper()

	buf := bytes.NewBuffer(nil)
	require.NoError(t, tree.SaveBinary(buf, codec, opts...))
	return buf.Bytes()
}

func Test_SaveBinary_fixed(t *testing.T) {
	tree := New[int32]()
	tree.Insert(2)
	tree.Insert(1)
	tree.Insert(3)

	got := encode(t, tree, FixedCodec[int32]{})
	want := []byte{
		0x03, 0x00, 0x00, 0x00, // count
		0x01, 0x02, 0x00, 0x00, 0x00, // root 2
		0x01, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00, // left 1, no children
		0x01, 0x03, 0x00, 0x00, 0x00, 0x00, 0x00, // right 3, no children
	}
	assert.Equal(t, want, got)
}

func Test_SaveBinary_bigEndian(t *testing.T) {
	tree := New[uint16]()
	tree.Insert(0x0102)

	got := encode(t, tree, FixedCodec[uint16]{}, WithByteOrder(binary.BigEndian))
	want := []byte{
		0x00, 0x00, 0x00, 0x01,
		0x01, 0x01, 0x02, 0x00, 0x00,
	}
	assert.Equal(t, want, got)

	loaded := New[uint16]()
	require.NoError(t, loaded.LoadBinary(bytes.NewReader(got), FixedCodec[uint16]{}, WithByteOrder(binary.BigEndian)))
	assert.Equal(t, []uint16{0x0102}, loaded.InOrder())
}

func Test_SaveBinary_string(t *testing.T) {
	tree := New[string]()
	tree.Insert("b")
	tree.Insert("a")

	got := encode(t, tree, StringCodec[string]{})
	want := []byte{
		0x02, 0x00, 0x00, 0x00,
		0x01, 0x01, 0x00, 0x00, 0x00, 'b',
		0x01, 0x01, 0x00, 0x00, 0x00, 'a', 0x00, 0x00,
		0x00,
	}
	assert.Equal(t, want, got)
}

func Test_SaveBinary_empty(t *testing.T) {
	got := encode(t, New[string](), StringCodec[string]{})
	assert.Equal(t, []byte{0, 0, 0, 0, 0}, got)

	tree := New[string]()
	tree.Insert("stale")
	require.NoError(t, tree.LoadBinary(bytes.NewReader(got), StringCodec[string]{}))
	assert.True(t, tree.Empty())
	assert.Equal(t, 0, tree.Height())
}

func Test_Binary_roundTrip(t *testing.T) {
	tests := []struct {
		name   string
		values []string
		remove []string
	}{
		{name: "empty"},
		{name: "single", values: []string{"only"}},
		{name: "ascending", values: []string{"1", "2", "3", "4", "5", "6", "7", "8"}},
		{
			name:   "after removals",
			values: []string{"m", "c", "x", "a", "e", "p", "z", "b", "d"},
			remove: []string{"c", "z"},
		},
		{name: "empty and unicode values", values: []string{"", "привет", "日本", "a b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := New[string]()
			for _, v := range tt.values {
				tree.Insert(v)
			}
			for _, v := range tt.remove {
				tree.Remove(v)
			}

			data := encode(t, tree, StringCodec[string]{})

			loaded := New[string]()
			require.NoError(t, loaded.LoadBinary(bytes.NewReader(data), StringCodec[string]{}, WithStrictCount(), WithVerify()))

			assert.Equal(t, tree.Size(), loaded.Size())
			assert.Equal(t, tree.Height(), loaded.Height())
			assert.Equal(t, tree.InOrder(), loaded.InOrder())
			// same shape, same bytes.
			assert.Equal(t, data, encode(t, loaded, StringCodec[string]{}))
			assert.NoError(t, loaded.Check())
		})
	}
}

func Test_Binary_roundTripFloat(t *testing.T) {
	tree := New[float64]()
	for i := 0; i < 100; i++ {
		tree.Insert(float64(i) / 3)
	}

	data := encode(t, tree, FixedCodec[float64]{})
	loaded := New[float64]()
	require.NoError(t, loaded.LoadBinary(bytes.NewReader(data), FixedCodec[float64]{}))

	assert.Equal(t, tree.InOrder(), loaded.InOrder())
	assert.Equal(t, tree.Height(), loaded.Height())

	// the loaded tree keeps working.
	assert.True(t, loaded.Remove(1))
	assert.True(t, loaded.Insert(-1))
	assert.NoError(t, loaded.Check())
}

func Test_LoadBinary_truncated(t *testing.T) {
	tree := New[string]()
	for _, v := range []string{"delta", "bravo", "foxtrot", "alpha", "charlie", "echo", "golf"} {
		tree.Insert(v)
	}
	require.Equal(t, 7, tree.Size())

	data := encode(t, tree, StringCodec[string]{})

	loaded := New[string]()
	loaded.Insert("previous")
	err := loaded.LoadBinary(bytes.NewReader(data[:len(data)-3]), StringCodec[string]{})

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTruncated))
	assert.True(t, loaded.Empty())
	assert.Equal(t, 0, loaded.Height())
	assert.Empty(t, loaded.InOrder())
	assert.Empty(t, loaded.nodes)
	assert.NoError(t, loaded.Check())
}

func Test_LoadBinary_errors(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		opts    []Option
		wantErr error
	}{
		{
			name:    "no count",
			data:    []byte{0x01, 0x00},
			wantErr: ErrTruncated,
		},
		{
			name:    "no marker",
			data:    []byte{0x01, 0x00, 0x00, 0x00},
			wantErr: ErrTruncated,
		},
		{
			name:    "invalid marker",
			data:    []byte{0x01, 0x00, 0x00, 0x00, 0x02},
			wantErr: ErrInvalidMarker,
		},
		{
			name:    "invalid child marker",
			data:    []byte{0x01, 0x00, 0x00, 0x00, 0x01, 0x01, 0x00, 0x00, 0x00, 'a', 0xff},
			wantErr: ErrInvalidMarker,
		},
		{
			name:    "short string",
			data:    []byte{0x01, 0x00, 0x00, 0x00, 0x01, 0x05, 0x00, 0x00, 0x00, 'a', 'b'},
			wantErr: ErrTruncated,
		},
		{
			name:    "oversize string",
			data:    []byte{0x01, 0x00, 0x00, 0x00, 0x01, 0xff, 0xff, 0xff, 0xff},
			wantErr: ErrValueTooLarge,
		},
		{
			name:    "limit from option",
			data:    []byte{0x01, 0x00, 0x00, 0x00, 0x01, 0x03, 0x00, 0x00, 0x00, 'a', 'b', 'c', 0x00, 0x00},
			opts:    []Option{WithMaxValueBytes(2)},
			wantErr: ErrValueTooLarge,
		},
		{
			name:    "count mismatch",
			data:    []byte{0x05, 0x00, 0x00, 0x00, 0x01, 0x01, 0x00, 0x00, 0x00, 'a', 0x00, 0x00},
			opts:    []Option{WithStrictCount()},
			wantErr: ErrCountMismatch,
		},
		{
			name: "unbalanced with verify",
			data: []byte{
				0x03, 0x00, 0x00, 0x00,
				0x01, 0x01, 0x00, 0x00, 0x00, 'a', 0x00,
				0x01, 0x01, 0x00, 0x00, 0x00, 'b', 0x00,
				0x01, 0x01, 0x00, 0x00, 0x00, 'c', 0x00, 0x00,
			},
			opts:    []Option{WithVerify()},
			wantErr: ErrUnbalanced,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := New[string]()
			tree.Insert("x")

			err := tree.LoadBinary(bytes.NewReader(tt.data), StringCodec[string]{}, tt.opts...)
			require.Error(t, err)
			assert.Truef(t, errors.Is(err, tt.wantErr), "got %v, want %v", err, tt.wantErr)
			assert.True(t, tree.Empty())
			assert.Equal(t, 0, tree.Height())
		})
	}
}

func Test_LoadBinary_trustedShape(t *testing.T) {
	// a right leaning chain is accepted as is when verification is off.
	data := []byte{
		0x03, 0x00, 0x00, 0x00,
		0x01, 0x01, 0x00, 0x00, 0x00, 'a', 0x00,
		0x01, 0x01, 0x00, 0x00, 0x00, 'b', 0x00,
		0x01, 0x01, 0x00, 0x00, 0x00, 'c', 0x00, 0x00,
	}

	tree := New[string]()
	require.NoError(t, tree.LoadBinary(bytes.NewReader(data), StringCodec[string]{}))

	assert.Equal(t, 3, tree.Size())
	assert.Equal(t, 3, tree.Height())
	assert.Equal(t, []string{"a", "b", "c"}, tree.InOrder())
	assert.Error(t, tree.Check())
}

func Test_LoadBinary_trustedCount(t *testing.T) {
	data := []byte{0x05, 0x00, 0x00, 0x00, 0x01, 0x01, 0x00, 0x00, 0x00, 'a', 0x00, 0x00}

	tree := New[string]()
	require.NoError(t, tree.LoadBinary(bytes.NewReader(data), StringCodec[string]{}))
	assert.Equal(t, 5, tree.Size())
}

func Test_LoadBinary_consecutiveTrees(t *testing.T) {
	first, second := New[string](), New[string]()
	for i := 0; i < 20; i++ {
		first.Insert("first-" + strconv.Itoa(i))
		second.Insert("second-" + strconv.Itoa(i))
	}

	buf := bytes.NewBuffer(nil)
	require.NoError(t, first.SaveBinary(buf, StringCodec[string]{}))
	require.NoError(t, second.SaveBinary(buf, StringCodec[string]{}))

	r := bytes.NewReader(buf.Bytes())
	a, b := New[string](), New[string]()
	require.NoError(t, a.LoadBinary(r, StringCodec[string]{}))
	require.NoError(t, b.LoadBinary(r, StringCodec[string]{}))

	assert.Equal(t, first.InOrder(), a.InOrder())
	assert.Equal(t, second.InOrder(), b.InOrder())
	assert.Equal(t, 0, r.Len())
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) {
	return 0, errors.New("disk full")
}

func Test_SaveBinary_writeError(t *testing.T) {
	tree := New[int64]()
	for i := int64(0); i < 10_000; i++ {
		tree.Insert(i)
	}

	err := tree.SaveBinary(failingWriter{}, FixedCodec[int64]{})
	assert.Error(t, err)
}

type celsius int16

func Test_FixedCodec_namedType(t *testing.T) {
	tree := New[celsius]()
	tree.Insert(-40)
	tree.Insert(100)

	buf := bytes.NewBuffer(nil)
	require.NoError(t, tree.SaveBinary(buf, FixedCodec[celsius]{}))

	loaded := New[celsius]()
	require.NoError(t, loaded.LoadBinary(buf, FixedCodec[celsius]{}))
	assert.Equal(t, []celsius{-40, 100}, loaded.InOrder())
}

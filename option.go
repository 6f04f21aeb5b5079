package avltree

import "encoding/binary"

const (
	defaultMaxValueBytes = uint32(16 << 20) // 16MB

	// initial arena size is capped so a corrupted count can't force a huge
	// allocation before any node was decoded.
	maxPreallocNodes = 1 << 16
)

type options struct {
	// The byte order of every integer in the stream. The default is little-endian.
	order binary.ByteOrder

	// The maximum number of bytes of a single length-prefixed value.
	// The default value is 16MB.
	maxValueBytes uint32

	// strictCount cross-checks the stored count against the number of
	// decoded nodes instead of trusting it.
	strictCount bool

	// verify runs Check on a freshly loaded tree.
	verify bool

	logger Logger
}

func defaultOptions() *options {
	return &options{
		order:         binary.LittleEndian,
		maxValueBytes: defaultMaxValueBytes,
		strictCount:   false,
		verify:        false,
		logger:        NopLogger(),
	}
}

func newOptions(opts []Option) *options {
	o := defaultOptions()
	for _, opt := range opts {
		opt.apply(o)
	}
	return o
}

// Option configures SaveBinary and LoadBinary.
type Option interface {
	apply(*options)
}

type funcOption struct {
	fn func(*options)
}

func (funcOpt funcOption) apply(o *options) {
	funcOpt.fn(o)
}

func newFuncOption(fn func(*options)) *funcOption {
	return &funcOption{
		fn: fn,
	}
}

// WithByteOrder set the byte order of integers in the stream. Both sides of
// a round trip must use the same order. A nil order is ignored.
func WithByteOrder(order binary.ByteOrder) Option {
	return newFuncOption(func(o *options) {
		if order != nil {
			o.order = order
		}
	})
}

// WithMaxValueBytes set the maximum size of a single length-prefixed value
// accepted while decoding.
func WithMaxValueBytes(maxValueBytes uint32) Option {
	return newFuncOption(func(o *options) {
		o.maxValueBytes = maxValueBytes
	})
}

// WithStrictCount makes LoadBinary reject a stream whose stored count differs
// from the number of nodes it actually describes.
func WithStrictCount() Option {
	return newFuncOption(func(o *options) {
		o.strictCount = true
	})
}

// WithVerify makes LoadBinary run Check on the decoded tree. By default the
// stored shape is trusted as balanced.
func WithVerify() Option {
	return newFuncOption(func(o *options) {
		o.verify = true
	})
}

// WithLogger set the logger used to report load failures.
func WithLogger(logger Logger) Option {
	return newFuncOption(func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	})
}

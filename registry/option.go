package registry

import (
	"github.com/spf13/afero"

	"github.com/yeqown/avltree"
)

const (
	maxNameBytes = uint32(1) << 10 // 1KB
)

type options struct {
	// The file system to access. The default file system is implemented by os package.
	fs FileSystem

	// compress the snapshot payload with lz4. Loading detects it from the
	// snapshot header, whatever this flag says.
	compress bool

	// options passed to every tree encoding and decoding.
	treeOptions []avltree.Option

	logger avltree.Logger
}

func defaultOptions() *options {
	return &options{
		fs:          afero.NewOsFs(),
		compress:    false,
		treeOptions: nil,
		logger:      avltree.StdLogger("registry: "),
	}
}

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

// WithFileSystem set the file system to access.
func WithFileSystem(fs FileSystem) Option {
	return newFuncOption(func(o *options) {
		o.fs = fs
	})
}

// WithCompression set whether snapshots are written lz4 compressed.
func WithCompression(compress bool) Option {
	return newFuncOption(func(o *options) {
		o.compress = compress
	})
}

// WithTreeOptions set the options used to encode and decode every tree,
// e.g. avltree.WithVerify().
func WithTreeOptions(opts ...avltree.Option) Option {
	return newFuncOption(func(o *options) {
		o.treeOptions = append(o.treeOptions, opts...)
	})
}

// WithLogger set the logger, avltree.NopLogger() silences the registry.
func WithLogger(logger avltree.Logger) Option {
	return newFuncOption(func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	})
}

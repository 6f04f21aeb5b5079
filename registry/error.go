package registry

import "github.com/pkg/errors"

var (
	ErrTreeNotFound     = errors.New("tree not found")
	ErrTreeExists       = errors.New("tree already exists")
	ErrInvalidName      = errors.New("invalid tree name")
	ErrBadSnapshot      = errors.New("bad snapshot")
	ErrChecksumMismatch = errors.New("snapshot checksum mismatch")
)

package registry

import (
	"github.com/spf13/afero"
)

// FileSystem is the interface that wraps the basic methods for a file
// system, so that the default os file system can be replaced by other
// implementations, e.g. afero.NewMemMapFs() in tests.
type FileSystem = afero.Fs

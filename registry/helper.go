package registry

import (
	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

func ensurePath(fs FileSystem, path string) error {
	exists, err := afero.DirExists(fs, path)
	if err != nil {
		return err
	}

	if exists {
		return nil
	}

	return fs.MkdirAll(path, 0755)
}

// backupFile rename filename to filename.bak, it will return a restore function
// and a clean function. The restore function will rename filename.bak to filename,
// and the clean function will remove filename.bak.
func backupFile(fs FileSystem, filename string) (restoreFn func() error, cleanFn func() error, err error) {
	oldName := filename
	backupName := filename + ".bak"

	if err = fs.Rename(filename, backupName); err != nil {
		return nil, nil, errors.Wrap(err, "backupFile rename failed")
	}

	restoreFn = func() error {
		return fs.Rename(backupName, oldName)
	}

	cleanFn = func() error {
		return fs.Remove(backupName)
	}

	return restoreFn, cleanFn, nil
}

package registry

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

// ExportText writes the values of the tree called name to path in ascending
// order, separated by a single space. Values containing white space don't
// survive ImportText.
func (reg *Registry) ExportText(name, path string) error {
	buf := bytes.NewBuffer(nil)
	err := reg.View(name, func(tree *Tree) error {
		first := true
		tree.Each(func(value string) bool {
			if !first {
				buf.WriteByte(' ')
			}
			buf.WriteString(value)
			first = false
			return true
		})
		return nil
	})
	if err != nil {
		return err
	}
	buf.WriteByte('\n')

	if err = ensurePath(reg.opt.fs, filepath.Dir(path)); err != nil {
		return errors.Wrap(err, "ExportText ensure path")
	}
	if err = afero.WriteFile(reg.opt.fs, path, buf.Bytes(), 0644); err != nil {
		return errors.Wrap(err, "ExportText write")
	}
	return nil
}

// ImportText clears the tree called name, creating it when missing, and
// inserts every white space separated token read from path. It returns the
// number of values added.
func (reg *Registry) ImportText(name, path string) (int, error) {
	data, err := afero.ReadFile(reg.opt.fs, path)
	if err != nil {
		return 0, errors.Wrapf(err, "ImportText read %s", path)
	}

	added := 0
	err = reg.Do(name, func(tree *Tree) error {
		tree.Clear()
		for _, token := range strings.Fields(string(data)) {
			if tree.Insert(token) {
				added++
			}
		}
		return nil
	})
	return added, err
}

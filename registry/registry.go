// Package registry keeps a set of named string trees and persists all of them
// into a single snapshot file.
//
// A Registry is safe for concurrent use: one lock guards the whole set of
// trees, every access to a tree goes through Do or View.
package registry

import (
	"sort"
	"sync"

	"github.com/pkg/errors"

	"github.com/yeqown/avltree"
)

// Tree is the tree type held by a Registry.
type Tree = avltree.Tree[string]

// Info describes one tree of the registry.
type Info struct {
	Name   string
	Size   int
	Height int
}

// Registry is a map of named trees.
type Registry struct {
	opt *options

	lock  sync.RWMutex
	trees map[string]*Tree
}

// New creates an empty registry.
func New(opts ...Option) *Registry {
	o := defaultOptions()
	for _, opt := range opts {
		opt.apply(o)
	}

	return &Registry{
		opt:   o,
		lock:  sync.RWMutex{},
		trees: make(map[string]*Tree, 8),
	}
}

func validName(name string) error {
	if name == "" || uint32(len(name)) > maxNameBytes {
		return errors.Wrapf(ErrInvalidName, "%q", name)
	}
	return nil
}

// Create adds an empty tree called name.
func (reg *Registry) Create(name string) error {
	if err := validName(name); err != nil {
		return err
	}

	reg.lock.Lock()
	defer reg.lock.Unlock()

	if _, ok := reg.trees[name]; ok {
		return errors.Wrapf(ErrTreeExists, "%q", name)
	}
	reg.trees[name] = avltree.New[string]()
	return nil
}

// Delete drops the tree called name.
func (reg *Registry) Delete(name string) error {
	reg.lock.Lock()
	defer reg.lock.Unlock()

	if _, ok := reg.trees[name]; !ok {
		return errors.Wrapf(ErrTreeNotFound, "%q", name)
	}
	delete(reg.trees, name)
	return nil
}

// Has reports whether a tree called name exists.
func (reg *Registry) Has(name string) bool {
	reg.lock.RLock()
	defer reg.lock.RUnlock()

	_, ok := reg.trees[name]
	return ok
}

// Len returns the number of trees.
func (reg *Registry) Len() int {
	reg.lock.RLock()
	defer reg.lock.RUnlock()

	return len(reg.trees)
}

// Names returns the tree names in ascending order.
func (reg *Registry) Names() []string {
	reg.lock.RLock()
	defer reg.lock.RUnlock()

	return reg.sortedNames()
}

func (reg *Registry) sortedNames() []string {
	names := make([]string, 0, len(reg.trees))
	for name := range reg.trees {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// List describes every tree, ordered by name.
func (reg *Registry) List() []Info {
	reg.lock.RLock()
	defer reg.lock.RUnlock()

	infos := make([]Info, 0, len(reg.trees))
	for _, name := range reg.sortedNames() {
		tree := reg.trees[name]
		infos = append(infos, Info{Name: name, Size: tree.Size(), Height: tree.Height()})
	}
	return infos
}

// Do runs fn on the tree called name while holding the write lock. The tree
// is created on first use.
func (reg *Registry) Do(name string, fn func(tree *Tree) error) error {
	if err := validName(name); err != nil {
		return err
	}

	reg.lock.Lock()
	defer reg.lock.Unlock()

	tree, ok := reg.trees[name]
	if !ok {
		tree = avltree.New[string]()
		reg.trees[name] = tree
	}
	return fn(tree)
}

// View runs fn on the tree called name while holding the read lock. fn must
// not modify the tree.
func (reg *Registry) View(name string, fn func(tree *Tree) error) error {
	reg.lock.RLock()
	defer reg.lock.RUnlock()

	tree, ok := reg.trees[name]
	if !ok {
		return errors.Wrapf(ErrTreeNotFound, "%q", name)
	}
	return fn(tree)
}

// replace swaps the whole set of trees.
func (reg *Registry) replace(trees map[string]*Tree) {
	reg.lock.Lock()
	defer reg.lock.Unlock()

	reg.trees = trees
}

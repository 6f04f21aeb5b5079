package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	cli "github.com/urfave/cli/v2"

	"github.com/yeqown/avltree"
	"github.com/yeqown/avltree/registry"
)

// avl-ctl is a command line tool to manage named AVL trees kept in a
// snapshot file.
// Usage:
// $ avl-ctl [global flags] sub-command [args...]
// It has sub-commands:
// - create NAME / delete NAME / list
// - insert NAME VALUE... / remove NAME VALUE... / search NAME VALUE
// - size NAME / height NAME / print NAME / clear NAME
// - export NAME FILE / import NAME FILE
// - save FILE / load FILE
//
// Global flags:
// - path: path to the snapshot, default is ./containers.bin
// - compress: write the snapshot lz4 compressed
// - verbose: log snapshot activity

func main() {
	app := newCliApp()
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "avl-ctl failed: %v\n", err)
		os.Exit(1)
	}
}

func newCliApp(options ...registry.Option) *cli.App {
	app := cli.NewApp()
	app.Name = "avl-ctl"
	app.Usage = "named AVL trees control tool"
	app.Version = "0.1.0"
	app.Commands = []*cli.Command{
		newCreateCommand(),
		newDeleteCommand(),
		newListCommand(),
		newInsertCommand(),
		newRemoveCommand(),
		newSearchCommand(),
		newSizeCommand(),
		newHeightCommand(),
		newPrintCommand(),
		newClearCommand(),
		newExportCommand(),
		newImportCommand(),
		newSaveCommand(),
		newLoadCommand(),
	}
	app.Before = func(c *cli.Context) error {
		opts := []registry.Option{
			registry.WithCompression(c.Bool("compress")),
			registry.WithLogger(avltree.NopLogger()),
		}
		if c.Bool("verbose") {
			opts = append(opts, registry.WithLogger(avltree.StdLogger("avl-ctl: ")))
		}
		opts = append(opts, options...)

		s := &session{
			reg:  registry.New(opts...),
			path: c.String("path"),
		}
		if err := s.reg.LoadFile(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}

		c.Context = contextWithSession(c.Context, s)
		return nil
	}
	app.After = func(c *cli.Context) error {
		v := c.Context.Value(registryContextKey{})
		if v == nil {
			return nil
		}

		s := v.(*session)
		if !s.dirty {
			return nil
		}
		return s.reg.SaveFile(s.path)
	}
	// global flags
	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "path",
			Aliases: []string{"p"},
			Usage:   "path to the snapshot file",
			Value:   "./containers.bin",
		},
		&cli.BoolFlag{
			Name:  "compress",
			Usage: "write the snapshot lz4 compressed",
		},
		&cli.BoolFlag{
			Name:  "verbose",
			Usage: "log snapshot activity",
		},
	}

	return app
}

// args checks the number of positional arguments, at least n and at most
// max (max < 0 means unbounded).
func args(c *cli.Context, n, max int) ([]string, error) {
	got := c.Args().Slice()
	if len(got) < n || (max >= 0 && len(got) > max) {
		return nil, errors.Errorf("usage: %s %s", c.Command.Name, c.Command.ArgsUsage)
	}
	return got, nil
}

func newCreateCommand() *cli.Command {
	return &cli.Command{
		Name:      "create",
		Usage:     "create an empty tree",
		ArgsUsage: "NAME",
		Action: func(c *cli.Context) error {
			a, err := args(c, 1, 1)
			if err != nil {
				return err
			}

			s := sessionFromContext(c.Context)
			if err = s.reg.Create(a[0]); err != nil {
				return err
			}
			s.dirty = true
			fmt.Fprintf(c.App.Writer, "created tree %s\n", a[0])
			return nil
		},
	}
}

func newDeleteCommand() *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "delete a tree",
		ArgsUsage: "NAME",
		Action: func(c *cli.Context) error {
			a, err := args(c, 1, 1)
			if err != nil {
				return err
			}

			s := sessionFromContext(c.Context)
			if err = s.reg.Delete(a[0]); err != nil {
				return err
			}
			s.dirty = true
			fmt.Fprintf(c.App.Writer, "deleted tree %s\n", a[0])
			return nil
		},
	}
}

func newListCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "list all trees",
		Action: func(c *cli.Context) error {
			infos := sessionFromContext(c.Context).reg.List()
			if len(infos) == 0 {
				fmt.Fprintln(c.App.Writer, "(no trees)")
				return nil
			}
			for _, info := range infos {
				fmt.Fprintf(c.App.Writer, "%s (size: %d, height: %d)\n", info.Name, info.Size, info.Height)
			}
			return nil
		},
	}
}

func newInsertCommand() *cli.Command {
	return &cli.Command{
		Name:      "insert",
		Usage:     "insert values into a tree, the tree is created if missing",
		ArgsUsage: "NAME VALUE...",
		Action: func(c *cli.Context) error {
			a, err := args(c, 2, -1)
			if err != nil {
				return err
			}

			s := sessionFromContext(c.Context)
			added := 0
			err = s.reg.Do(a[0], func(tree *registry.Tree) error {
				for _, v := range a[1:] {
					if tree.Insert(v) {
						added++
					}
				}
				return nil
			})
			if err != nil {
				return err
			}
			s.dirty = true
			fmt.Fprintf(c.App.Writer, "inserted %d of %d values\n", added, len(a)-1)
			return nil
		},
	}
}

func newRemoveCommand() *cli.Command {
	return &cli.Command{
		Name:      "remove",
		Usage:     "remove values from a tree",
		ArgsUsage: "NAME VALUE...",
		Action: func(c *cli.Context) error {
			a, err := args(c, 2, -1)
			if err != nil {
				return err
			}

			s := sessionFromContext(c.Context)
			removed := 0
			err = s.reg.Do(a[0], func(tree *registry.Tree) error {
				for _, v := range a[1:] {
					if tree.Remove(v) {
						removed++
					}
				}
				return nil
			})
			if err != nil {
				return err
			}
			s.dirty = s.dirty || removed > 0
			fmt.Fprintf(c.App.Writer, "removed %d of %d values\n", removed, len(a)-1)
			return nil
		},
	}
}

// newViewCommand builds a read-only command on one tree.
func newViewCommand(name, usage, argsUsage string, nargs int, fn func(c *cli.Context, tree *registry.Tree, a []string)) *cli.Command {
	return &cli.Command{
		Name:      name,
		Usage:     usage,
		ArgsUsage: argsUsage,
		Action: func(c *cli.Context) error {
			a, err := args(c, nargs, nargs)
			if err != nil {
				return err
			}

			return sessionFromContext(c.Context).reg.View(a[0], func(tree *registry.Tree) error {
				fn(c, tree, a[1:])
				return nil
			})
		},
	}
}

func newSearchCommand() *cli.Command {
	return newViewCommand("search", "search a value", "NAME VALUE", 2,
		func(c *cli.Context, tree *registry.Tree, a []string) {
			if tree.Search(a[0]) {
				fmt.Fprintln(c.App.Writer, "found")
				return
			}
			fmt.Fprintln(c.App.Writer, "not found")
		})
}

func newSizeCommand() *cli.Command {
	return newViewCommand("size", "print the number of values", "NAME", 1,
		func(c *cli.Context, tree *registry.Tree, _ []string) {
			fmt.Fprintf(c.App.Writer, "size: %d\n", tree.Size())
		})
}

func newHeightCommand() *cli.Command {
	return newViewCommand("height", "print the height of the tree", "NAME", 1,
		func(c *cli.Context, tree *registry.Tree, _ []string) {
			fmt.Fprintf(c.App.Writer, "height: %d\n", tree.Height())
		})
}

func newPrintCommand() *cli.Command {
	return newViewCommand("print", "print the values in ascending order", "NAME", 1,
		func(c *cli.Context, tree *registry.Tree, _ []string) {
			fmt.Fprintln(c.App.Writer, tree.String())
		})
}

func newClearCommand() *cli.Command {
	return &cli.Command{
		Name:      "clear",
		Usage:     "remove every value of a tree",
		ArgsUsage: "NAME",
		Action: func(c *cli.Context) error {
			a, err := args(c, 1, 1)
			if err != nil {
				return err
			}

			s := sessionFromContext(c.Context)
			if !s.reg.Has(a[0]) {
				return errors.Wrapf(registry.ErrTreeNotFound, "%q", a[0])
			}
			err = s.reg.Do(a[0], func(tree *registry.Tree) error {
				tree.Clear()
				return nil
			})
			if err != nil {
				return err
			}
			s.dirty = true
			fmt.Fprintf(c.App.Writer, "cleared tree %s\n", a[0])
			return nil
		},
	}
}

func newExportCommand() *cli.Command {
	return &cli.Command{
		Name:      "export",
		Usage:     "write the values of a tree to a text file",
		ArgsUsage: "NAME FILE",
		Action: func(c *cli.Context) error {
			a, err := args(c, 2, 2)
			if err != nil {
				return err
			}

			if err = sessionFromContext(c.Context).reg.ExportText(a[0], a[1]); err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "exported %s to %s\n", a[0], a[1])
			return nil
		},
	}
}

func newImportCommand() *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "replace the values of a tree with the words of a text file",
		ArgsUsage: "NAME FILE",
		Action: func(c *cli.Context) error {
			a, err := args(c, 2, 2)
			if err != nil {
				return err
			}

			s := sessionFromContext(c.Context)
			added, err := s.reg.ImportText(a[0], a[1])
			if err != nil {
				return err
			}
			s.dirty = true
			fmt.Fprintf(c.App.Writer, "imported %d values into %s\n", added, a[0])
			return nil
		},
	}
}

func newSaveCommand() *cli.Command {
	return &cli.Command{
		Name:      "save",
		Usage:     "write every tree to another snapshot file",
		ArgsUsage: "FILE",
		Action: func(c *cli.Context) error {
			a, err := args(c, 1, 1)
			if err != nil {
				return err
			}

			if err = sessionFromContext(c.Context).reg.SaveFile(a[0]); err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "saved to %s\n", a[0])
			return nil
		},
	}
}

func newLoadCommand() *cli.Command {
	return &cli.Command{
		Name:      "load",
		Usage:     "replace every tree with the content of another snapshot file",
		ArgsUsage: "FILE",
		Action: func(c *cli.Context) error {
			a, err := args(c, 1, 1)
			if err != nil {
				return err
			}

			s := sessionFromContext(c.Context)
			if err = s.reg.LoadFile(a[0]); err != nil {
				return err
			}
			s.dirty = true
			fmt.Fprintf(c.App.Writer, "loaded %d trees from %s\n", s.reg.Len(), a[0])
			return nil
		},
	}
}

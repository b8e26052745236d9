package scaffold

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"

	"github.com/spf13/afero"
)

//go:embed sets
var setsFS embed.FS

// DefaultSet is the set written when none is named.
const DefaultSet = "pom-components"

// builtinFs exposes the embedded sets directory as a read-only afero.Fs
// rooted at the set names.
func builtinFs() (afero.Fs, error) {
	sub, err := fs.Sub(setsFS, "sets")
	if err != nil {
		return nil, fmt.Errorf("opening embedded sets: %w", err)
	}
	return afero.FromIOFS{FS: sub}, nil
}

// BuiltinNames lists the embedded set names in lexical order.
func BuiltinNames() ([]string, error) {
	entries, err := fs.ReadDir(setsFS, "sets")
	if err != nil {
		return nil, fmt.Errorf("reading embedded sets: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// Builtin loads an embedded set by name.
func Builtin(name string) (*Set, error) {
	src, err := builtinFs()
	if err != nil {
		return nil, err
	}
	if _, err := fs.Stat(setsFS, "sets/"+name); err != nil {
		return nil, fmt.Errorf("set %q not found: %w", name, err)
	}
	return LoadSet(src, name)
}

// FromDir loads a set from a directory on disk.
func FromDir(dir string) (*Set, error) {
	return LoadSet(afero.NewBasePathFs(afero.NewOsFs(), dir), ".")
}

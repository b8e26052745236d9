package inject

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gobwas/glob"
	"github.com/spf13/afero"
)

// Discover walks root and returns the regular files whose root-relative,
// slash-separated path matches pattern and none of excludes. Patterns use
// '/' as separator: "*" stays within one directory, "**" crosses them.
// Excluded directories are not descended into. Symlinks to regular files are
// included under the link's own path. Results are in lexical order.
func Discover(fsys afero.Fs, root, pattern string, excludes []string) ([]string, error) {
	include, err := glob.Compile(pattern, '/')
	if err != nil {
		return nil, fmt.Errorf("compiling pattern %q: %w", pattern, err)
	}

	skip := make([]glob.Glob, 0, len(excludes))
	for _, ex := range excludes {
		g, err := glob.Compile(ex, '/')
		if err != nil {
			return nil, fmt.Errorf("compiling exclude %q: %w", ex, err)
		}
		skip = append(skip, g)
	}

	excluded := func(rel string) bool {
		for _, g := range skip {
			if g.Match(rel) {
				return true
			}
		}
		return false
	}

	var files []string
	err = afero.Walk(fsys, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if rel == "." {
			return nil
		}

		if info.IsDir() {
			// "dir/**" matches "dir/" since ** may be empty.
			if excluded(rel) || excluded(rel+"/") {
				return filepath.SkipDir
			}
			return nil
		}
		mode := info.Mode()
		if mode&os.ModeSymlink != 0 {
			// Walk does not follow links; pages that link to a regular file
			// are still targets. Dangling links are skipped.
			target, err := fsys.Stat(path)
			if err != nil {
				return nil
			}
			mode = target.Mode()
		}
		if !mode.IsRegular() {
			return nil
		}
		if include.Match(rel) && !excluded(rel) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}

	return files, nil
}

package inject

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/afero"
)

// ErrAnchorNotFound is returned by Apply when the rule requires an anchor
// and the file has none.
var ErrAnchorNotFound = errors.New("anchor not found")

// Status is the per-file outcome of an injection or removal.
type Status string

const (
	StatusModified       Status = "modified"
	StatusAlreadyPresent Status = "already-present"
	StatusNotFound       Status = "not-found"
	StatusRemoved        Status = "removed"
	StatusAbsent         Status = "absent"
)

// Outcome records what happened to one file.
type Outcome struct {
	Path        string
	Status      Status
	AnchorFound bool
}

// Apply injects rule.Snippet into the file at path.
//
// If the file already contains rule.Marker nothing is written. Otherwise the
// first occurrence of rule.Anchor is replaced with Snippet+Anchor and the file
// is rewritten in place with its original permissions. When the anchor is
// missing the file is still rewritten unchanged and reported as modified with
// AnchorFound false, unless rule.RequireAnchor is set.
func Apply(fsys afero.Fs, path string, rule Rule) (Outcome, error) {
	out := Outcome{Path: path}

	info, err := fsys.Stat(path)
	if err != nil {
		return out, fmt.Errorf("stat %s: %w", path, err)
	}
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return out, fmt.Errorf("reading %s: %w", path, err)
	}
	content := string(data)

	if strings.Contains(content, rule.Marker) {
		out.Status = StatusAlreadyPresent
		out.AnchorFound = strings.Contains(content, rule.Anchor)
		return out, nil
	}

	out.AnchorFound = strings.Contains(content, rule.Anchor)
	if !out.AnchorFound && rule.RequireAnchor {
		return out, fmt.Errorf("%s: %w: %q", path, ErrAnchorNotFound, rule.Anchor)
	}

	updated := strings.Replace(content, rule.Anchor, rule.Snippet+rule.Anchor, 1)
	if err := afero.WriteFile(fsys, path, []byte(updated), info.Mode().Perm()); err != nil {
		return out, fmt.Errorf("writing %s: %w", path, err)
	}

	out.Status = StatusModified
	return out, nil
}

// Remove deletes the first occurrence of rule.Snippet from the file at path.
// If the snippet is not present the file is left alone.
func Remove(fsys afero.Fs, path string, rule Rule) (Outcome, error) {
	out := Outcome{Path: path}

	info, err := fsys.Stat(path)
	if err != nil {
		return out, fmt.Errorf("stat %s: %w", path, err)
	}
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return out, fmt.Errorf("reading %s: %w", path, err)
	}
	content := string(data)
	out.AnchorFound = strings.Contains(content, rule.Anchor)

	if !strings.Contains(content, rule.Snippet) {
		out.Status = StatusAbsent
		return out, nil
	}

	updated := strings.Replace(content, rule.Snippet, "", 1)
	if err := afero.WriteFile(fsys, path, []byte(updated), info.Mode().Perm()); err != nil {
		return out, fmt.Errorf("writing %s: %w", path, err)
	}

	out.Status = StatusRemoved
	return out, nil
}

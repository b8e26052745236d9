package manifest

import (
	"fmt"
	"path"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/spf13/afero"
	"go.yaml.in/yaml/v3"
)

// Parse decodes manifest bytes without validating them.
func Parse(data []byte) (*SetManifest, error) {
	var m SetManifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}
	return &m, nil
}

// Load reads the manifest at p from fsys, validates it and returns it.
// Validation issues are joined into the returned error.
func Load(fsys afero.Fs, p string) (*SetManifest, error) {
	data, err := afero.ReadFile(fsys, p)
	if err != nil {
		return nil, fmt.Errorf("reading manifest %s: %w", p, err)
	}

	result, err := Validate(data)
	if err != nil {
		return nil, fmt.Errorf("validating %s: %w", p, err)
	}
	if !result.Valid {
		msgs := make([]string, 0, len(result.Issues))
		for _, issue := range result.Issues {
			msgs = append(msgs, issue.String())
		}
		return nil, fmt.Errorf("manifest %s is invalid: %s", p, strings.Join(msgs, "; "))
	}

	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p, err)
	}
	return m, nil
}

// ParseVersion strips a leading "v" and parses the set version.
func ParseVersion(version string) (*semver.Version, error) {
	return semver.NewVersion(strings.TrimPrefix(version, "v"))
}

// checkRules reports the constraints the schema cannot express: a semver
// version, destination paths that stay inside the output directory, and no
// path written twice.
func checkRules(m *SetManifest) []ValidationIssue {
	var issues []ValidationIssue

	if _, err := ParseVersion(m.Version); err != nil {
		issues = append(issues, ValidationIssue{
			Path:    "/version",
			Message: fmt.Sprintf("%q is not a semantic version", m.Version),
			Keyword: "semver",
		})
	}

	seen := make(map[string]bool, len(m.Files))
	for i, f := range m.Files {
		clean := path.Clean(f.Path)
		if clean == ".." || strings.HasPrefix(clean, "../") {
			issues = append(issues, ValidationIssue{
				Path:    fmt.Sprintf("/files/%d/path", i),
				Message: fmt.Sprintf("%q escapes the output directory", f.Path),
				Keyword: "path",
			})
		}
		if seen[clean] {
			issues = append(issues, ValidationIssue{
				Path:    fmt.Sprintf("/files/%d/path", i),
				Message: fmt.Sprintf("%q is listed more than once", f.Path),
				Keyword: "unique",
			})
		}
		seen[clean] = true
	}

	return issues
}

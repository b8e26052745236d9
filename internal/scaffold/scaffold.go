package scaffold

import (
	"bytes"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"github.com/agentx-labs/splice/internal/manifest"
	"github.com/spf13/afero"
)

// ScaffoldData holds the variables available to .tmpl sources.
type ScaffoldData struct {
	Set     string // e.g., "pom-components"
	Version string // set version, e.g., "1.0.0"
	Path    string // destination path relative to the output dir
	Year    int
}

// Set is a loaded, validated scaffold set.
type Set struct {
	Manifest *manifest.SetManifest

	src afero.Fs
	dir string
}

// Result holds the outcome of a scaffold generation.
type Result struct {
	Set       string
	Version   string
	OutputDir string
	Files     []string // destination paths in manifest order
}

// LoadSet reads and validates the manifest at dir/set.yaml in src and checks
// that every listed source exists.
func LoadSet(src afero.Fs, dir string) (*Set, error) {
	m, err := manifest.Load(src, path.Join(dir, manifest.FileName))
	if err != nil {
		return nil, err
	}

	for _, f := range m.Files {
		p := path.Join(dir, f.Source)
		ok, err := afero.Exists(src, p)
		if err != nil {
			return nil, fmt.Errorf("checking source %s: %w", p, err)
		}
		if !ok {
			return nil, fmt.Errorf("set %s: source %s not found", m.Name, f.Source)
		}
	}

	return &Set{Manifest: m, src: src, dir: dir}, nil
}

// DefaultOutputDir returns the manifest base, or "." when the set has none.
func (s *Set) DefaultOutputDir() string {
	if s.Manifest.Base == "" {
		return "."
	}
	return filepath.FromSlash(s.Manifest.Base)
}

// render returns the bytes to write for one entry. Sources ending in .tmpl
// are executed as text/template; everything else is copied verbatim.
func (s *Set) render(entry manifest.FileEntry) ([]byte, error) {
	srcPath := path.Join(s.dir, entry.Source)
	raw, err := afero.ReadFile(s.src, srcPath)
	if err != nil {
		return nil, fmt.Errorf("reading source %s: %w", srcPath, err)
	}
	if !strings.HasSuffix(entry.Source, ".tmpl") {
		return raw, nil
	}

	tmpl, err := template.New(entry.Source).Parse(string(raw))
	if err != nil {
		return nil, fmt.Errorf("parsing template %s: %w", entry.Source, err)
	}
	data := ScaffoldData{
		Set:     s.Manifest.Name,
		Version: s.Manifest.Version,
		Path:    entry.Path,
		Year:    time.Now().Year(),
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("executing template %s: %w", entry.Source, err)
	}
	return buf.Bytes(), nil
}

// Generate writes every file of set under outputDir on dst, in manifest order.
// Existing files are truncated and overwritten without checks. A failure stops
// the run; files written before it stay on disk.
func Generate(dst afero.Fs, set *Set, outputDir string, w io.Writer) (*Result, error) {
	if w == nil {
		w = io.Discard
	}

	result := &Result{
		Set:       set.Manifest.Name,
		Version:   set.Manifest.Version,
		OutputDir: outputDir,
	}

	for _, entry := range set.Manifest.Files {
		content, err := set.render(entry)
		if err != nil {
			return result, err
		}

		outPath := filepath.Join(outputDir, filepath.FromSlash(entry.Path))
		if err := dst.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
			return result, fmt.Errorf("creating directory for %s: %w", outPath, err)
		}
		if err := afero.WriteFile(dst, outPath, content, 0o644); err != nil {
			return result, fmt.Errorf("writing %s: %w", outPath, err)
		}

		fmt.Fprintf(w, "  [ OK ] Wrote %s\n", outPath)
		result.Files = append(result.Files, entry.Path)
	}

	return result, nil
}

package manifest

// FileName is the manifest file expected at the root of every set.
const FileName = "set.yaml"

// SetManifest describes a scaffold set.
type SetManifest struct {
	Name        string      `yaml:"name" json:"name"`
	Version     string      `yaml:"version" json:"version"`
	Description string      `yaml:"description,omitempty" json:"description,omitempty"`
	Base        string      `yaml:"base,omitempty" json:"base,omitempty"` // default output dir
	Files       []FileEntry `yaml:"files" json:"files"`
}

// FileEntry maps a destination path, relative to the output directory, to a
// source file relative to the set directory.
type FileEntry struct {
	Path   string `yaml:"path" json:"path"`
	Source string `yaml:"source" json:"source"`
}

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/agentx-labs/splice/internal/branding"
	"github.com/agentx-labs/splice/internal/inject"
	"github.com/agentx-labs/splice/internal/scaffold"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Keys understood by the config file, SPLICE_* env vars and `config get/set`.
const (
	KeyInjectRoot          = "inject.root"
	KeyInjectPattern       = "inject.pattern"
	KeyInjectExclude       = "inject.exclude"
	KeyInjectScript        = "inject.script"
	KeyInjectSnippet       = "inject.snippet"
	KeyInjectMarker        = "inject.marker"
	KeyInjectAnchor        = "inject.anchor"
	KeyInjectRequireAnchor = "inject.require_anchor"
	KeyScaffoldSet         = "scaffold.set"
	KeyScaffoldOutputDir   = "scaffold.output_dir"
	KeyLogLevel            = "log.level"
	KeyLogFile             = "log.file"
)

// Inject holds the resolved injector settings.
type Inject struct {
	Root          string
	Pattern       string
	Exclude       []string
	Script        string
	Snippet       string
	Marker        string // empty means "use Script"
	Anchor        string
	RequireAnchor bool
}

// Rule builds the injection rule described by the settings.
func (c Inject) Rule() (inject.Rule, error) {
	r, err := inject.NewRule(c.Script, c.Snippet, c.Anchor)
	if err != nil {
		return inject.Rule{}, err
	}
	if c.Marker != "" {
		r.Marker = c.Marker
	}
	r.RequireAnchor = c.RequireAnchor
	return r, nil
}

// Scaffold holds the resolved scaffolder settings.
type Scaffold struct {
	Set       string
	OutputDir string // empty means "use the set's base"
}

// Log holds the resolved logging settings.
type Log struct {
	Level string
	File  string
}

// Dir returns the path to the user config directory (~/.splice/).
func Dir() string {
	if v := os.Getenv(branding.EnvVar("HOME")); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the user config file (~/.splice/config.yaml).
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// ProjectFilePath returns the project config path inside dir.
func ProjectFilePath(dir string) string {
	return filepath.Join(dir, branding.ProjectFile())
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyInjectRoot, ".")
	v.SetDefault(KeyInjectPattern, inject.DefaultPattern)
	v.SetDefault(KeyInjectExclude, []string{inject.DefaultExclude})
	v.SetDefault(KeyInjectScript, inject.DefaultScript)
	v.SetDefault(KeyInjectSnippet, inject.DefaultSnippetTemplate)
	v.SetDefault(KeyInjectMarker, "")
	v.SetDefault(KeyInjectAnchor, inject.DefaultAnchor)
	v.SetDefault(KeyInjectRequireAnchor, false)
	v.SetDefault(KeyScaffoldSet, scaffold.DefaultSet)
	v.SetDefault(KeyScaffoldOutputDir, "")
	v.SetDefault(KeyLogLevel, "warn")
	v.SetDefault(KeyLogFile, "")
}

// Load resets the global Viper instance and reads defaults, the user config,
// the project config in projectDir (if present) and the environment.
// Missing files are not an error; malformed ones are.
func Load(projectDir string) error {
	viper.Reset()
	setDefaults(viper.GetViper())

	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	for _, p := range []string{FilePath(), ProjectFilePath(projectDir)} {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		viper.SetConfigFile(p)
		viper.SetConfigType(fileType)
		if err := viper.MergeInConfig(); err != nil {
			return fmt.Errorf("reading config %s: %w", p, err)
		}
	}

	return nil
}

// Get returns a config value by key. Returns empty string if not set.
func Get(key string) string {
	return viper.GetString(key)
}

// Set writes a key-value pair to the user config file only, leaving project
// values out of it, and updates the running configuration.
func Set(key, value string) error {
	if err := EnsureDir(); err != nil {
		return err
	}

	configFile := FilePath()

	user := viper.New()
	user.SetConfigFile(configFile)
	user.SetConfigType(fileType)
	if _, err := os.Stat(configFile); err == nil {
		if err := user.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file %s: %w", configFile, err)
		}
	}

	user.Set(key, value)
	if err := user.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	viper.Set(key, value)
	return nil
}

// InjectSettings returns the injector settings from the loaded configuration.
func InjectSettings() Inject {
	return Inject{
		Root:          viper.GetString(KeyInjectRoot),
		Pattern:       viper.GetString(KeyInjectPattern),
		Exclude:       viper.GetStringSlice(KeyInjectExclude),
		Script:        viper.GetString(KeyInjectScript),
		Snippet:       viper.GetString(KeyInjectSnippet),
		Marker:        viper.GetString(KeyInjectMarker),
		Anchor:        viper.GetString(KeyInjectAnchor),
		RequireAnchor: viper.GetBool(KeyInjectRequireAnchor),
	}
}

// ScaffoldSettings returns the scaffolder settings from the loaded configuration.
func ScaffoldSettings() Scaffold {
	return Scaffold{
		Set:       viper.GetString(KeyScaffoldSet),
		OutputDir: viper.GetString(KeyScaffoldOutputDir),
	}
}

// LogSettings returns the logging settings from the loaded configuration.
func LogSettings() Log {
	return Log{
		Level: viper.GetString(KeyLogLevel),
		File:  viper.GetString(KeyLogFile),
	}
}

// BindFlag makes a changed command-line flag override key.
func BindFlag(key string, flag *pflag.Flag) error {
	return viper.BindPFlag(key, flag)
}

// Package config loads filekit settings from defaults, a YAML config file,
// FILEKIT_* environment variables and command-line flags, in increasing
// order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes the environment variables overriding config keys,
// e.g. FILEKIT_MERGE_WORKERS.
const EnvPrefix = "FILEKIT"

// LocalConfigFile is looked up in the working directory when no config file
// exists in the user's config directory.
const LocalConfigFile = "filekit.yaml"

// Settings is the complete filekit configuration.
type Settings struct {
	Debug   bool            `mapstructure:"debug" yaml:"debug"`
	Merge   MergeSettings   `mapstructure:"merge" yaml:"merge"`
	Convert ConvertSettings `mapstructure:"convert" yaml:"convert"`
}

// MergeSettings configures the merge command.
type MergeSettings struct {
	// Source is the directory scanned for text files.
	Source string `mapstructure:"source" yaml:"source"`

	// Target and Filename locate the merged file unless Output is set.
	Target   string `mapstructure:"target" yaml:"target"`
	Filename string `mapstructure:"filename" yaml:"filename"`
	Output   string `mapstructure:"output" yaml:"output,omitempty"`

	Extensions []string `mapstructure:"extensions" yaml:"extensions"`
	Workers    int      `mapstructure:"workers" yaml:"workers"`

	// Exclude holds gitignore-style patterns relative to Source.
	Exclude []string `mapstructure:"exclude" yaml:"exclude,omitempty"`

	// Tree, when set, receives a directory listing of the merged files.
	Tree string `mapstructure:"tree" yaml:"tree,omitempty"`
}

// OutputPath returns Output, or Filename inside Target.
func (m MergeSettings) OutputPath() string {
	if m.Output != "" {
		return m.Output
	}
	return filepath.Join(m.Target, m.Filename)
}

// ConvertSettings configures the convert command.
type ConvertSettings struct {
	Source           string   `mapstructure:"source" yaml:"source"`
	Target           string   `mapstructure:"target" yaml:"target"`
	Extensions       []string `mapstructure:"extensions" yaml:"extensions"`
	Workers          int      `mapstructure:"workers" yaml:"workers"`
	TitleFromHeading bool     `mapstructure:"title_from_heading" yaml:"title_from_heading"`
}

// Defaults returns the built-in settings.
func Defaults() Settings {
	return Settings{
		Merge: MergeSettings{
			Source:     "~/tmp/text/source",
			Target:     "~/tmp/text/target",
			Filename:   "code.txt",
			Extensions: []string{".java", ".md", ".xml", ".txt", ".properties", ".json"},
			Workers:    1,
		},
		Convert: ConvertSettings{
			Source:     "~/tmp/blog/wiki",
			Target:     "~/tmp/blog/hexo",
			Extensions: []string{".md"},
			Workers:    1,
		},
	}
}

// SetDefaults registers every key with its default value. Keys unknown to
// viper are not picked up from the environment by Unmarshal, so this must run
// before FromViper.
func SetDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("debug", d.Debug)

	v.SetDefault("merge.source", d.Merge.Source)
	v.SetDefault("merge.target", d.Merge.Target)
	v.SetDefault("merge.filename", d.Merge.Filename)
	v.SetDefault("merge.output", d.Merge.Output)
	v.SetDefault("merge.extensions", d.Merge.Extensions)
	v.SetDefault("merge.workers", d.Merge.Workers)
	v.SetDefault("merge.exclude", []string{})
	v.SetDefault("merge.tree", d.Merge.Tree)

	v.SetDefault("convert.source", d.Convert.Source)
	v.SetDefault("convert.target", d.Convert.Target)
	v.SetDefault("convert.extensions", d.Convert.Extensions)
	v.SetDefault("convert.workers", d.Convert.Workers)
	v.SetDefault("convert.title_from_heading", d.Convert.TitleFromHeading)
}

// Load prepares v with defaults and environment overrides, then reads the
// config file at path. With an empty path the default locations are searched
// and a missing file is not an error. It returns the file actually read, or "".
func Load(v *viper.Viper, path string) (string, error) {
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if path == "" {
		path = findConfigFile()
		if path == "" {
			return "", nil
		}
	} else if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	return v.ConfigFileUsed(), nil
}

// findConfigFile returns the first existing default config file, or "".
func findConfigFile() string {
	candidates := []string{LocalConfigFile}
	if p, err := DefaultConfigPath(); err == nil {
		candidates = append([]string{p}, candidates...)
	}
	for _, p := range candidates {
		if info, err := os.Stat(p); err == nil && info.Mode().IsRegular() {
			return p
		}
	}
	return ""
}

// FromViper decodes the effective settings held by v.
func FromViper(v *viper.Viper) (Settings, error) {
	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return s, nil
}

// DefaultConfigPath returns $HOME/.config/filekit/config.yaml.
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate home directory: %w", err)
	}
	return filepath.Join(home, ".config", "filekit", "config.yaml"), nil
}

// Marshal renders s as YAML.
func Marshal(s Settings) ([]byte, error) {
	data, err := yaml.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

// ErrConfigExists is returned by Save when the file exists and overwrite is false.
var ErrConfigExists = errors.New("config file already exists")

// Save writes s as YAML to path, creating the parent directory.
func Save(s Settings, path string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%w: %s", ErrConfigExists, path)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to check config file: %w", err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := Marshal(s)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

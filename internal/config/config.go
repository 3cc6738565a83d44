// Package config handles pubsnip settings from config files and the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/matsen/pubsnippet/internal/citation"
	"github.com/matsen/pubsnippet/internal/render"
	"gopkg.in/yaml.v3"
)

// Config holds rendering settings. Zero values mean "not set" when layering.
type Config struct {
	MaxAuthors *int   `yaml:"max_authors,omitempty" json:"max_authors,omitempty" validate:"omitempty,gte=0"`
	EscapeHTML *bool  `yaml:"escape_html,omitempty" json:"escape_html,omitempty"`
	FontFamily string `yaml:"font_family,omitempty" json:"font_family,omitempty" validate:"omitempty,excludesall=<>\"&"`
	HeaderFile string `yaml:"header_file,omitempty" json:"header_file,omitempty" validate:"omitempty,file"`
	FooterFile string `yaml:"footer_file,omitempty" json:"footer_file,omitempty" validate:"omitempty,file"`
	OutputFile string `yaml:"output_file,omitempty" json:"output_file,omitempty"`
	Table      string `yaml:"table,omitempty" json:"table,omitempty" validate:"omitempty,printascii"`
}

const (
	// ProjectFile is the per-project config file looked up from the working directory.
	ProjectFile = ".pubsnip.yml"

	// DefaultOutputFile is the download file name used when none is configured.
	DefaultOutputFile = "scholarly_publications.html"
)

// Environment variables that override file settings.
const (
	EnvMaxAuthors = "PUBSNIP_MAX_AUTHORS"
	EnvEscapeHTML = "PUBSNIP_ESCAPE_HTML"
	EnvFontFamily = "PUBSNIP_FONT_FAMILY"
	EnvOutputFile = "PUBSNIP_OUTPUT"
)

// Keys lists the settable configuration keys.
var Keys = []string{"max-authors", "escape-html", "font-family", "header-file", "footer-file", "output-file", "table"}

var validate = validator.New()

// Validate checks field constraints. Header and footer files must exist.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Merge overlays every field set in other onto c.
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}
	if other.MaxAuthors != nil {
		c.MaxAuthors = other.MaxAuthors
	}
	if other.EscapeHTML != nil {
		c.EscapeHTML = other.EscapeHTML
	}
	if other.FontFamily != "" {
		c.FontFamily = other.FontFamily
	}
	if other.HeaderFile != "" {
		c.HeaderFile = other.HeaderFile
	}
	if other.FooterFile != "" {
		c.FooterFile = other.FooterFile
	}
	if other.OutputFile != "" {
		c.OutputFile = other.OutputFile
	}
	if other.Table != "" {
		c.Table = other.Table
	}
}

// RenderOptions converts the settings to pipeline options, filling defaults.
// Header and footer files are not read here.
func (c *Config) RenderOptions() render.Options {
	opts := render.DefaultOptions()
	if c.MaxAuthors != nil {
		opts.Citation.MaxAuthors = *c.MaxAuthors
	}
	if c.EscapeHTML != nil {
		opts.Citation.EscapeHTML = *c.EscapeHTML
	}
	if c.FontFamily != "" {
		opts.Layout.FontFamily = c.FontFamily
	}
	return opts
}

// Output returns the configured download file name or the default.
func (c *Config) Output() string {
	if c.OutputFile == "" {
		return DefaultOutputFile
	}
	return c.OutputFile
}

// Defaults returns a config with every field set to its default.
func Defaults() *Config {
	maxAuthors := citation.DefaultMaxAuthors
	escape := false
	return &Config{
		MaxAuthors: &maxAuthors,
		EscapeHTML: &escape,
		FontFamily: render.DefaultFontFamily,
		OutputFile: DefaultOutputFile,
	}
}

// LoadFile reads a YAML config file. A missing file yields an empty config.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	// Relative template paths are resolved against the config file.
	dir := filepath.Dir(path)
	cfg.HeaderFile = resolvePath(dir, cfg.HeaderFile)
	cfg.FooterFile = resolvePath(dir, cfg.FooterFile)
	return &cfg, nil
}

// Save writes the config as YAML, creating parent directories.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

func resolvePath(dir, p string) string {
	if p == "" {
		return ""
	}
	p = ExpandTilde(p)
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}

// FindProjectConfig walks up from start looking for a project config file.
// Returns "" if none is found.
func FindProjectConfig(start string) (string, error) {
	abs, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	for {
		candidate := filepath.Join(abs, ProjectFile)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}

		parent := filepath.Dir(abs)
		if parent == abs {
			return "", nil
		}
		abs = parent
	}
}

// FromEnv reads overrides from the environment.
func FromEnv() (*Config, error) {
	var cfg Config

	if v := os.Getenv(EnvMaxAuthors); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("%s: invalid integer %q", EnvMaxAuthors, v)
		}
		cfg.MaxAuthors = &n
	}
	if v := os.Getenv(EnvEscapeHTML); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("%s: invalid boolean %q", EnvEscapeHTML, v)
		}
		cfg.EscapeHTML = &b
	}
	cfg.FontFamily = os.Getenv(EnvFontFamily)
	cfg.OutputFile = os.Getenv(EnvOutputFile)

	return &cfg, nil
}

// Load builds the effective config for a working directory:
// defaults < global file < project file < environment. Flags are applied by
// the caller on top of the result.
func Load(workDir string) (*Config, error) {
	cfg := Defaults()

	global, err := LoadGlobalConfig()
	if err != nil {
		return nil, err
	}
	cfg.Merge(global)

	projectPath, err := FindProjectConfig(workDir)
	if err != nil {
		return nil, err
	}
	if projectPath != "" {
		project, err := LoadFile(projectPath)
		if err != nil {
			return nil, err
		}
		cfg.Merge(project)
	}

	env, err := FromEnv()
	if err != nil {
		return nil, err
	}
	cfg.Merge(env)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Set assigns a value by key (max-authors, escape_html, ...).
func (c *Config) Set(key, value string) error {
	switch NormalizeKey(key) {
	case "max-authors":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("max-authors: invalid integer %q", value)
		}
		c.MaxAuthors = &n
	case "escape-html":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("escape-html: invalid boolean %q", value)
		}
		c.EscapeHTML = &b
	case "font-family":
		c.FontFamily = value
	case "header-file":
		c.HeaderFile = ExpandTilde(value)
	case "footer-file":
		c.FooterFile = ExpandTilde(value)
	case "output-file":
		c.OutputFile = value
	case "table":
		c.Table = value
	default:
		return fmt.Errorf("unknown configuration key: %s (valid: %s)", key, strings.Join(Keys, ", "))
	}
	return c.Validate()
}

// Get returns the value of a key as text. Unset values are "".
func (c *Config) Get(key string) (string, error) {
	switch NormalizeKey(key) {
	case "max-authors":
		if c.MaxAuthors == nil {
			return "", nil
		}
		return strconv.Itoa(*c.MaxAuthors), nil
	case "escape-html":
		if c.EscapeHTML == nil {
			return "", nil
		}
		return strconv.FormatBool(*c.EscapeHTML), nil
	case "font-family":
		return c.FontFamily, nil
	case "header-file":
		return c.HeaderFile, nil
	case "footer-file":
		return c.FooterFile, nil
	case "output-file":
		return c.OutputFile, nil
	case "table":
		return c.Table, nil
	default:
		return "", fmt.Errorf("unknown configuration key: %s (valid: %s)", key, strings.Join(Keys, ", "))
	}
}

// NormalizeKey converts key formats (max-authors, max_authors, MAX_AUTHORS) to
// a consistent format.
func NormalizeKey(key string) string {
	key = strings.ToLower(key)
	key = strings.ReplaceAll(key, "_", "-")
	return key
}

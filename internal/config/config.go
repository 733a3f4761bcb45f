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

// EnvPrefix is prepended to upper-cased keys to form environment variable
// names, e.g. templates-dir -> SKILLGEN_TEMPLATES_DIR.
const EnvPrefix = "SKILLGEN"

// Config holds the CLI configuration values.
type Config struct {
	TemplatesDir        string `yaml:"templates-dir,omitempty"`
	ProjectTemplatesDir string `yaml:"project-templates-dir,omitempty"`
	Out                 string `yaml:"out,omitempty"`
	Template            string `yaml:"template,omitempty"`
}

// ValidKeys lists the allowed config keys.
var ValidKeys = []string{"templates-dir", "project-templates-dir", "out", "template"}

// Defaults applied before the config file. An empty templates-dir means
// <config dir>/templates.
var Defaults = map[string]string{
	"templates-dir":         "",
	"project-templates-dir": filepath.Join(".skillgen", "templates"),
	"out":                   filepath.Join(".claude", "skills"),
	"template":              "",
}

func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, ".config", "skillgen"), nil
}

// Path returns the location of the config file.
func Path() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads the config file from ~/.config/skillgen/config.yaml.
// Returns an empty Config if the file doesn't exist.
func Load() (*Config, error) {
	p, err := Path()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes the config to ~/.config/skillgen/config.yaml.
func Save(cfg *Config) error {
	p, err := Path()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(p, data, 0o644)
}

// Set updates a single key in the config.
func Set(key, value string) error {
	cfg, err := Load()
	if err != nil {
		return err
	}
	switch key {
	case "templates-dir":
		cfg.TemplatesDir = value
	case "project-templates-dir":
		cfg.ProjectTemplatesDir = value
	case "out":
		cfg.Out = value
	case "template":
		cfg.Template = value
	default:
		return fmt.Errorf("unknown config key %q (valid keys: %s)", key, strings.Join(ValidKeys, ", "))
	}
	return Save(cfg)
}

// List returns the values stored in the config file for display.
func List() (map[string]string, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}
	return map[string]string{
		"templates-dir":         cfg.TemplatesDir,
		"project-templates-dir": cfg.ProjectTemplatesDir,
		"out":                   cfg.Out,
		"template":              cfg.Template,
	}, nil
}

// Reset removes the config file.
func Reset() error {
	p, err := Path()
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing config: %w", err)
	}
	return nil
}

// Flags are the values given on the command line. Empty fields are unset.
type Flags struct {
	TemplatesDir        string
	ProjectTemplatesDir string
	Out                 string
	Template            string
}

// Resolved holds the final settings after merging all sources.
type Resolved struct {
	TemplatesDir        string `mapstructure:"templates-dir"`
	ProjectTemplatesDir string `mapstructure:"project-templates-dir"`
	Out                 string `mapstructure:"out"`
	Template            string `mapstructure:"template"`
}

// Resolve merges settings in priority order:
// CLI flags > env vars > config file > defaults.
func Resolve(cli Flags) (*Resolved, error) {
	v := viper.New()
	for _, key := range ValidKeys {
		v.SetDefault(key, Defaults[key])
	}

	p, err := Path()
	if err != nil {
		return nil, err
	}
	v.SetConfigFile(p)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	// Env vars override config file
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	// CLI flags override env vars
	for key, val := range map[string]string{
		"templates-dir":         cli.TemplatesDir,
		"project-templates-dir": cli.ProjectTemplatesDir,
		"out":                   cli.Out,
		"template":              cli.Template,
	} {
		if val != "" {
			v.Set(key, val)
		}
	}

	var r Resolved
	if err := v.Unmarshal(&r); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	if r.TemplatesDir == "" {
		dir, err := configDir()
		if err != nil {
			return nil, err
		}
		r.TemplatesDir = filepath.Join(dir, "templates")
	}
	if r.TemplatesDir, err = expandHome(r.TemplatesDir); err != nil {
		return nil, err
	}
	return &r, nil
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

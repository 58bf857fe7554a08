package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// DirName is the per-project and per-user configuration directory.
const DirName = ".skeleton"

// Loader provides configuration loading capabilities.
type Loader interface {
	// Load loads configuration from files and environment variables.
	Load() (*Config, error)
}

type loader struct {
	rootDir    string
	homeDir    string
	configFile string
}

// LoaderOption configures a Loader.
type LoaderOption func(*loader)

// WithConfigFile reads path instead of the project config file. A missing
// explicit file is an error.
func WithConfigFile(path string) LoaderOption {
	return func(l *loader) {
		l.configFile = path
	}
}

// WithHomeDir overrides where the user config is looked up. An empty string
// skips the user config.
func WithHomeDir(dir string) LoaderOption {
	return func(l *loader) {
		l.homeDir = dir
	}
}

// NewLoader creates a new configuration loader for the given root directory.
func NewLoader(rootDir string, opts ...LoaderOption) Loader {
	l := &loader{rootDir: rootDir}
	if home, err := os.UserHomeDir(); err == nil {
		l.homeDir = home
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load merges defaults, the user file, the project (or explicit) file, and
// SKELETON_* environment variables, then validates the result.
func (l *loader) Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	// Replace . with _ in env var names (e.g., SKELETON_EXTRACT_FULL_DOCS)
	v.SetEnvPrefix("SKELETON")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	bindEnv(v)

	setDefaults(v)

	if l.homeDir != "" {
		if err := mergeFile(v, filepath.Join(l.homeDir, DirName, "config.yml"), false); err != nil {
			return nil, err
		}
	}

	if l.configFile != "" {
		if err := mergeFile(v, l.configFile, true); err != nil {
			return nil, err
		}
	} else if l.rootDir != "" {
		projectFile := filepath.Join(l.rootDir, DirName, "config.yml")
		if _, err := os.Stat(projectFile); err != nil {
			projectFile = filepath.Join(l.rootDir, DirName, "config.yaml")
		}
		if err := mergeFile(v, projectFile, false); err != nil {
			return nil, err
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// mergeFile layers a YAML file over what v already holds. A missing file is
// skipped unless required.
func mergeFile(v *viper.Viper, path string, required bool) error {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	defer f.Close()

	if err := v.MergeConfig(f); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// bindEnv binds every scalar key so AutomaticEnv sees it during Unmarshal.
func bindEnv(v *viper.Viper) {
	v.BindEnv("extract.full_docs")
	v.BindEnv("extract.max_file_bytes")
	v.BindEnv("extract.disabled_languages")

	v.BindEnv("cache.enabled")
	v.BindEnv("cache.capacity")

	v.BindEnv("watch.debounce_ms")
	v.BindEnv("scan.workers")
}

// setDefaults configures viper with default values.
func setDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("extract.full_docs", defaults.Extract.FullDocs)
	v.SetDefault("extract.max_file_bytes", defaults.Extract.MaxFileBytes)
	v.SetDefault("extract.disabled_languages", defaults.Extract.DisabledLanguages)

	v.SetDefault("cache.enabled", defaults.Cache.Enabled)
	v.SetDefault("cache.capacity", defaults.Cache.Capacity)

	v.SetDefault("paths.include", defaults.Paths.Include)
	v.SetDefault("paths.ignore", defaults.Paths.Ignore)

	v.SetDefault("watch.debounce_ms", defaults.Watch.DebounceMs)
	v.SetDefault("scan.workers", defaults.Scan.Workers)
}

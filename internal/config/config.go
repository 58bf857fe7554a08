// Package config loads skeleton extraction settings.
//
// Settings come from, highest priority first:
//  1. Environment variables (SKELETON_*, nested keys joined by "_")
//  2. An explicit config file passed with --config
//  3. The project file .skeleton/config.yml under the root directory
//  4. The user file ~/.skeleton/config.yml
//  5. Built-in defaults
package config

// Config represents the complete skeleton configuration.
type Config struct {
	Extract ExtractConfig `yaml:"extract" mapstructure:"extract"`
	Cache   CacheConfig   `yaml:"cache" mapstructure:"cache"`
	Paths   PathsConfig   `yaml:"paths" mapstructure:"paths"`
	Watch   WatchConfig   `yaml:"watch" mapstructure:"watch"`
	Scan    ScanConfig    `yaml:"scan" mapstructure:"scan"`
}

// ExtractConfig controls the extractor itself.
type ExtractConfig struct {
	FullDocs          bool     `yaml:"full_docs" mapstructure:"full_docs"`                   // keep complete docstrings
	MaxFileBytes      int      `yaml:"max_file_bytes" mapstructure:"max_file_bytes"`         // 0 disables the limit
	DisabledLanguages []string `yaml:"disabled_languages" mapstructure:"disabled_languages"` // e.g. ["cpp"]
}

// CacheConfig controls the in-memory result cache.
type CacheConfig struct {
	Enabled  bool `yaml:"enabled" mapstructure:"enabled"`
	Capacity int  `yaml:"capacity" mapstructure:"capacity"` // max cached results
}

// PathsConfig defines which files scan and watch consider.
type PathsConfig struct {
	Include []string `yaml:"include" mapstructure:"include"` // glob patterns for source files
	Ignore  []string `yaml:"ignore" mapstructure:"ignore"`   // glob patterns to skip
}

// WatchConfig controls the file watcher.
type WatchConfig struct {
	DebounceMs int `yaml:"debounce_ms" mapstructure:"debounce_ms"`
}

// ScanConfig controls directory scans.
type ScanConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"` // 0 means one per CPU
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Extract: ExtractConfig{
			FullDocs:          false,
			MaxFileBytes:      2 << 20,
			DisabledLanguages: []string{},
		},
		Cache: CacheConfig{
			Enabled:  true,
			Capacity: 4096,
		},
		Paths: PathsConfig{
			Include: []string{
				"**/*.py",
				"**/*.js",
				"**/*.jsx",
				"**/*.mjs",
				"**/*.ts",
				"**/*.tsx",
				"**/*.java",
				"**/*.c",
				"**/*.h",
				"**/*.cc",
				"**/*.cpp",
				"**/*.cxx",
				"**/*.hpp",
				"**/*.rs",
				"**/*.go",
			},
			Ignore: []string{
				"**/node_modules/**",
				"**/vendor/**",
				"**/.git/**",
				"**/dist/**",
				"**/build/**",
				"**/target/**",
				"**/__pycache__/**",
				"**/*.min.js",
			},
		},
		Watch: WatchConfig{
			DebounceMs: 300,
		},
		Scan: ScanConfig{
			Workers: 0,
		},
	}
}

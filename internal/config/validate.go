package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gobwas/glob"

	"github.com/mvp-joe/cortex-skeleton/internal/skeleton/extractor"
)

var (
	// ErrUnknownLanguage indicates a disabled_languages entry that is not a language id
	ErrUnknownLanguage = errors.New("unknown language")

	// ErrInvalidLimit indicates a negative size limit
	ErrInvalidLimit = errors.New("invalid limit")

	// ErrInvalidCacheSettings indicates invalid cache configuration
	ErrInvalidCacheSettings = errors.New("invalid cache settings")

	// ErrInvalidPattern indicates a glob that does not compile
	ErrInvalidPattern = errors.New("invalid glob pattern")

	// ErrInvalidWatchSettings indicates invalid watcher configuration
	ErrInvalidWatchSettings = errors.New("invalid watch settings")

	// ErrInvalidScanSettings indicates invalid scan configuration
	ErrInvalidScanSettings = errors.New("invalid scan settings")
)

// Validate checks that the configuration is valid and complete.
func Validate(cfg *Config) error {
	var errs []error

	if err := validateExtract(&cfg.Extract); err != nil {
		errs = append(errs, err)
	}
	if err := validateCache(&cfg.Cache); err != nil {
		errs = append(errs, err)
	}
	if err := validatePaths(&cfg.Paths); err != nil {
		errs = append(errs, err)
	}
	if cfg.Watch.DebounceMs < 0 {
		errs = append(errs, fmt.Errorf("%w: debounce_ms cannot be negative, got %d", ErrInvalidWatchSettings, cfg.Watch.DebounceMs))
	}
	if cfg.Scan.Workers < 0 {
		errs = append(errs, fmt.Errorf("%w: workers cannot be negative, got %d", ErrInvalidScanSettings, cfg.Scan.Workers))
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

func validateExtract(cfg *ExtractConfig) error {
	var errs []error

	// Zero means no limit
	if cfg.MaxFileBytes < 0 {
		errs = append(errs, fmt.Errorf("%w: max_file_bytes cannot be negative, got %d", ErrInvalidLimit, cfg.MaxFileBytes))
	}

	for _, name := range cfg.DisabledLanguages {
		if _, ok := extractor.ParseLanguage(name); !ok {
			errs = append(errs, fmt.Errorf("%w: %q (valid: %s)", ErrUnknownLanguage, name, languageList()))
		}
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}
	return nil
}

func validateCache(cfg *CacheConfig) error {
	if cfg.Enabled && cfg.Capacity <= 0 {
		return fmt.Errorf("%w: capacity must be positive when the cache is enabled, got %d", ErrInvalidCacheSettings, cfg.Capacity)
	}
	return nil
}

func validatePaths(cfg *PathsConfig) error {
	var errs []error
	for _, pattern := range append(append([]string{}, cfg.Include...), cfg.Ignore...) {
		if _, err := glob.Compile(pattern, '/'); err != nil {
			errs = append(errs, fmt.Errorf("%w: %q: %v", ErrInvalidPattern, pattern, err))
		}
	}
	if len(errs) > 0 {
		return joinErrors(errs)
	}
	return nil
}

func languageList() string {
	var names []string
	for _, lang := range extractor.Languages() {
		names = append(names, string(lang))
	}
	return strings.Join(names, ", ")
}

// joinErrors combines multiple errors into a single error with clear formatting.
// The result still matches every sentinel with errors.Is.
func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}

	if len(errs) == 1 {
		return errs[0]
	}

	var msgs []string
	for _, err := range errs {
		msgs = append(msgs, err.Error())
	}

	return &validationError{msg: "validation failed:\n  - " + strings.Join(msgs, "\n  - "), errs: errs}
}

type validationError struct {
	msg  string
	errs []error
}

func (e *validationError) Error() string   { return e.msg }
func (e *validationError) Unwrap() []error { return e.errs }

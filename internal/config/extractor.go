package config

import (
	"time"

	"github.com/mvp-joe/cortex-skeleton/internal/skeleton/extractor"
)

// ExtractorOptions converts the extract and cache sections into options for
// extractor.New. Unknown language names were rejected by Validate.
func (c *Config) ExtractorOptions() []extractor.Option {
	var disabled []extractor.Language
	for _, name := range c.Extract.DisabledLanguages {
		if lang, ok := extractor.ParseLanguage(name); ok {
			disabled = append(disabled, lang)
		}
	}

	opts := []extractor.Option{
		extractor.WithMaxFileBytes(c.Extract.MaxFileBytes),
		extractor.WithRegistry(extractor.NewRegistry(extractor.WithDisabled(disabled...))),
	}
	if c.Cache.Enabled {
		opts = append(opts, extractor.WithCache(c.Cache.Capacity))
	}
	return opts
}

// Debounce returns the watcher debounce interval.
func (c *Config) Debounce() time.Duration {
	return time.Duration(c.Watch.DebounceMs) * time.Millisecond
}

package extractor

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"

	"github.com/maypok86/otter"
)

// cachedResult is a rendered skeleton or a remembered absence.
type cachedResult struct {
	text string
	ok   bool
}

// resultCache memoizes rendered output by input content. Extraction is
// deterministic, so a hit is always identical to a fresh run.
type resultCache struct {
	cache otter.Cache[string, cachedResult]
}

func newResultCache(capacity int) (*resultCache, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("cache capacity must be positive, got %d", capacity)
	}

	cache, err := otter.MustBuilder[string, cachedResult](capacity).
		Cost(func(key string, value cachedResult) uint32 {
			return 1
		}).
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build result cache: %w", err)
	}
	return &resultCache{cache: cache}, nil
}

func (c *resultCache) get(key string) (cachedResult, bool) {
	return c.cache.Get(key)
}

func (c *resultCache) set(key string, result cachedResult) {
	c.cache.Set(key, result)
}

func (c *resultCache) size() int {
	return c.cache.Size()
}

func (c *resultCache) close() {
	c.cache.Close()
}

// cacheKey hashes everything the output depends on. The file name is length
// prefixed so name and content cannot run into each other.
func cacheKey(fileName string, content []byte, verbose bool) string {
	h := sha256.New()
	h.Write(binary.BigEndian.AppendUint64(nil, uint64(len(fileName))))
	h.Write([]byte(fileName))
	h.Write(content)
	if verbose {
		h.Write([]byte{1})
	} else {
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

package analyzer

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/maypok86/otter"

	"github.com/mvp-joe/php-reflect/internal/token"
)

// tokenCache keeps token streams keyed by the hash of the source they were
// scanned from, so unchanged files are not lexed again on re-analysis.
// A nil *tokenCache caches nothing.
type tokenCache struct {
	cache otter.Cache[string, []token.Token]
}

func newTokenCache(capacity int) (*tokenCache, error) {
	if capacity <= 0 {
		return nil, nil
	}
	c, err := otter.MustBuilder[string, []token.Token](capacity).
		CollectStats().
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to create token cache: %w", err)
	}
	return &tokenCache{cache: c}, nil
}

func (c *tokenCache) get(hash string) ([]token.Token, bool) {
	if c == nil {
		return nil, false
	}
	return c.cache.Get(hash)
}

func (c *tokenCache) set(hash string, toks []token.Token) {
	if c == nil {
		return
	}
	c.cache.Set(hash, toks)
}

func (c *tokenCache) hits() int64 {
	if c == nil {
		return 0
	}
	return c.cache.Stats().Hits()
}

func (c *tokenCache) close() {
	if c != nil {
		c.cache.Close()
	}
}

// contentHash returns the hex SHA-256 of data.
func contentHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

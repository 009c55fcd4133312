package classifier

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"github.com/agroflow/agroflow-backend/internal/compliance/domain"
)

// Cache memoizes AI classification results keyed by a digest of the raw
// text, bounded by a TTL. It is an explicit, injected object: the
// classifier receives it via its constructor rather than holding package
// state.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	ttl     time.Duration
	now     func() time.Time
}

type cacheEntry struct {
	docType    domain.DocumentType
	confidence float64
	expiresAt  time.Time
}

// NewCache creates a classification cache with the given TTL.
func NewCache(ttl time.Duration) *Cache {
	return &Cache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns a cached classification for the text, if present and fresh.
func (c *Cache) Get(rawText string) (domain.DocumentType, float64, bool) {
	key := digest(rawText)

	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return "", 0, false
	}
	if c.now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return "", 0, false
	}
	return entry.docType, entry.confidence, true
}

// Set stores a classification result for the text.
func (c *Cache) Set(rawText string, docType domain.DocumentType, confidence float64) {
	key := digest(rawText)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{
		docType:    docType,
		confidence: confidence,
		expiresAt:  c.now().Add(c.ttl),
	}
}

// Len returns the number of cached entries, expired or not.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func digest(rawText string) string {
	sum := sha256.Sum256([]byte(rawText))
	return hex.EncodeToString(sum[:])
}

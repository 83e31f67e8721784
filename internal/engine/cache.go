package engine

import "sync"

// Cache stores completed translations in memory so repeat submissions of the
// same text skip the API round trip. Safe for concurrent sessions.
type Cache struct {
	mu           sync.RWMutex
	translations map[string]string
}

// NewCache creates a new translation cache
func NewCache() *Cache {
	return &Cache{
		translations: make(map[string]string),
	}
}

// Add adds a translation to the cache
func (c *Cache) Add(text, translation string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.translations[text] = translation
}

// Get retrieves a translation from the cache
func (c *Cache) Get(text string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	translation, ok := c.translations[text]
	return translation, ok
}

// Len returns the number of cached translations
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.translations)
}

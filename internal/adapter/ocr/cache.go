package ocr

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"

	"github.com/couchcryptid/vortex/internal/observability"
)

// CachedRecognizer wraps a Recognizer with an in-memory LRU keyed by the
// SHA-256 of the image bytes, so re-submitting the same screenshot skips the
// engine.
type CachedRecognizer struct {
	inner   Recognizer
	cache   *lruCache
	metrics *observability.Metrics
}

// NewCachedRecognizer creates a cache decorator around a recognizer.
func NewCachedRecognizer(inner Recognizer, maxEntries int, metrics *observability.Metrics) *CachedRecognizer {
	return &CachedRecognizer{
		inner:   inner,
		cache:   newLRUCache(maxEntries),
		metrics: metrics,
	}
}

func (c *CachedRecognizer) Recognize(ctx context.Context, img []byte) (string, error) {
	if len(img) == 0 {
		return "", ErrEmptyImage
	}
	sum := sha256.Sum256(img)
	key := hex.EncodeToString(sum[:])

	if text, ok := c.cache.get(key); ok {
		c.record("hit")
		return text, nil
	}
	c.record("miss")

	text, err := c.inner.Recognize(ctx, img)
	if err != nil {
		return "", err
	}
	// Blank reads are usually a bad crop; leave them uncached so a retry runs OCR again.
	if text != "" {
		c.cache.put(key, text)
	}
	return text, nil
}

func (c *CachedRecognizer) record(result string) {
	if c.metrics != nil {
		c.metrics.OCRCache.WithLabelValues(result).Inc()
	}
}

// lruCache is a simple thread-safe LRU cache of recognized text.
type lruCache struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[string]*entry
	head       *entry // most recently used
	tail       *entry // least recently used
}

type entry struct {
	key   string
	value string
	prev  *entry
	next  *entry
}

func newLRUCache(maxEntries int) *lruCache {
	if maxEntries < 1 {
		maxEntries = 1
	}
	return &lruCache{
		maxEntries: maxEntries,
		entries:    make(map[string]*entry),
	}
}

func (c *lruCache) get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return "", false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *lruCache) put(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.value = value
		c.moveToFront(e)
		return
	}

	e := &entry{key: key, value: value}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

func (c *lruCache) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *lruCache) moveToFront(e *entry) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

func (c *lruCache) addToFront(e *entry) {
	e.next = c.head
	e.prev = nil
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *lruCache) remove(e *entry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
}

func (c *lruCache) evictTail() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.remove(c.tail)
}

// Package attachmenturl resolves usable URLs out of Airtable attachment
// values and caches resolved URLs for the redirect proxy.
//
// Airtable attachment URLs are time-limited signed URLs. The published
// GeoJSON therefore carries proxy paths instead of direct URLs, and the
// redirect handler resolves a fresh URL per request, consulting the cache
// here to avoid refetching the same record on every hit.
package attachmenturl

import (
	"strconv"
	"strings"
	"sync"
	"time"
)

// Pick extracts the preferred URL from an attachment-shaped value.
//
// For objects the precedence is large thumbnail, then full thumbnail, then
// the direct url. Bare strings are accepted only when they carry an
// http(s) scheme; anything else (display names, stray text) is rejected.
func Pick(att any) (string, bool) {
	switch t := att.(type) {
	case nil:
		return "", false
	case string:
		s := strings.TrimSpace(t)
		if hasHTTPScheme(s) {
			return s, true
		}
		return "", false
	case map[string]any:
		if u, ok := thumbnailURL(t, "large"); ok {
			return u, true
		}
		if u, ok := thumbnailURL(t, "full"); ok {
			return u, true
		}
		if u, ok := nonEmptyString(t["url"]); ok {
			return u, true
		}
		return "", false
	default:
		return "", false
	}
}

func thumbnailURL(att map[string]any, size string) (string, bool) {
	thumbs, ok := att["thumbnails"].(map[string]any)
	if !ok {
		return "", false
	}
	rendition, ok := thumbs[size].(map[string]any)
	if !ok {
		return "", false
	}
	return nonEmptyString(rendition["url"])
}

func nonEmptyString(v any) (string, bool) {
	s, ok := v.(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

func hasHTTPScheme(s string) bool {
	l := strings.ToLower(s)
	return strings.HasPrefix(l, "http://") || strings.HasPrefix(l, "https://")
}

// DefaultTTL is how long a resolved attachment URL stays servable. Signed
// URLs from Airtable live noticeably longer than this, so a bounded
// staleness window is traded against upstream request volume.
const DefaultTTL = 8 * time.Minute

type entry struct {
	url       string
	expiresAt time.Time
}

// Cache is a process-local TTL cache of resolved attachment URLs, keyed by
// "field:recordID:index".
//
// It is a pure optimization: it is safe to lose on restart and safe to
// duplicate across instances, because the publication store remains the
// only source of truth. The clock is injectable so tests advance virtual
// time instead of sleeping.
type Cache struct {
	mu      sync.Mutex
	entries map[string]entry
	ttl     time.Duration
	now     func() time.Time
}

// NewCache creates a cache with the given TTL. A nil now falls back to
// time.Now.
func NewCache(ttl time.Duration, now func() time.Time) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if now == nil {
		now = time.Now
	}
	return &Cache{
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     now,
	}
}

// Key builds the cache key for one attachment slot.
func Key(field, recordID string, index int) string {
	return field + ":" + recordID + ":" + strconv.Itoa(index)
}

// Get returns the cached URL for key if present and unexpired. Expired
// entries are dropped on read.
func (c *Cache) Get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return "", false
	}
	if c.now().After(e.expiresAt) {
		delete(c.entries, key)
		return "", false
	}
	return e.url, true
}

// Set stores url under key with the cache's TTL.
func (c *Cache) Set(key, url string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{url: url, expiresAt: c.now().Add(c.ttl)}
}

// Len reports the number of entries currently held, expired or not.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

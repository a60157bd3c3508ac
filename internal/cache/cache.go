// Package cache holds API responses keyed by request so repeated analysis
// runs do not hammer the hosting server. The cache is purely an
// optimization: callers behave identically whether it is cold or warm.
package cache

import (
	"crypto/md5"
	"encoding/hex"
	"sort"
	"strings"
	"time"

	"github.com/maxbolgarin/abstract"
)

const DefaultTTL = time.Hour

type entry struct {
	body     []byte
	storedAt time.Time
}

// Cache is a TTL-bounded response store safe for concurrent use.
type Cache struct {
	ttl     time.Duration
	entries *abstract.SafeMap[string, entry]
	now     func() time.Time
}

// New creates a cache with the given entry TTL. A non-positive TTL falls
// back to DefaultTTL.
func New(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		ttl:     ttl,
		entries: abstract.NewSafeMap(map[string]entry{}),
		now:     time.Now,
	}
}

// Get returns the cached response body for the request, or false when the
// entry is absent, expired or empty. Corrupted entries are misses, never
// errors.
func (c *Cache) Get(url string, params map[string]string) ([]byte, bool) {
	e := c.entries.Get(key(url, params))
	if e.storedAt.IsZero() || len(e.body) == 0 {
		return nil, false
	}
	if c.now().Sub(e.storedAt) >= c.ttl {
		return nil, false
	}
	return e.body, true
}

// Set stores a response body for the request.
func (c *Cache) Set(url string, params map[string]string, body []byte) {
	c.entries.Set(key(url, params), entry{body: body, storedAt: c.now()})
}

// key derives a stable content hash from the URL and canonicalized params.
func key(url string, params map[string]string) string {
	var b strings.Builder
	b.WriteString(url)

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.WriteString("_")
		b.WriteString(k)
		b.WriteString("=")
		b.WriteString(params[k])
	}

	sum := md5.Sum([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

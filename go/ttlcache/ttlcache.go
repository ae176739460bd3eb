// Package ttlcache provides an in-process key/value cache with bounded
// capacity, least-recently-used eviction, and optional per-entry
// expiration.
//
// The cache never fetches values on a miss; it stores whatever it is
// given. Expiration is lazy: an expired entry is removed when a Get
// observes it, and a background sweep reclaims entries that are never
// read again.
package ttlcache

import (
	"container/list"
	"context"
	"sync"
	"time"

	"go.skia.org/ttlcache/go/metrics2"
	"go.skia.org/ttlcache/go/now"
	"go.skia.org/ttlcache/go/repeat"
	"go.skia.org/ttlcache/go/sklog"
)

// DefaultSweepInterval is how often expired entries are reclaimed when
// Config.SweepInterval is not set.
const DefaultSweepInterval = time.Hour

// Config configures a Cache.
type Config struct {
	// MaxItems caps the number of live entries; inserting past the cap
	// evicts least-recently-used entries. Zero means unbounded.
	MaxItems int

	// SweepInterval is how often the background sweep removes expired
	// entries. Values <= 0 use DefaultSweepInterval.
	SweepInterval time.Duration

	// Name tags this cache's metrics. Defaults to "default".
	Name string
}

// entry is the value stored in recency-list nodes. The key is kept here
// because eviction starts from list nodes.
type entry[K comparable, V any] struct {
	key   K
	value V
}

// Cache is a concurrency-safe in-memory key/value cache.
//
// Three structures are kept consistent under one lock: a doubly-linked
// recency list (front = most recently used), a map from key to list
// node for O(1) lookup, and a map from key to absolute expiry deadline.
// A key has a deadline only if it was set with a positive TTL.
//
// The current time is read through the now package, so tests can drive
// expiry deterministically via the context passed to each operation.
type Cache[K comparable, V any] struct {
	mu       sync.Mutex
	recency  *list.List
	index    map[K]*list.Element
	expiry   map[K]time.Time
	maxItems int

	sweeper *repeat.Task

	hit     metrics2.Counter
	miss    metrics2.Counter
	evicted metrics2.Counter
	expired metrics2.Counter
}

// New returns a Cache and starts its background sweep. The sweep runs
// until Close is called; ctx only seeds the sweep's context, it does
// not bound the lifetime of the cache itself unless it is canceled.
func New[K comparable, V any](ctx context.Context, cfg Config) *Cache[K, V] {
	interval := cfg.SweepInterval
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	name := cfg.Name
	if name == "" {
		name = "default"
	}
	tags := map[string]string{"cache": name}
	c := &Cache[K, V]{
		recency:  list.New(),
		index:    map[K]*list.Element{},
		expiry:   map[K]time.Time{},
		maxItems: cfg.MaxItems,
		hit:      metrics2.GetCounter("ttlcache_hit", tags),
		miss:     metrics2.GetCounter("ttlcache_miss", tags),
		evicted:  metrics2.GetCounter("ttlcache_evicted", tags),
		expired:  metrics2.GetCounter("ttlcache_expired", tags),
	}
	c.sweeper = repeat.Start(ctx, interval, c.sweep)
	return c
}

// Get returns the value stored under key. The second return value
// reports whether the key was present: a missing key returns the zero
// value and false, while a key whose TTL has passed returns the zero
// value and true and is removed, so a subsequent Get returns false.
// A live entry is promoted to most-recently-used.
func (c *Cache[K, V]) Get(ctx context.Context, key K) (V, bool) {
	var zero V
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.index[key]
	if !ok {
		c.miss.Inc(1)
		return zero, false
	}
	if deadline, ok := c.expiry[key]; ok && !now.Now(ctx).Before(deadline) {
		c.deleteLocked(key)
		c.expired.Inc(1)
		return zero, true
	}
	c.recency.MoveToFront(el)
	c.hit.Inc(1)
	return el.Value.(*entry[K, V]).value, true
}

// Set stores value under key with no expiration. Any TTL from a
// previous Set of the same key is dropped.
func (c *Cache[K, V]) Set(ctx context.Context, key K, value V) {
	c.SetWithTTL(ctx, key, value, 0)
}

// SetWithTTL stores value under key. If ttl > 0 the entry expires ttl
// from now; otherwise it lives until evicted or deleted. The entry
// becomes the most-recently-used. If the insert pushes the cache over
// MaxItems, least-recently-used entries are evicted until it is back at
// the cap.
func (c *Cache[K, V]) SetWithTTL(ctx context.Context, key K, value V, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Re-setting an existing key replaces its node and expiry record
	// entirely, through the same removal path as eviction.
	c.deleteLocked(key)

	el := c.recency.PushFront(&entry[K, V]{key: key, value: value})
	c.index[key] = el
	if ttl > 0 {
		c.expiry[key] = now.Now(ctx).Add(ttl)
	}

	for c.maxItems > 0 && len(c.index) > c.maxItems {
		c.evictOldestLocked()
	}
}

// Delete removes key from the cache and returns whether it was present.
func (c *Cache[K, V]) Delete(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.deleteLocked(key)
}

// deleteLocked removes key from the recency list, the key index, and
// the expiration table. Every removal (explicit Delete, expiry on read,
// capacity eviction, background sweep) funnels through here so the
// three structures cannot drift apart. Caller must hold mu.
func (c *Cache[K, V]) deleteLocked(key K) bool {
	delete(c.expiry, key)
	el, ok := c.index[key]
	if !ok {
		return false
	}
	delete(c.index, key)
	c.recency.Remove(el)
	return true
}

// evictOldestLocked removes the least-recently-used entry. Caller must
// hold mu and have verified the key index is non-empty; an empty
// recency list at that point means the structures have diverged, which
// is unrecoverable.
func (c *Cache[K, V]) evictOldestLocked() {
	el := c.recency.Back()
	if el == nil {
		sklog.Fatalf("ttlcache: key index holds %d entries but the recency list is empty", len(c.index))
	}
	c.deleteLocked(el.Value.(*entry[K, V]).key)
	c.evicted.Inc(1)
}

// sweep removes every entry whose deadline has passed. It is a
// best-effort reclamation pass for entries that are never read again; a
// Get can observe and remove an expired entry before the sweep does.
func (c *Cache[K, V]) sweep(ctx context.Context) {
	ts := now.Now(ctx)
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key, deadline := range c.expiry {
		if !ts.Before(deadline) {
			c.deleteLocked(key)
			removed++
		}
	}
	if removed > 0 {
		c.expired.Inc(int64(removed))
		sklog.Debugf("ttlcache: sweep removed %d expired entries", removed)
	}
}

// Len returns the number of stored entries. The count may include
// expired entries that have not been read or swept yet.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.index)
}

// Keys returns the keys in most- to least-recently-used order.
func (c *Cache[K, V]) Keys() []K {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys := make([]K, 0, c.recency.Len())
	for el := c.recency.Front(); el != nil; el = el.Next() {
		keys = append(keys, el.Value.(*entry[K, V]).key)
	}
	return keys
}

// Close stops the background sweep. It is safe to call more than once.
// The cache remains usable after Close, but expired entries are then
// only reclaimed when a Get observes them.
func (c *Cache[K, V]) Close() {
	c.sweeper.Stop()
}

package local

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrNotFound is returned when a key does not exist.
var ErrNotFound = errors.New("cache: key not found")

// Config holds LocalCache settings.
type Config struct {
	GCInterval time.Duration
}

type entry struct {
	data     string
	expireAt time.Time
}

func (e entry) expired(now time.Time) bool {
	return !e.expireAt.IsZero() && now.After(e.expireAt)
}

// LocalCache is an in-process implementation of the cache surface. Expired
// keys are dropped lazily on read and by a background sweep.
type LocalCache struct {
	mu     sync.RWMutex
	kv     map[string]entry
	hashes map[string]map[string]string
	lists  map[string][]string

	gcInterval time.Duration
	stopGC     chan struct{}
	closeOnce  sync.Once
}

// NewCache creates a LocalCache and starts the background sweep.
func NewCache(cfg Config) (*LocalCache, error) {
	interval := cfg.GCInterval
	if interval <= 0 {
		interval = 30 * time.Second
	}
	c := &LocalCache{
		kv:         make(map[string]entry),
		hashes:     make(map[string]map[string]string),
		lists:      make(map[string][]string),
		gcInterval: interval,
		stopGC:     make(chan struct{}),
	}
	go c.runGC()
	return c, nil
}

// Close stops the background sweep. It is safe to call more than once.
func (c *LocalCache) Close() error {
	c.closeOnce.Do(func() { close(c.stopGC) })
	return nil
}

func (c *LocalCache) runGC() {
	ticker := time.NewTicker(c.gcInterval)
	defer ticker.Stop()
	for {
		select {
		case now := <-ticker.C:
			c.sweep(now)
		case <-c.stopGC:
			return
		}
	}
}

func (c *LocalCache) sweep(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, e := range c.kv {
		if e.expired(now) {
			delete(c.kv, k)
		}
	}
}

// ---- KV ----

func (c *LocalCache) Get(_ context.Context, key string) (string, error) {
	c.mu.RLock()
	e, ok := c.kv[key]
	c.mu.RUnlock()
	if !ok || e.expired(time.Now()) {
		return "", ErrNotFound
	}
	return e.data, nil
}

func (c *LocalCache) Set(_ context.Context, key, value string, ttl time.Duration) error {
	e := entry{data: value}
	if ttl > 0 {
		e.expireAt = time.Now().Add(ttl)
	}
	c.mu.Lock()
	c.kv[key] = e
	c.mu.Unlock()
	return nil
}

// Del removes keys of any kind.
func (c *LocalCache) Del(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.kv, k)
		delete(c.hashes, k)
		delete(c.lists, k)
	}
	return nil
}

// ---- Hash ----

func (c *LocalCache) HSet(_ context.Context, key, field, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	h := c.hashes[key]
	if h == nil {
		h = make(map[string]string)
		c.hashes[key] = h
	}
	h[field] = value
	return nil
}

// HGetAll returns a copy of the hash; a missing key yields an empty map.
func (c *LocalCache) HGetAll(_ context.Context, key string) (map[string]string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]string, len(c.hashes[key]))
	for f, v := range c.hashes[key] {
		out[f] = v
	}
	return out, nil
}

// ---- List ----

// LPush prepends values one at a time, so the last value ends up first.
func (c *LocalCache) LPush(_ context.Context, key string, values ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	old := c.lists[key]
	l := make([]string, 0, len(old)+len(values))
	for i := len(values) - 1; i >= 0; i-- {
		l = append(l, values[i])
	}
	c.lists[key] = append(l, old...)
	return nil
}

func (c *LocalCache) LRange(_ context.Context, key string, start, stop int64) ([]string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	l := c.lists[key]
	lo, hi, ok := span(int64(len(l)), start, stop)
	if !ok {
		return nil, nil
	}
	out := make([]string, hi-lo)
	copy(out, l[lo:hi])
	return out, nil
}

func (c *LocalCache) LTrim(_ context.Context, key string, start, stop int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	l := c.lists[key]
	lo, hi, ok := span(int64(len(l)), start, stop)
	if !ok {
		delete(c.lists, key)
		return nil
	}
	c.lists[key] = append([]string(nil), l[lo:hi]...)
	return nil
}

// span resolves Redis-style inclusive indexes, negatives counting from the
// end, into a half-open slice range.
func span(n, start, stop int64) (lo, hi int64, ok bool) {
	if start < 0 {
		start += n
	}
	if stop < 0 {
		stop += n
	}
	start = max(start, 0)
	stop = min(stop, n-1)
	if n == 0 || start > stop {
		return 0, 0, false
	}
	return start, stop + 1, true
}

package local

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrNotFound is returned when a key does not exist or has expired.
var ErrNotFound = errors.New("cache: key not found")

// Config holds LocalCache settings.
type Config struct {
	GCInterval time.Duration
	// Now overrides the clock used for expiry. Defaults to time.Now.
	Now func() time.Time
}

type entry struct {
	data     string
	expireAt time.Time // zero means no expiry
}

func (e entry) expiredAt(now time.Time) bool {
	return !e.expireAt.IsZero() && !now.Before(e.expireAt)
}

// LocalCache is an in-process key/value store with per-key expiry. Expired
// keys are invisible immediately and swept every GCInterval.
type LocalCache struct {
	mu         sync.RWMutex
	kv         map[string]entry
	now        func() time.Time
	gcInterval time.Duration
	stopGC     chan struct{}
	closeOnce  sync.Once
}

// NewCache creates a LocalCache and starts the background GC goroutine.
func NewCache(cfg Config) (*LocalCache, error) {
	interval := cfg.GCInterval
	if interval <= 0 {
		interval = 30 * time.Second
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	c := &LocalCache{
		kv:         make(map[string]entry),
		now:        now,
		gcInterval: interval,
		stopGC:     make(chan struct{}),
	}
	go c.runGC()
	return c, nil
}

// Close stops the background GC goroutine.
func (c *LocalCache) Close() error {
	c.closeOnce.Do(func() { close(c.stopGC) })
	return nil
}

func (c *LocalCache) runGC() {
	ticker := time.NewTicker(c.gcInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			c.sweep()
		case <-c.stopGC:
			return
		}
	}
}

// sweep drops every expired key and returns how many were removed.
func (c *LocalCache) sweep() int {
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for k, e := range c.kv {
		if e.expiredAt(now) {
			delete(c.kv, k)
			n++
		}
	}
	return n
}

func (c *LocalCache) newEntry(value string, ttl time.Duration) entry {
	e := entry{data: value}
	if ttl > 0 {
		e.expireAt = c.now().Add(ttl)
	}
	return e
}

// Len returns the number of stored keys, including expired ones not yet
// swept.
func (c *LocalCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.kv)
}

func (c *LocalCache) Get(_ context.Context, key string) (string, error) {
	c.mu.RLock()
	e, ok := c.kv[key]
	c.mu.RUnlock()
	if !ok || e.expiredAt(c.now()) {
		return "", ErrNotFound
	}
	return e.data, nil
}

func (c *LocalCache) Set(_ context.Context, key, value string, ttl time.Duration) error {
	e := c.newEntry(value, ttl)
	c.mu.Lock()
	c.kv[key] = e
	c.mu.Unlock()
	return nil
}

func (c *LocalCache) Del(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.kv, k)
	}
	return nil
}

func (c *LocalCache) Exists(ctx context.Context, key string) (bool, error) {
	_, err := c.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (c *LocalCache) SetNX(_ context.Context, key, value string, ttl time.Duration) (bool, error) {
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.kv[key]; ok && !e.expiredAt(now) {
		return false, nil
	}
	c.kv[key] = c.newEntry(value, ttl)
	return true, nil
}

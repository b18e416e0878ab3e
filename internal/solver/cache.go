package solver

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
	"time"

	"entry-optimizer/internal/bqm"
)

type cacheEntry struct {
	set       *SampleSet
	expiresAt time.Time
}

// Cached wraps a solver with an in-memory TTL cache keyed by model contents
// and options. Only requests with a fixed seed are cached; an unseeded request
// asks for fresh randomness and always goes to the wrapped solver.
type Cached struct {
	next Solver
	ttl  time.Duration
	now  func() time.Time

	mu    sync.RWMutex
	store map[string]cacheEntry
}

func NewCached(next Solver, ttl time.Duration) *Cached {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Cached{
		next:  next,
		ttl:   ttl,
		now:   time.Now,
		store: make(map[string]cacheEntry),
	}
}

func (c *Cached) Name() string { return c.next.Name() }

func (c *Cached) Sample(ctx context.Context, m *bqm.Model, opts Options) (*SampleSet, error) {
	opts = opts.withDefaults()
	if m == nil || m.IsEmpty() {
		return nil, ErrEmptyModel
	}
	if opts.Seed == 0 {
		return c.next.Sample(ctx, m, opts)
	}

	key := CacheKey(c.next.Name(), m, opts)
	if set, ok := c.get(key); ok {
		cp := *set
		cp.Info.Cached = true
		return &cp, nil
	}

	set, err := c.next.Sample(ctx, m, opts)
	if err != nil {
		return nil, err
	}
	c.set(key, set)
	return set, nil
}

func (c *Cached) get(key string) (*SampleSet, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.store[key]
	if !exists || c.now().After(entry.expiresAt) {
		return nil, false
	}
	return entry.set, true
}

// set stores a result and drops expired entries.
func (c *Cached) set(key string, set *SampleSet) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for k, e := range c.store {
		if now.After(e.expiresAt) {
			delete(c.store, k)
		}
	}
	c.store[key] = cacheEntry{set: set, expiresAt: now.Add(c.ttl)}
}

// Clear removes all entries from the cache
func (c *Cached) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.store = make(map[string]cacheEntry)
}

// Len returns the number of stored entries, expired ones included.
func (c *Cached) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.store)
}

// CacheKey hashes the solver name, the model terms in canonical order and the
// options that affect the result.
func CacheKey(solver string, m *bqm.Model, opts Options) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s|%d|%d|%g|", solver, opts.NumReads, opts.Seed, m.Offset())
	for _, v := range m.Variables() {
		b, _ := m.Linear(v)
		fmt.Fprintf(&sb, "%s=%g;", v, b)
	}
	for _, it := range m.Interactions() {
		fmt.Fprintf(&sb, "%s*%s=%g;", it.U, it.V, it.Bias)
	}
	hash := sha256.Sum256([]byte(sb.String()))
	return hex.EncodeToString(hash[:])
}

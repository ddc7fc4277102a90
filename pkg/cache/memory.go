package cache

import (
	"container/list"
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

type memoryItem[V any] struct {
	key     string
	value   V
	expires time.Time
}

func (it *memoryItem[V]) expired(now time.Time) bool {
	return !it.expires.IsZero() && now.After(it.expires)
}

// MemoryOption configures Memory.
type MemoryOption func(*memoryConfig)

type memoryConfig struct {
	defaultTTL time.Duration
	sweepEvery time.Duration
	maxEntries int
}

// WithDefaultTTL sets the TTL used when Set receives zero. Default: 1 hour.
func WithDefaultTTL(d time.Duration) MemoryOption {
	return func(c *memoryConfig) { c.defaultTTL = d }
}

// WithSweepEvery sets how often expired entries are removed.
// Zero disables the background sweep. Default: 1 minute.
func WithSweepEvery(d time.Duration) MemoryOption {
	return func(c *memoryConfig) { c.sweepEvery = d }
}

// WithMaxEntries caps the entry count; zero means unlimited.
func WithMaxEntries(n int) MemoryOption {
	return func(c *memoryConfig) { c.maxEntries = n }
}

// Memory is an in-process LRU cache with TTL expiry.
type Memory[V any] struct {
	cfg     memoryConfig
	mu      sync.Mutex
	index   map[string]*list.Element
	recency *list.List // front is most recently used
	sched   *cron.Cron
	closed  bool
}

// NewMemory creates a memory cache. Call Close to stop the sweeper.
func NewMemory[V any](opts ...MemoryOption) *Memory[V] {
	cfg := memoryConfig{defaultTTL: time.Hour, sweepEvery: time.Minute}
	for _, opt := range opts {
		opt(&cfg)
	}

	m := &Memory[V]{
		cfg:     cfg,
		index:   make(map[string]*list.Element),
		recency: list.New(),
	}
	if cfg.sweepEvery > 0 {
		m.sched = cron.New()
		if _, err := m.sched.AddFunc("@every "+cfg.sweepEvery.String(), m.Sweep); err == nil {
			m.sched.Start()
		} else {
			m.sched = nil
		}
	}
	return m
}

func (m *Memory[V]) Get(_ context.Context, key string) (V, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var zero V
	el, ok := m.index[key]
	if !ok {
		return zero, ErrNotFound
	}
	it := el.Value.(*memoryItem[V])
	if it.expired(time.Now()) {
		m.remove(el)
		return zero, ErrNotFound
	}
	m.recency.MoveToFront(el)
	return it.value, nil
}

func (m *Memory[V]) Set(_ context.Context, key string, value V, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	if ttl == 0 {
		ttl = m.cfg.defaultTTL
	}
	var expires time.Time
	if ttl > 0 {
		expires = time.Now().Add(ttl)
	}

	if el, ok := m.index[key]; ok {
		it := el.Value.(*memoryItem[V])
		it.value, it.expires = value, expires
		m.recency.MoveToFront(el)
		return nil
	}

	if m.cfg.maxEntries > 0 && len(m.index) >= m.cfg.maxEntries {
		if oldest := m.recency.Back(); oldest != nil {
			m.remove(oldest)
		}
	}
	m.index[key] = m.recency.PushFront(&memoryItem[V]{key: key, value: value, expires: expires})
	return nil
}

func (m *Memory[V]) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	if el, ok := m.index[key]; ok {
		m.remove(el)
	}
	return nil
}

func (m *Memory[V]) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	clear(m.index)
	m.recency.Init()
	return nil
}

// Len returns the number of stored entries, expired ones included.
func (m *Memory[V]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.index)
}

// Sweep removes expired entries. It runs on the background schedule
// and may be called directly.
func (m *Memory[V]) Sweep() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	for el := m.recency.Back(); el != nil; {
		prev := el.Prev()
		if el.Value.(*memoryItem[V]).expired(now) {
			m.remove(el)
		}
		el = prev
	}
}

// Close stops the sweeper and waits for a running sweep to finish.
// Close is idempotent.
func (m *Memory[V]) Close() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	sched := m.sched
	m.mu.Unlock()

	if sched != nil {
		<-sched.Stop().Done()
	}
	return nil
}

// caller holds mu
func (m *Memory[V]) remove(el *list.Element) {
	m.recency.Remove(el)
	delete(m.index, el.Value.(*memoryItem[V]).key)
}

var _ Cache[any] = (*Memory[any])(nil)

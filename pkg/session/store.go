package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrymomot/routekit/pkg/cache"
)

// Store persists sessions.
type Store interface {
	Create(ctx context.Context, s *Session) error
	// Get looks a session up by cookie token.
	// Returns ErrNotFound or ErrExpired.
	Get(ctx context.Context, token string) (*Session, error)
	// Update saves s. A changed token replaces the old one.
	Update(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
}

// CacheStore keeps sessions in a cache.Cache keyed by session ID,
// with a token to ID index in a second cache.
// Entries expire together with the session.
type CacheStore struct {
	sessions cache.Cache[*Session]
	tokens   cache.Cache[string]
}

// NewCacheStore builds a store on the given caches.
func NewCacheStore(sessions cache.Cache[*Session], tokens cache.Cache[string]) *CacheStore {
	return &CacheStore{sessions: sessions, tokens: tokens}
}

// NewMemoryStore is a CacheStore on in-process caches.
func NewMemoryStore(opts ...cache.MemoryOption) *CacheStore {
	return NewCacheStore(cache.NewMemory[*Session](opts...), cache.NewMemory[string](opts...))
}

func (st *CacheStore) Create(ctx context.Context, s *Session) error {
	return st.put(ctx, s)
}

func (st *CacheStore) Get(ctx context.Context, token string) (*Session, error) {
	id, err := st.tokens.Get(ctx, token)
	if err != nil {
		return nil, notFound(err)
	}
	s, err := st.sessions.Get(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	if s.Token != token {
		return nil, ErrNotFound
	}
	if s.IsExpired() {
		_ = st.Delete(ctx, id)
		return nil, ErrExpired
	}
	return s.Clone(), nil
}

func (st *CacheStore) Update(ctx context.Context, s *Session) error {
	prev, err := st.sessions.Get(ctx, s.ID)
	switch {
	case errors.Is(err, cache.ErrNotFound):
		return ErrNotFound
	case err != nil:
		return fmt.Errorf("session: load %s: %w", s.ID, err)
	}
	if prev.Token != s.Token {
		if err := st.tokens.Delete(ctx, prev.Token); err != nil {
			return fmt.Errorf("session: drop old token: %w", err)
		}
	}
	return st.put(ctx, s)
}

func (st *CacheStore) Delete(ctx context.Context, id string) error {
	s, err := st.sessions.Get(ctx, id)
	if errors.Is(err, cache.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("session: load %s: %w", id, err)
	}
	return errors.Join(st.tokens.Delete(ctx, s.Token), st.sessions.Delete(ctx, id))
}

// Close releases both caches.
func (st *CacheStore) Close() error {
	return errors.Join(st.sessions.Close(), st.tokens.Close())
}

func (st *CacheStore) put(ctx context.Context, s *Session) error {
	ttl := s.TTL()
	if ttl <= 0 {
		return ErrExpired
	}
	if err := st.sessions.Set(ctx, s.ID, s.Clone(), ttl); err != nil {
		return fmt.Errorf("session: save %s: %w", s.ID, err)
	}
	if err := st.tokens.Set(ctx, s.Token, s.ID, ttl); err != nil {
		return fmt.Errorf("session: index token: %w", err)
	}
	return nil
}

func notFound(err error) error {
	if errors.Is(err, cache.ErrNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("session: %w", err)
}

var _ Store = (*CacheStore)(nil)

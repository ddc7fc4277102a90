// Package session defines browser sessions and their persistence.
package session

import (
	"fmt"
	"maps"
	"slices"
	"time"
)

// Session is the server-side state of one browser.
// Values must stay JSON friendly: stores may round-trip them through JSON.
type Session struct {
	ID         string         `json:"id"`
	Token      string         `json:"token"`
	CreatedAt  time.Time      `json:"created_at"`
	LastSeenAt time.Time      `json:"last_seen_at"`
	ExpiresAt  time.Time      `json:"expires_at"`
	Values     map[string]any `json:"values"`

	dirty bool
	isNew bool
}

// New creates an unsaved session.
func New(id, token string, expiresAt time.Time) *Session {
	now := time.Now()
	return &Session{
		ID:         id,
		Token:      token,
		CreatedAt:  now,
		LastSeenAt: now,
		ExpiresAt:  expiresAt,
		Values:     map[string]any{},
		dirty:      true,
		isNew:      true,
	}
}

// Set stores a value and marks the session dirty.
func (s *Session) Set(key string, v any) {
	if s.Values == nil {
		s.Values = map[string]any{}
	}
	s.Values[key] = v
	s.dirty = true
}

// Get returns the raw value under key.
func (s *Session) Get(key string) (any, bool) {
	v, ok := s.Values[key]
	return v, ok
}

// Delete removes key. The session becomes dirty only if the key existed.
func (s *Session) Delete(key string) {
	if _, ok := s.Values[key]; ok {
		delete(s.Values, key)
		s.dirty = true
	}
}

func (s *Session) IsDirty() bool { return s.dirty }
func (s *Session) MarkDirty()    { s.dirty = true }
func (s *Session) ClearDirty()   { s.dirty = false }
func (s *Session) IsNew() bool   { return s.isNew }
func (s *Session) ClearNew()     { s.isNew = false }

// IsExpired reports whether the session is past ExpiresAt.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// TTL returns the remaining lifetime, never negative.
func (s *Session) TTL() time.Duration {
	return max(time.Until(s.ExpiresAt), 0)
}

// Clone returns a copy that shares no mutable state with s.
// Slice values are copied one level deep.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	out := *s
	out.Values = maps.Clone(s.Values)
	if out.Values == nil {
		out.Values = map[string]any{}
	}
	for k, v := range out.Values {
		switch t := v.(type) {
		case []string:
			out.Values[k] = slices.Clone(t)
		case []any:
			out.Values[k] = slices.Clone(t)
		}
	}
	return &out
}

// Value returns the value under key as T.
func Value[T any](s *Session, key string) (T, error) {
	var zero T
	if s == nil {
		return zero, ErrNotFound
	}
	v, ok := s.Get(key)
	if !ok {
		return zero, ErrNotFound
	}
	typed, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %s", ErrTypeMismatch, key)
	}
	return typed, nil
}

// ValueOr returns the value under key as T, or def.
func ValueOr[T any](s *Session, key string, def T) T {
	v, err := Value[T](s, key)
	if err != nil {
		return def
	}
	return v
}

// Strings returns a string list stored under key.
// Lists decoded from JSON arrive as []any and are converted.
func Strings(s *Session, key string) []string {
	if s == nil {
		return nil
	}
	switch v := s.Values[key].(type) {
	case []string:
		return slices.Clone(v)
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if str, ok := item.(string); ok {
				out = append(out, str)
			}
		}
		return out
	default:
		return nil
	}
}

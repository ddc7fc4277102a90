package internal

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/routekit/pkg/session"
)

const (
	defaultSessionCookie = "__sid"
	defaultSessionMaxAge = 30 * 24 * time.Hour
)

// SessionManager loads sessions from cookies and writes the cookies back.
type SessionManager struct {
	store    session.Store
	cookie   string
	path     string
	maxAge   time.Duration
	sameSite http.SameSite
	secure   bool
}

// SessionOption configures a SessionManager.
type SessionOption func(*SessionManager)

// SessionCookieName sets the cookie name. Default: "__sid".
func SessionCookieName(name string) SessionOption {
	return func(sm *SessionManager) {
		if name != "" {
			sm.cookie = name
		}
	}
}

// SessionMaxAge sets the session lifetime. Default: 30 days.
func SessionMaxAge(d time.Duration) SessionOption {
	return func(sm *SessionManager) {
		if d > 0 {
			sm.maxAge = d
		}
	}
}

// SessionSecure sets the cookie Secure flag.
func SessionSecure(secure bool) SessionOption {
	return func(sm *SessionManager) { sm.secure = secure }
}

// SessionSameSite sets the cookie SameSite mode. Default: Lax.
func SessionSameSite(mode http.SameSite) SessionOption {
	return func(sm *SessionManager) { sm.sameSite = mode }
}

// NewSessionManager creates a manager over store.
func NewSessionManager(store session.Store, opts ...SessionOption) *SessionManager {
	sm := &SessionManager{
		store:    store,
		cookie:   defaultSessionCookie,
		path:     "/",
		maxAge:   defaultSessionMaxAge,
		sameSite: http.SameSiteLaxMode,
	}
	for _, opt := range opts {
		opt(sm)
	}
	return sm
}

// Store returns the backing store.
func (sm *SessionManager) Store() session.Store { return sm.store }

// Load returns the session named by the request cookie.
// Returns nil, nil when the request carries no cookie.
func (sm *SessionManager) Load(ctx context.Context, r *http.Request) (*session.Session, error) {
	ck, err := r.Cookie(sm.cookie)
	if err != nil || ck.Value == "" {
		return nil, nil
	}
	return sm.store.Get(ctx, ck.Value)
}

// Create persists a fresh session.
func (sm *SessionManager) Create(ctx context.Context) (*session.Session, error) {
	token, err := newToken()
	if err != nil {
		return nil, err
	}
	s := session.New(uuid.NewString(), token, time.Now().Add(sm.maxAge))
	if err := sm.store.Create(ctx, s); err != nil {
		return nil, err
	}
	s.ClearNew()
	s.ClearDirty()
	return s, nil
}

// Rotate gives s a new token and saves it; the old token stops working.
func (sm *SessionManager) Rotate(ctx context.Context, s *session.Session) error {
	old := s.Token
	token, err := newToken()
	if err != nil {
		return err
	}
	s.Token = token
	if err := sm.store.Update(ctx, s); err != nil {
		s.Token = old
		return err
	}
	s.ClearDirty()
	return nil
}

// WriteCookie sets the cookie for s, replacing one already set on w.
func (sm *SessionManager) WriteCookie(w http.ResponseWriter, s *session.Session) {
	sm.setCookie(w, sm.cookieFor(s.Token, int(sm.maxAge.Seconds())))
}

// ClearCookie expires the cookie.
func (sm *SessionManager) ClearCookie(w http.ResponseWriter) {
	sm.setCookie(w, sm.cookieFor("", -1))
}

func (sm *SessionManager) setCookie(w http.ResponseWriter, ck *http.Cookie) {
	h := w.Header()
	prefix := sm.cookie + "="
	var kept []string
	for _, v := range h.Values("Set-Cookie") {
		if !strings.HasPrefix(v, prefix) {
			kept = append(kept, v)
		}
	}
	h.Del("Set-Cookie")
	for _, v := range kept {
		h.Add("Set-Cookie", v)
	}
	http.SetCookie(w, ck)
}

func (sm *SessionManager) cookieFor(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     sm.cookie,
		Value:    value,
		Path:     sm.path,
		MaxAge:   maxAge,
		Secure:   sm.secure,
		HttpOnly: true,
		SameSite: sm.sameSite,
	}
}

func newToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("session token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

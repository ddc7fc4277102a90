// Package auth holds the mock authentication state machine.
//
// State is a value: transitions return a new State and never fail.
// The current state travels through a request in its context.Context.
package auth

import "context"

// Status is the authentication status.
type Status string

const (
	StatusLoggedOut Status = "loggedOut"
	StatusLoggedIn  Status = "loggedIn"
)

// State is the authentication state of one browser session.
// Username is set only when Status is StatusLoggedIn.
type State struct {
	Status   Status `json:"status"`
	Username string `json:"username,omitempty"`
}

// Initial returns the state every new session starts in.
func Initial() State {
	return State{Status: StatusLoggedOut}
}

// Login returns the logged-in state for username. Legal from any state.
func (s State) Login(username string) State {
	return State{Status: StatusLoggedIn, Username: username}
}

// Logout returns the logged-out state. Legal from any state.
func (s State) Logout() State {
	return Initial()
}

// IsLoggedIn reports whether s is logged in.
func (s State) IsLoggedIn() bool {
	return s.Status == StatusLoggedIn
}

type contextKey struct{}

// WithState returns a copy of ctx carrying s.
func WithState(ctx context.Context, s State) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext returns the state carried by ctx, or Initial if none.
func FromContext(ctx context.Context) State {
	if s, ok := ctx.Value(contextKey{}).(State); ok {
		return s
	}
	return Initial()
}

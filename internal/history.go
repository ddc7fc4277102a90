package internal

import (
	"github.com/dmitrymomot/routekit/pkg/session"
)

const (
	sessionHistory = "nav.history"
	historyLimit   = 50
)

func (c *requestContext) History() []string {
	s, err := c.Session()
	if err != nil || s == nil {
		return nil
	}
	return session.Strings(s, sessionHistory)
}

// pushHistory appends href to the session history, dropping the oldest
// entries past historyLimit. Repeating the latest entry is a no-op.
func (c *requestContext) pushHistory(href string) error {
	if c.app.sessions == nil {
		return nil
	}
	s, err := c.ensureSession()
	if err != nil {
		return err
	}
	hist := session.Strings(s, sessionHistory)
	if n := len(hist); n > 0 && hist[n-1] == href {
		return nil
	}
	hist = append(hist, href)
	if len(hist) > historyLimit {
		hist = hist[len(hist)-historyLimit:]
	}
	s.Set(sessionHistory, hist)
	return nil
}

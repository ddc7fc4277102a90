package app

import (
	"net/http"
	"strings"

	"github.com/dmitrymomot/routekit"
	"github.com/dmitrymomot/routekit/pkg/validator"
)

const maxUsernameLen = 64

// AuthHandler moves the session between logged out and logged in.
type AuthHandler struct{}

func NewAuthHandler() *AuthHandler { return &AuthHandler{} }

func (h *AuthHandler) Routes(r routekit.Router) {
	r.POST("/auth/login", h.login)
	r.POST("/auth/logout", h.logout)
}

func (h *AuthHandler) login(c routekit.Context) error {
	username := strings.TrimSpace(c.Form("username"))
	if err := validator.Apply(
		validator.RequiredString("username", username),
		validator.MaxLenString("username", username, maxUsernameLen),
	); err != nil {
		return err
	}

	if err := c.Login(username); err != nil {
		return err
	}
	c.LogInfo("logged in", "username", username)
	return c.Redirect(http.StatusSeeOther, "/")
}

func (h *AuthHandler) logout(c routekit.Context) error {
	if err := c.Logout(); err != nil {
		return err
	}
	c.LogInfo("logged out")
	return c.Redirect(http.StatusSeeOther, "/")
}

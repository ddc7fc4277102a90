package internal

// Handler declares routes on a router.
//
//	type AuthHandler struct{}
//
//	func (h *AuthHandler) Routes(r routekit.Router) {
//	    r.POST("/auth/login", h.login)
//	    r.POST("/auth/logout", h.logout)
//	}
type Handler interface {
	Routes(r Router)
}

// HandlerFunc handles a request. A returned error goes to the app's ErrorHandler.
type HandlerFunc func(c Context) error

// Middleware wraps a HandlerFunc.
type Middleware func(next HandlerFunc) HandlerFunc

// ErrorHandler renders errors returned from handlers.
type ErrorHandler func(Context, error) error

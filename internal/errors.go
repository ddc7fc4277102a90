package internal

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrymomot/routekit/pkg/validator"
)

// Sentinel errors.
var (
	ErrRouteNotFound  = errors.New("routekit: no route matches path")
	ErrNoComponent    = errors.New("routekit: route chain renders nothing")
	ErrDuplicateRoute = errors.New("routekit: duplicate route id")
	ErrLoaderTimeout  = errors.New("routekit: loader timed out")
	ErrInvalidQuery   = errors.New("routekit: invalid query string")
)

// HTTPError is an error with an HTTP status and user-facing message.
type HTTPError struct {
	Err       error
	Message   string
	Title     string
	Detail    string
	ErrorCode string
	RequestID string
	Code      int
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%d %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%d %s", e.Code, e.Message)
}

func (e *HTTPError) Unwrap() error { return e.Err }

// StatusText returns the title, falling back to the status text.
func (e *HTTPError) StatusText() string {
	if e.Title != "" {
		return e.Title
	}
	return http.StatusText(e.Code)
}

// HTTPErrorOption configures an HTTPError.
type HTTPErrorOption func(*HTTPError)

func WithTitle(title string) HTTPErrorOption {
	return func(e *HTTPError) { e.Title = title }
}

func WithDetail(detail string) HTTPErrorOption {
	return func(e *HTTPError) { e.Detail = detail }
}

func WithErrorCode(code string) HTTPErrorOption {
	return func(e *HTTPError) { e.ErrorCode = code }
}

func WithRequestID(id string) HTTPErrorOption {
	return func(e *HTTPError) { e.RequestID = id }
}

func WithError(err error) HTTPErrorOption {
	return func(e *HTTPError) { e.Err = err }
}

// NewHTTPError creates an HTTPError.
func NewHTTPError(code int, message string, opts ...HTTPErrorOption) *HTTPError {
	e := &HTTPError{Code: code, Message: message}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func ErrBadRequest(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusBadRequest, message, opts...)
}

func ErrNotFound(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusNotFound, message, opts...)
}

func ErrMethodNotAllowed(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusMethodNotAllowed, message, opts...)
}

func ErrInternal(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusInternalServerError, message, opts...)
}

// AsHTTPError returns the HTTPError in err's chain, or nil.
func AsHTTPError(err error) *HTTPError {
	var he *HTTPError
	if errors.As(err, &he) {
		return he
	}
	return nil
}

// NavigationError reports a navigation rejected by a route's search validator.
// Nothing is recorded or loaded for a rejected navigation.
type NavigationError struct {
	RouteID  string
	Location Location
	Err      error
}

func (e *NavigationError) Error() string {
	return fmt.Sprintf("navigate %s: route %s: %v", e.Location.Path, e.RouteID, e.Err)
}

func (e *NavigationError) Unwrap() error { return e.Err }

// ValidationErrors returns the field errors behind the failure, if any.
func (e *NavigationError) ValidationErrors() validator.ValidationErrors {
	return validator.ExtractValidationErrors(e.Err)
}

// AsNavigationError returns the NavigationError in err's chain, or nil.
func AsNavigationError(err error) *NavigationError {
	var ne *NavigationError
	if errors.As(err, &ne) {
		return ne
	}
	return nil
}

// StatusCode maps err to an HTTP status.
// Navigation and validation failures are 400, HTTPErrors keep their code,
// anything else is 500.
func StatusCode(err error) int {
	switch {
	case AsNavigationError(err) != nil:
		return http.StatusBadRequest
	case errors.Is(err, ErrInvalidQuery), validator.IsValidationError(err):
		return http.StatusBadRequest
	case errors.Is(err, ErrRouteNotFound):
		return http.StatusNotFound
	case AsHTTPError(err) != nil:
		return AsHTTPError(err).Code
	default:
		return http.StatusInternalServerError
	}
}

package internal

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrUnsupportedMiddleware = errors.New("maxitsa: unsupported middleware")
	ErrUnknownController     = errors.New("maxitsa: unknown controller")
	ErrUnknownAction         = errors.New("maxitsa: unknown action")
	ErrRouteLoad             = errors.New("maxitsa: route declarations failed to load")
	ErrInvalidRoute          = errors.New("maxitsa: invalid route")
)

// UnsupportedMiddlewareError reports a route naming a middleware that is not
// registered.
type UnsupportedMiddlewareError struct {
	Name   string
	Method string
	Path   string
}

func (e *UnsupportedMiddlewareError) Error() string {
	return fmt.Sprintf("maxitsa: middleware %q not supported (route %s %s)", e.Name, e.Method, e.Path)
}

func (e *UnsupportedMiddlewareError) Is(target error) bool {
	return target == ErrUnsupportedMiddleware
}

// RedirectError ends the request with a redirect. Middleware and actions
// return it to stop processing; the App writes the redirect.
type RedirectError struct {
	URL  string
	Code int
}

// Redirect returns a RedirectError with status 302.
func Redirect(url string) *RedirectError {
	return &RedirectError{URL: url, Code: http.StatusFound}
}

func (e *RedirectError) Error() string {
	return fmt.Sprintf("redirect %d to %s", e.Code, e.URL)
}

// HTTPError carries a status code and a user-facing message.
type HTTPError struct {
	// Err is the underlying error, logged but not shown.
	Err     error
	Message string
	Code    int
}

func (e *HTTPError) Error() string {
	return e.Message
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

func (e *HTTPError) StatusCode() int {
	return e.Code
}

// HTTPErrorOption configures an HTTPError.
type HTTPErrorOption func(*HTTPError)

// WithError attaches the underlying cause.
func WithError(err error) HTTPErrorOption {
	return func(e *HTTPError) {
		e.Err = err
	}
}

// NewHTTPError creates a new HTTPError with the given status code and message.
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

func ErrForbidden(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusForbidden, message, opts...)
}

func ErrNotFound(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusNotFound, message, opts...)
}

func ErrInternal(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusInternalServerError, message, opts...)
}

// AsHTTPError extracts an HTTPError from the chain, or returns nil.
func AsHTTPError(err error) *HTTPError {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	return nil
}

// AsRedirect extracts a RedirectError from the chain, or returns nil.
func AsRedirect(err error) *RedirectError {
	var r *RedirectError
	if errors.As(err, &r) {
		return r
	}
	return nil
}

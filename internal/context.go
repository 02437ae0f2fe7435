package internal

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"maps"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/maxitsa/maxitsa/pkg/container"
	"github.com/maxitsa/maxitsa/pkg/sanitizer"
	"github.com/maxitsa/maxitsa/pkg/session"
	"github.com/maxitsa/maxitsa/pkg/validator"
)

// Component is the interface for renderable templates.
type Component interface {
	Render(ctx context.Context, w io.Writer) error
}

// Context provides request/response access and helper methods.
// It also implements context.Context by delegating to the underlying request context.
type Context interface {
	context.Context

	// Request returns the underlying *http.Request.
	Request() *http.Request

	// Response returns the response writer.
	Response() http.ResponseWriter

	// Context returns the request's context.Context.
	Context() context.Context

	// Param returns a path segment bound by a {name} placeholder.
	Param(name string) string

	// Query returns the query parameter value by name.
	Query(name string) string

	// Form returns the submitted value of a field, trimmed and stripped of HTML.
	Form(name string) string

	// FormValues returns every submitted field, trimmed and stripped of HTML.
	FormValues() map[string]string

	// FormFile returns the first file for the given form key.
	FormFile(name string) (multipart.File, *multipart.FileHeader, error)

	// Files describes the uploaded files for the file validation rules.
	Files() map[string]*validator.File

	// Header returns the request header value by name.
	Header(name string) string

	// SetHeader sets a response header.
	SetHeader(name, value string)

	// HTML writes an HTML response with the given status code.
	HTML(code int, html string) error

	// Render renders a component with the given status code.
	Render(code int, component Component) error

	// String writes a plain text response with the given status code.
	String(code int, s string) error

	// JSON writes a JSON response with the given status code.
	JSON(code int, v any) error

	// NoContent writes a response with no body.
	NoContent(code int) error

	// Redirect writes a redirect. Return its result to end the request.
	Redirect(code int, url string) error

	// Error creates an HTTPError without writing a response.
	Error(code int, message string, opts ...HTTPErrorOption) *HTTPError

	// Written returns true if a response has already been written.
	Written() bool

	// Session returns the gate of the browser session, starting one when the
	// request carries none. Returns session.ErrNotConfigured without WithSession.
	Session() (*session.Gate, error)

	// Container returns the application dependency container, or nil.
	Container() *container.Container

	// Validate checks the submitted form and files against rules.
	// The error is non-nil only when the body cannot be parsed.
	Validate(rules validator.Rules, messages validator.Messages) (validator.Result, error)

	// ValidateWithMessages is Validate with a message attached to every rule.
	ValidateWithMessages(spec validator.MessageRules) (validator.Result, error)

	// Logger returns the logger for advanced usage.
	Logger() *slog.Logger

	LogDebug(msg string, attrs ...any)
	LogInfo(msg string, attrs ...any)
	LogWarn(msg string, attrs ...any)
	LogError(msg string, attrs ...any)

	// Set stores a value in the request context.
	Set(key any, value any)

	// Get retrieves a value from the request context.
	Get(key any) any

	// ResponseWriter returns the wrapped writer.
	ResponseWriter() *ResponseWriter
}

// requestContext implements the Context interface.
type requestContext struct {
	request  *http.Request
	response *ResponseWriter
	app      *App

	gate *session.Gate

	formParsed bool
	formErr    error
	values     map[string]string
	files      map[string]*validator.File
}

func newContext(w http.ResponseWriter, r *http.Request, app *App) *requestContext {
	return &requestContext{
		request:  r,
		response: NewResponseWriter(w),
		app:      app,
	}
}

func (c *requestContext) Request() *http.Request {
	return c.request
}

func (c *requestContext) Response() http.ResponseWriter {
	return c.response
}

func (c *requestContext) Context() context.Context {
	return c.request.Context()
}

func (c *requestContext) Deadline() (time.Time, bool) {
	return c.request.Context().Deadline()
}

func (c *requestContext) Done() <-chan struct{} {
	return c.request.Context().Done()
}

func (c *requestContext) Err() error {
	return c.request.Context().Err()
}

func (c *requestContext) Value(key any) any {
	return c.request.Context().Value(key)
}

func (c *requestContext) Param(name string) string {
	return chi.URLParam(c.request, name)
}

func (c *requestContext) Query(name string) string {
	return c.request.URL.Query().Get(name)
}

// parseForm reads the body once and caches sanitized values and file metadata.
func (c *requestContext) parseForm() error {
	if c.formParsed {
		return c.formErr
	}
	c.formParsed = true

	r := c.request
	var err error
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		err = r.ParseMultipartForm(c.app.maxFormMemory)
	} else {
		err = r.ParseForm()
	}
	if err != nil && !errors.Is(err, http.ErrNotMultipart) {
		c.formErr = ErrBadRequest("invalid form submission", WithError(err))
		return c.formErr
	}

	c.values = sanitizer.Values(r.Form)
	c.files = make(map[string]*validator.File)
	if r.MultipartForm != nil {
		for name, headers := range r.MultipartForm.File {
			if len(headers) == 0 {
				continue
			}
			fh := headers[0]
			status := validator.FileOK
			if fh.Size == 0 && fh.Filename == "" {
				status = validator.FileNone
			}
			c.files[name] = &validator.File{
				Name:        fh.Filename,
				ContentType: fh.Header.Get("Content-Type"),
				Size:        fh.Size,
				Status:      status,
			}
		}
	}
	return nil
}

func (c *requestContext) Form(name string) string {
	if err := c.parseForm(); err != nil {
		return ""
	}
	return c.values[name]
}

func (c *requestContext) FormValues() map[string]string {
	if err := c.parseForm(); err != nil {
		return map[string]string{}
	}
	return maps.Clone(c.values)
}

func (c *requestContext) FormFile(name string) (multipart.File, *multipart.FileHeader, error) {
	return c.request.FormFile(name)
}

func (c *requestContext) Files() map[string]*validator.File {
	if err := c.parseForm(); err != nil {
		return map[string]*validator.File{}
	}
	return c.files
}

func (c *requestContext) Header(name string) string {
	return c.request.Header.Get(name)
}

func (c *requestContext) SetHeader(name, value string) {
	c.response.Header().Set(name, value)
}

func (c *requestContext) HTML(code int, html string) error {
	c.response.Header().Set("Content-Type", "text/html; charset=utf-8")
	c.response.WriteHeader(code)
	_, err := io.WriteString(c.response, html)
	return err
}

func (c *requestContext) Render(code int, component Component) error {
	c.response.Header().Set("Content-Type", "text/html; charset=utf-8")
	c.response.WriteHeader(code)
	return component.Render(c.request.Context(), c.response)
}

func (c *requestContext) String(code int, s string) error {
	c.response.Header().Set("Content-Type", "text/plain; charset=utf-8")
	c.response.WriteHeader(code)
	_, err := io.WriteString(c.response, s)
	return err
}

func (c *requestContext) JSON(code int, v any) error {
	c.response.Header().Set("Content-Type", "application/json; charset=utf-8")
	c.response.WriteHeader(code)
	return json.NewEncoder(c.response).Encode(v)
}

func (c *requestContext) NoContent(code int) error {
	c.response.WriteHeader(code)
	return nil
}

func (c *requestContext) Redirect(code int, url string) error {
	http.Redirect(c.response, c.request, url, code)
	return nil
}

func (c *requestContext) Error(code int, message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(code, message, opts...)
}

func (c *requestContext) Written() bool {
	return c.response.Written()
}

func (c *requestContext) Session() (*session.Gate, error) {
	if c.gate != nil {
		return c.gate, nil
	}
	sm := c.app.sessionManager
	if sm == nil {
		return nil, session.ErrNotConfigured
	}

	sess, err := sm.Load(c.Context(), c.request)
	if err != nil {
		return nil, err
	}

	r := c.request
	c.gate = session.NewGate(sess, func() *session.Session { return sm.Start(r) })
	c.response.OnBeforeWrite(func() {
		if err := sm.Commit(c.Context(), c.response, c.gate); err != nil {
			c.LogError("failed to save session", slog.Any("error", err))
		}
	})
	return c.gate, nil
}

func (c *requestContext) Container() *container.Container {
	return c.app.container
}

func (c *requestContext) Validate(rules validator.Rules, messages validator.Messages) (validator.Result, error) {
	if err := c.parseForm(); err != nil {
		return nil, err
	}
	in := validator.Input{Values: c.values, Files: c.files}
	return c.app.validator.Validate(c.Context(), in, rules, messages), nil
}

func (c *requestContext) ValidateWithMessages(spec validator.MessageRules) (validator.Result, error) {
	if err := c.parseForm(); err != nil {
		return nil, err
	}
	in := validator.Input{Values: c.values, Files: c.files}
	return c.app.validator.ValidateWithMessages(c.Context(), in, spec), nil
}

func (c *requestContext) Logger() *slog.Logger {
	return c.app.logger
}

func (c *requestContext) LogDebug(msg string, attrs ...any) {
	c.app.logger.DebugContext(c.request.Context(), msg, attrs...)
}

func (c *requestContext) LogInfo(msg string, attrs ...any) {
	c.app.logger.InfoContext(c.request.Context(), msg, attrs...)
}

func (c *requestContext) LogWarn(msg string, attrs ...any) {
	c.app.logger.WarnContext(c.request.Context(), msg, attrs...)
}

func (c *requestContext) LogError(msg string, attrs ...any) {
	c.app.logger.ErrorContext(c.request.Context(), msg, attrs...)
}

func (c *requestContext) Set(key, value any) {
	ctx := context.WithValue(c.request.Context(), key, value)
	c.request = c.request.WithContext(ctx)
}

func (c *requestContext) Get(key any) any {
	return c.request.Context().Value(key)
}

func (c *requestContext) ResponseWriter() *ResponseWriter {
	return c.response
}

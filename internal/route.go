package internal

import (
	"cmp"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"sync"
)

// Route binds a method and path to a controller action and named middleware.
type Route struct {
	Method     string
	Path       string
	Controller string
	Action     string
	Middleware []string
}

// Handler returns the "controller@action" reference of the route.
func (r Route) Handler() string {
	return r.Controller + "@" + r.Action
}

var methods = []string{
	http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut,
	http.MethodPatch, http.MethodDelete, http.MethodOptions,
}

type routeKey struct {
	method string
	path   string
}

// RouteTable stores routes keyed by method and path. Registering the same
// key again replaces the earlier route.
type RouteTable struct {
	mu     sync.RWMutex
	routes map[routeKey]Route
}

// NewRouteTable returns an empty table.
func NewRouteTable() *RouteTable {
	return &RouteTable{routes: make(map[routeKey]Route)}
}

// Add registers a route.
//
// Paths match literally except for {name} segments, which bind one path
// segment each. Wildcards (*) are rejected, as are unbalanced braces and
// repeated parameter names.
func (t *RouteTable) Add(method, path, controller, action string, middleware ...string) error {
	method = strings.ToUpper(strings.TrimSpace(method))
	switch {
	case !slices.Contains(methods, method):
		return fmt.Errorf("%w: unsupported method %q for %q", ErrInvalidRoute, method, path)
	case !strings.HasPrefix(path, "/"):
		return fmt.Errorf("%w: path %q must start with /", ErrInvalidRoute, path)
	case controller == "" || action == "":
		return fmt.Errorf("%w: %s %s has no handler", ErrInvalidRoute, method, path)
	}
	if err := checkPath(path); err != nil {
		return fmt.Errorf("%w: %s %s: %w", ErrInvalidRoute, method, path, err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.routes[routeKey{method, path}] = Route{
		Method:     method,
		Path:       path,
		Controller: controller,
		Action:     action,
		Middleware: slices.Clone(middleware),
	}
	return nil
}

// checkPath accepts literal segments and {name} or {name:regexp}
// placeholders. Braces inside a placeholder's regexp must balance.
func checkPath(path string) error {
	seen := make(map[string]bool)
	for i := 0; i < len(path); i++ {
		switch path[i] {
		case '*':
			return errors.New("wildcard segments are not supported")
		case '}':
			return errors.New("unexpected '}'")
		case '{':
			depth, end := 1, -1
			for j := i + 1; j < len(path) && end < 0; j++ {
				switch path[j] {
				case '{':
					depth++
				case '}':
					if depth--; depth == 0 {
						end = j
					}
				}
			}
			if end < 0 {
				return errors.New("missing closing '}'")
			}
			name, _, _ := strings.Cut(path[i+1:end], ":")
			name = strings.TrimSpace(name)
			switch {
			case name == "":
				return errors.New("empty parameter name")
			case seen[name]:
				return fmt.Errorf("duplicate parameter %q", name)
			}
			seen[name] = true
			i = end
		}
	}
	return nil
}

// GET registers a GET route.
func (t *RouteTable) GET(path, controller, action string, middleware ...string) error {
	return t.Add(http.MethodGet, path, controller, action, middleware...)
}

// POST registers a POST route.
func (t *RouteTable) POST(path, controller, action string, middleware ...string) error {
	return t.Add(http.MethodPost, path, controller, action, middleware...)
}

// Lookup returns the route declared for exactly this method and path.
func (t *RouteTable) Lookup(method, path string) (Route, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	r, ok := t.routes[routeKey{strings.ToUpper(method), path}]
	return r, ok
}

// Len returns the number of routes.
func (t *RouteTable) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.routes)
}

// Routes returns a snapshot sorted by path, then method.
func (t *RouteTable) Routes() []Route {
	t.mu.RLock()
	out := make([]Route, 0, len(t.routes))
	for _, r := range t.routes {
		out = append(out, r)
	}
	t.mu.RUnlock()

	slices.SortFunc(out, func(a, b Route) int {
		return cmp.Or(cmp.Compare(a.Path, b.Path), cmp.Compare(a.Method, b.Method))
	})
	return out
}

// RouteLoader declares routes on a table. Loaders run on first load and run
// again only when a previous load failed inside one of them.
type RouteLoader func(t *RouteTable) error

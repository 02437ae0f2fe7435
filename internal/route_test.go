package internal_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxitsa/maxitsa/internal"
)

func TestRouteTable_Add(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		method     string
		path       string
		controller string
		action     string
		wantErr    bool
	}{
		{name: "lowercase method", method: "post", path: "/login", controller: "securityController", action: "login"},
		{name: "unknown method", method: "FETCH", path: "/login", controller: "c", action: "a", wantErr: true},
		{name: "relative path", method: "GET", path: "login", controller: "c", action: "a", wantErr: true},
		{name: "missing controller", method: "GET", path: "/", action: "a", wantErr: true},
		{name: "missing action", method: "GET", path: "/", controller: "c", wantErr: true},
		{name: "bound segment", method: "GET", path: "/compte/{id}/detail", controller: "c", action: "a"},
		{name: "bound segment with pattern", method: "GET", path: "/compte/{id:[0-9]{1,9}}", controller: "c", action: "a"},
		{name: "unclosed parameter", method: "GET", path: "/compte/{id", controller: "c", action: "a", wantErr: true},
		{name: "stray closing brace", method: "GET", path: "/compte/id}", controller: "c", action: "a", wantErr: true},
		{name: "empty parameter name", method: "GET", path: "/compte/{}", controller: "c", action: "a", wantErr: true},
		{name: "repeated parameter", method: "GET", path: "/a/{id}/b/{id}", controller: "c", action: "a", wantErr: true},
		{name: "wildcard", method: "GET", path: "/assets/*", controller: "c", action: "a", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rt := internal.NewRouteTable()
			err := rt.Add(tt.method, tt.path, tt.controller, tt.action)
			if tt.wantErr {
				require.ErrorIs(t, err, internal.ErrInvalidRoute)
				assert.Zero(t, rt.Len())
				return
			}
			require.NoError(t, err)
			_, ok := rt.Lookup(tt.method, tt.path)
			assert.True(t, ok)
		})
	}
}

func TestRouteTable_Routes(t *testing.T) {
	t.Parallel()

	rt := internal.NewRouteTable()
	require.NoError(t, rt.POST("/login", "securityController", "login"))
	require.NoError(t, rt.GET("/login", "securityController", "index", "guest"))
	require.NoError(t, rt.GET("/dashboard-client", "accountController", "dashboard", "auth"))

	routes := rt.Routes()
	require.Len(t, routes, 3)
	assert.Equal(t, "/dashboard-client", routes[0].Path)
	assert.Equal(t, http.MethodGet, routes[1].Method)
	assert.Equal(t, http.MethodPost, routes[2].Method)

	routes[1].Middleware[0] = "changed"
	r, _ := rt.Lookup(http.MethodGet, "/login")
	assert.Equal(t, []string{"guest"}, r.Middleware)
}

func TestYAMLRoutes_Errors(t *testing.T) {
	t.Parallel()

	t.Run("malformed document", func(t *testing.T) {
		t.Parallel()
		err := internal.YAMLRoutes([]byte("routes: [oops"))(internal.NewRouteTable())
		require.Error(t, err)
	})

	t.Run("handler without action", func(t *testing.T) {
		t.Parallel()
		rt := internal.NewRouteTable()
		err := internal.YAMLRoutes([]byte(`
routes:
  - method: GET
    path: /
    handler: securityController
  - method: GET
    path: /ok
    handler: securityController@index
`))(rt)
		require.ErrorIs(t, err, internal.ErrInvalidRoute)
		assert.Equal(t, 1, rt.Len())
	})
}

func TestMiddlewareRegistry(t *testing.T) {
	t.Parallel()

	reg := internal.NewMiddlewareRegistry()
	noop := func(next internal.HandlerFunc) internal.HandlerFunc { return next }
	reg.Register("guest", noop)
	reg.Register("auth", noop)
	reg.Register("auth", noop)

	assert.Equal(t, []string{"auth", "guest"}, reg.Names())
	_, ok := reg.Get("admin")
	assert.False(t, ok)
}

package internal_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxitsa/maxitsa/internal"
	"github.com/maxitsa/maxitsa/pkg/container"
	"github.com/maxitsa/maxitsa/pkg/session"
)

type accounts struct{}

func (accounts) Actions() map[string]internal.HandlerFunc {
	return map[string]internal.HandlerFunc{
		"list": func(c internal.Context) error {
			return c.String(http.StatusOK, "list")
		},
		"detail": func(c internal.Context) error {
			id, err := internal.Param[int64](c, "id")
			if err != nil {
				return err
			}
			return c.JSON(http.StatusOK, map[string]int64{"id": id})
		},
		"create": func(c internal.Context) error {
			return c.String(http.StatusCreated, c.Form("nom"))
		},
		"private": func(c internal.Context) error {
			gate, err := c.Session()
			if err != nil {
				return err
			}
			if err := gate.RequireAuthenticated(); err != nil {
				return err
			}
			return c.NoContent(http.StatusNoContent)
		},
		"fail": func(internal.Context) error {
			return errors.New("database down")
		},
		"forbidden": func(internal.Context) error {
			return internal.ErrForbidden("access denied")
		},
		"moved": func(internal.Context) error {
			return internal.Redirect("/ailleurs")
		},
	}
}

func deps() *container.Container {
	return container.NewFromRegistry(container.NewRegistry().
		Controller("accountController", func() (any, error) { return accounts{}, nil }).
		Service("notAController", func() (any, error) { return "text", nil }))
}

func serve(app http.Handler, method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestApp_Dispatch(t *testing.T) {
	t.Parallel()

	app := internal.New(
		internal.WithContainer(deps()),
		internal.WithRoutes(func(rt *internal.RouteTable) error {
			return errors.Join(
				rt.GET("/comptes", "accountController", "list"),
				rt.GET("/compte/{id}", "accountController", "detail"),
				rt.POST("/comptes", "accountController", "create"),
				rt.GET("/fail", "accountController", "fail"),
				rt.GET("/forbidden", "accountController", "forbidden"),
				rt.GET("/moved", "accountController", "moved"),
			)
		}),
	)

	t.Run("matches method and path", func(t *testing.T) {
		t.Parallel()
		rec := serve(app, http.MethodGet, "/comptes")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "list", rec.Body.String())
	})

	t.Run("binds path parameters", func(t *testing.T) {
		t.Parallel()
		rec := serve(app, http.MethodGet, "/compte/42")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"id":42}`, rec.Body.String())
	})

	t.Run("unparseable parameter is a 404", func(t *testing.T) {
		t.Parallel()
		rec := serve(app, http.MethodGet, "/compte/abc")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "404")
	})

	t.Run("unknown path renders the not-found view", func(t *testing.T) {
		t.Parallel()
		rec := serve(app, http.MethodGet, "/nulle-part")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	})

	t.Run("wrong method is a 404", func(t *testing.T) {
		t.Parallel()
		rec := serve(app, http.MethodDelete, "/comptes")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("unexpected error is a 500", func(t *testing.T) {
		t.Parallel()
		rec := serve(app, http.MethodGet, "/fail")
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "database down")
	})

	t.Run("http error keeps its status", func(t *testing.T) {
		t.Parallel()
		rec := serve(app, http.MethodGet, "/forbidden")
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Contains(t, rec.Body.String(), "access denied")
	})

	t.Run("redirect error redirects", func(t *testing.T) {
		t.Parallel()
		rec := serve(app, http.MethodGet, "/moved")
		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/ailleurs", rec.Header().Get("Location"))
	})

	t.Run("form values are sanitized", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodPost, "/comptes", strings.NewReader("nom=+<b>Diop</b>+"))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := httptest.NewRecorder()
		app.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, "Diop", rec.Body.String())
	})
}

func TestApp_LoadOnce(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	app := internal.New(
		internal.WithContainer(deps()),
		internal.WithRoutes(func(rt *internal.RouteTable) error {
			calls.Add(1)
			return rt.GET("/comptes", "accountController", "list")
		}),
	)

	var wg sync.WaitGroup
	for range 16 {
		wg.Go(func() {
			assert.Equal(t, http.StatusOK, serve(app, http.MethodGet, "/comptes").Code)
		})
	}
	wg.Wait()

	require.NoError(t, app.Load())
	assert.Equal(t, int32(1), calls.Load())
}

func TestApp_LoadErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		route   func(rt *internal.RouteTable) error
		wantErr error
	}{
		{
			name:    "unregistered middleware",
			route:   func(rt *internal.RouteTable) error { return rt.GET("/x", "accountController", "list", "admin") },
			wantErr: internal.ErrUnsupportedMiddleware,
		},
		{
			name:    "unknown controller",
			route:   func(rt *internal.RouteTable) error { return rt.GET("/x", "ghostController", "list") },
			wantErr: internal.ErrUnknownController,
		},
		{
			name:    "dependency is not a controller",
			route:   func(rt *internal.RouteTable) error { return rt.GET("/x", "notAController", "list") },
			wantErr: internal.ErrUnknownController,
		},
		{
			name:    "unknown action",
			route:   func(rt *internal.RouteTable) error { return rt.GET("/x", "accountController", "ghost") },
			wantErr: internal.ErrUnknownAction,
		},
		{
			name:    "unclosed parameter",
			route:   func(rt *internal.RouteTable) error { return rt.GET("/compte/{id", "accountController", "detail") },
			wantErr: internal.ErrInvalidRoute,
		},
		{
			name:    "invalid parameter pattern",
			route:   func(rt *internal.RouteTable) error { return rt.GET("/compte/{id:[}", "accountController", "detail") },
			wantErr: internal.ErrInvalidRoute,
		},
		{
			name:    "loader failure",
			route:   func(*internal.RouteTable) error { return errors.New("broken file") },
			wantErr: internal.ErrRouteLoad,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			app := internal.New(internal.WithContainer(deps()), internal.WithRoutes(tt.route))
			var err error
			require.NotPanics(t, func() { err = app.Load() })
			require.ErrorIs(t, err, tt.wantErr)

			require.NotPanics(t, func() {
				assert.Equal(t, http.StatusInternalServerError, serve(app, http.MethodGet, "/x").Code)
			})
		})
	}
}

func TestApp_LoadRetriesAfterFailure(t *testing.T) {
	t.Parallel()

	var attempts, loads atomic.Int32
	c := container.NewFromRegistry(container.NewRegistry().
		Controller("accountController", func() (any, error) {
			if attempts.Add(1) == 1 {
				return nil, errors.New("connection refused")
			}
			return accounts{}, nil
		}))
	app := internal.New(
		internal.WithContainer(c),
		internal.WithRoutes(func(rt *internal.RouteTable) error {
			loads.Add(1)
			return rt.GET("/comptes", "accountController", "list")
		}),
	)

	require.ErrorIs(t, app.Load(), internal.ErrUnknownController)

	rec := serve(app, http.MethodGet, "/comptes")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "list", rec.Body.String())

	require.NoError(t, app.Load())
	assert.Equal(t, int32(2), attempts.Load())
	assert.Equal(t, int32(1), loads.Load())
}

func TestApp_UnsupportedMiddlewareDetails(t *testing.T) {
	t.Parallel()

	app := internal.New(
		internal.WithContainer(deps()),
		internal.WithRoutes(func(rt *internal.RouteTable) error {
			return rt.GET("/admin", "accountController", "list", "admin")
		}),
	)

	var umw *internal.UnsupportedMiddlewareError
	require.ErrorAs(t, app.Load(), &umw)
	assert.Equal(t, "admin", umw.Name)
	assert.Equal(t, http.MethodGet, umw.Method)
	assert.Equal(t, "/admin", umw.Path)
}

func TestApp_MiddlewareOrder(t *testing.T) {
	t.Parallel()

	var (
		mu    sync.Mutex
		trace []string
	)
	record := func(name string) internal.Middleware {
		return func(next internal.HandlerFunc) internal.HandlerFunc {
			return func(c internal.Context) error {
				mu.Lock()
				trace = append(trace, name)
				mu.Unlock()
				return next(c)
			}
		}
	}

	app := internal.New(
		internal.WithContainer(deps()),
		internal.WithMiddleware(record("global")),
		internal.WithNamedMiddleware("first", record("first")),
		internal.WithNamedMiddleware("second", record("second")),
		internal.WithRoutes(func(rt *internal.RouteTable) error {
			return rt.GET("/comptes", "accountController", "list", "first", "second")
		}),
	)

	require.Equal(t, http.StatusOK, serve(app, http.MethodGet, "/comptes").Code)
	assert.Equal(t, []string{"global", "first", "second"}, trace)
}

func TestApp_RedeclaredRouteReplacesEarlier(t *testing.T) {
	t.Parallel()

	app := internal.New(
		internal.WithContainer(deps()),
		internal.WithRoutes(
			func(rt *internal.RouteTable) error { return rt.GET("/x", "accountController", "list") },
			func(rt *internal.RouteTable) error { return rt.GET("/x", "accountController", "moved") },
		),
	)

	route, ok := app.Lookup(http.MethodGet, "/x")
	require.True(t, ok)
	assert.Equal(t, "accountController@moved", route.Handler())
	assert.Len(t, app.Routes(), 1)
	assert.Equal(t, http.StatusFound, serve(app, http.MethodGet, "/x").Code)
}

func TestApp_UnauthenticatedRedirectsToLogin(t *testing.T) {
	t.Parallel()

	app := internal.New(
		internal.WithContainer(deps()),
		internal.WithSession(session.NewMemoryStore()),
		internal.WithLoginPath("/connexion"),
		internal.WithRoutes(func(rt *internal.RouteTable) error {
			return rt.GET("/prive", "accountController", "private")
		}),
	)

	rec := serve(app, http.MethodGet, "/prive")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/connexion", rec.Header().Get("Location"))
}

func TestApp_SessionWithoutStore(t *testing.T) {
	t.Parallel()

	var got error
	app := internal.New(
		internal.WithContainer(deps()),
		internal.WithErrorHandler(func(c internal.Context, err error) error {
			got = err
			return c.NoContent(http.StatusTeapot)
		}),
		internal.WithRoutes(func(rt *internal.RouteTable) error {
			return rt.GET("/prive", "accountController", "private")
		}),
	)

	assert.Equal(t, http.StatusTeapot, serve(app, http.MethodGet, "/prive").Code)
	assert.ErrorIs(t, got, session.ErrNotConfigured)
}

func TestApp_HealthEndpoints(t *testing.T) {
	t.Parallel()

	app := internal.New(
		internal.WithHealthChecks(
			internal.WithReadinessCheck("postgres", func(context.Context) error { return nil }),
			internal.WithReadinessCheck("redis", func(context.Context) error { return errors.New("down") }),
		),
	)

	assert.Equal(t, http.StatusOK, serve(app, http.MethodGet, "/health/live").Code)
	assert.Equal(t, http.StatusServiceUnavailable, serve(app, http.MethodGet, "/health/ready").Code)
}

func TestApp_YAMLRoutes(t *testing.T) {
	t.Parallel()

	doc := []byte(`
routes:
  - method: get
    path: /comptes
    handler: accountController@list
  - method: GET
    path: /compte/{id}
    handler: accountController@detail
    middleware: [trace]
`)

	var traced atomic.Bool
	app := internal.New(
		internal.WithContainer(deps()),
		internal.WithNamedMiddleware("trace", func(next internal.HandlerFunc) internal.HandlerFunc {
			return func(c internal.Context) error {
				traced.Store(true)
				return next(c)
			}
		}),
		internal.WithRoutes(internal.YAMLRoutes(doc)),
	)

	require.NoError(t, app.Load())
	route, ok := app.Lookup(http.MethodGet, "/compte/{id}")
	require.True(t, ok)
	assert.Equal(t, []string{"trace"}, route.Middleware)

	assert.Equal(t, http.StatusOK, serve(app, http.MethodGet, "/comptes").Code)
	assert.False(t, traced.Load())
	assert.Equal(t, http.StatusOK, serve(app, http.MethodGet, "/compte/7").Code)
	assert.True(t, traced.Load())
}

package middlewares_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/maxitsa/maxitsa/internal"
	"github.com/maxitsa/maxitsa/middlewares"
	"github.com/maxitsa/maxitsa/pkg/container"
	"github.com/maxitsa/maxitsa/pkg/session"
)

const cookieName = "maxitsa_session"

type pages struct{}

func (pages) Actions() map[string]internal.HandlerFunc {
	return map[string]internal.HandlerFunc{
		"ok": func(c internal.Context) error {
			return c.String(http.StatusOK, "ok")
		},
		"panic": func(internal.Context) error {
			panic("boom")
		},
		"reqid": func(c internal.Context) error {
			return c.String(http.StatusOK, middlewares.GetRequestID(c))
		},
	}
}

func newApp(store session.Store, opts ...internal.Option) *internal.App {
	deps := container.NewFromRegistry(container.NewRegistry().
		Controller("pages", func() (any, error) { return pages{}, nil }))

	base := []internal.Option{
		internal.WithContainer(deps),
		internal.WithSession(store),
		internal.WithNamedMiddleware("auth", middlewares.Auth()),
		internal.WithNamedMiddleware("guest", middlewares.Guest()),
		internal.WithRoutes(func(t *internal.RouteTable) error {
			return errors.Join(
				t.GET("/", "pages", "ok", "guest"),
				t.GET("/dashboard-client", "pages", "ok", "auth"),
				t.GET("/panic", "pages", "panic"),
				t.GET("/reqid", "pages", "reqid"),
			)
		}),
	}
	return internal.New(append(base, opts...)...)
}

// seed stores a session holding p and returns its cookie.
func seed(t *testing.T, store *session.MemoryStore, p any) *http.Cookie {
	t.Helper()

	sess := session.New("sid-"+t.Name(), "tok-"+t.Name(), time.Now().Add(time.Hour))
	if p != nil {
		sess.SetValue(session.PrincipalKey, p)
	}
	require.NoError(t, store.Save(context.Background(), sess))
	return &http.Cookie{Name: cookieName, Value: sess.Token}
}

func expiredCookie(resp *http.Response) bool {
	for _, c := range resp.Cookies() {
		if c.Name == cookieName && c.MaxAge < 0 {
			return true
		}
	}
	return false
}

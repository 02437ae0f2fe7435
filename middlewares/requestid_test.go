package middlewares_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxitsa/maxitsa/internal"
	"github.com/maxitsa/maxitsa/middlewares"
	"github.com/maxitsa/maxitsa/pkg/session"
)

func TestRequestID(t *testing.T) {
	t.Parallel()

	app := newApp(session.NewMemoryStore(), internal.WithMiddleware(middlewares.RequestID()))

	t.Run("generates an id", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		app.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reqid", nil))

		id := rec.Header().Get(middlewares.RequestIDHeader)
		require.NotEmpty(t, id)
		assert.Equal(t, id, rec.Body.String())
		parsed, err := uuid.Parse(id)
		require.NoError(t, err)
		assert.Equal(t, uuid.Version(7), parsed.Version())
	})

	t.Run("keeps the upstream id", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/reqid", nil)
		req.Header.Set(middlewares.RequestIDHeader, "edge-123")
		rec := httptest.NewRecorder()
		app.ServeHTTP(rec, req)

		assert.Equal(t, "edge-123", rec.Header().Get(middlewares.RequestIDHeader))
		assert.Equal(t, "edge-123", rec.Body.String())
	})
}

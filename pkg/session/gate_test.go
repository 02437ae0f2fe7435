package session_test

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxitsa/maxitsa/pkg/session"
)

func freshFactory() func() *session.Session {
	n := 0
	return func() *session.Session {
		n++
		return session.New("id-"+strconv.Itoa(n), "token-"+strconv.Itoa(n), time.Now().Add(time.Hour))
	}
}

func persisted(id, token string) *session.Session {
	s := session.New(id, token, time.Now().Add(time.Hour))
	s.ClearNew()
	s.ClearDirty()
	return s
}

func TestGate_Values(t *testing.T) {
	t.Parallel()

	g := session.NewGate(persisted("s1", "t1"), freshFactory())

	assert.False(t, g.Has("flash"))
	g.Set("flash", "saved")
	assert.True(t, g.Has("flash"))

	v, ok := g.Get("flash")
	require.True(t, ok)
	assert.Equal(t, "saved", v)
	assert.True(t, g.Current().IsDirty())

	g.Unset("flash")
	_, ok = g.Get("flash")
	assert.False(t, ok)

	g.Set("nothing", nil)
	assert.False(t, g.Has("nothing"), "nil values count as absent")
}

func TestGate_NilSessionStartsFresh(t *testing.T) {
	t.Parallel()

	g := session.NewGate(nil, freshFactory())
	require.NotNil(t, g.Current())
	assert.True(t, g.Current().IsNew())
	assert.Equal(t, "token-1", g.Current().Token)
}

func TestGate_Principal(t *testing.T) {
	t.Parallel()

	t.Run("typed value", func(t *testing.T) {
		t.Parallel()
		g := session.NewGate(persisted("s1", "t1"), freshFactory())
		assert.False(t, g.IsAuthenticated())
		assert.ErrorIs(t, g.RequireAuthenticated(), session.ErrUnauthenticated)

		g.SetPrincipal(session.Principal{ID: "42", AccountStatus: session.StatusActive})

		p, ok := g.Principal()
		require.True(t, ok)
		assert.Equal(t, "42", p.ID)
		assert.True(t, p.IsActive())
		assert.NoError(t, g.RequireAuthenticated())
	})

	t.Run("decoded from a serialized map", func(t *testing.T) {
		t.Parallel()
		s := persisted("s1", "t1")
		s.Values[session.PrincipalKey] = map[string]any{
			"id":             "7",
			"telephone":      "771234567",
			"account_status": "BLOQUE",
		}
		g := session.NewGate(s, freshFactory())

		p, ok := g.Principal()
		require.True(t, ok)
		assert.Equal(t, "7", p.ID)
		assert.Equal(t, "771234567", p.Telephone)
		assert.False(t, p.IsActive())
	})

	t.Run("unexpected type is not a principal", func(t *testing.T) {
		t.Parallel()
		s := persisted("s1", "t1")
		s.Values[session.PrincipalKey] = 12
		g := session.NewGate(s, freshFactory())

		_, ok := g.Principal()
		assert.False(t, ok)
		assert.True(t, g.IsAuthenticated(), "presence check only looks at the key")
	})
}

func TestGate_Destroy(t *testing.T) {
	t.Parallel()

	g := session.NewGate(persisted("s1", "t1"), freshFactory())
	g.SetPrincipal(session.Principal{ID: "1"})

	g.Destroy()

	assert.False(t, g.IsAuthenticated())
	assert.Equal(t, []string{"t1"}, g.Retired())
	assert.NotEqual(t, "t1", g.Current().Token)
	assert.False(t, g.Current().IsDirty(), "an empty replacement session is not persisted")

	g.Set("after", true)
	assert.True(t, g.Current().IsDirty())
}

func TestGate_Regenerate(t *testing.T) {
	t.Parallel()

	g := session.NewGate(persisted("s1", "t1"), freshFactory())
	g.Set("lang", "fr")

	g.Regenerate()

	assert.Equal(t, []string{"t1"}, g.Retired())
	assert.NotEqual(t, "t1", g.Current().Token)
	v, ok := g.Get("lang")
	require.True(t, ok)
	assert.Equal(t, "fr", v)
}

func TestGate_DestroyNewSessionRetiresNothing(t *testing.T) {
	t.Parallel()

	g := session.NewGate(nil, freshFactory())
	g.Destroy()
	assert.Empty(t, g.Retired())
}

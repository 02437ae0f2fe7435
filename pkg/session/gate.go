package session

import "sync"

// Gate exposes typed access to one browser session for the duration of a request.
//
// Destroy and Regenerate retire the current token and switch to a fresh session;
// the HTTP layer deletes retired tokens from the store when it commits the gate.
type Gate struct {
	mu      sync.Mutex
	sess    *Session
	fresh   func() *Session
	retired []string
}

// NewGate attaches a gate to sess. fresh builds a new, unsaved session and is
// used by Destroy and Regenerate. If sess is nil, a fresh session is started.
func NewGate(sess *Session, fresh func() *Session) *Gate {
	if sess == nil {
		sess = fresh()
	}
	return &Gate{sess: sess, fresh: fresh}
}

// Set stores a value in the session.
func (g *Gate) Set(key string, value any) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.sess.SetValue(key, value)
}

// Get returns the value stored under key.
func (g *Gate) Get(key string) (any, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.sess.GetValue(key)
}

// Has reports whether key holds a non-nil value.
func (g *Gate) Has(key string) bool {
	v, ok := g.Get(key)
	return ok && v != nil
}

// Unset removes key from the session.
func (g *Gate) Unset(key string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.sess.DeleteValue(key)
}

// Destroy invalidates the whole session. Later writes go to a new session.
func (g *Gate) Destroy() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.sess.IsNew() {
		g.retired = append(g.retired, g.sess.Token)
	}
	g.sess = g.fresh()
	g.sess.ClearDirty()
}

// Regenerate moves the current values to a session with a new token.
// Call after login to prevent session fixation.
func (g *Gate) Regenerate() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.sess.IsNew() {
		g.retired = append(g.retired, g.sess.Token)
	}
	values := g.sess.Values
	g.sess = g.fresh()
	for k, v := range values {
		g.sess.SetValue(k, v)
	}
}

// Principal returns the authenticated principal, if any.
func (g *Gate) Principal() (Principal, bool) {
	v, ok := g.Get(PrincipalKey)
	if !ok || v == nil {
		return Principal{}, false
	}
	p, err := principalFrom(v)
	if err != nil {
		return Principal{}, false
	}
	return p, true
}

// SetPrincipal stores p under PrincipalKey.
func (g *Gate) SetPrincipal(p Principal) {
	g.Set(PrincipalKey, p)
}

// IsAuthenticated reports whether a principal is present.
func (g *Gate) IsAuthenticated() bool {
	return g.Has(PrincipalKey)
}

// RequireAuthenticated returns ErrUnauthenticated when no principal is present.
// The HTTP layer turns the error into a terminating redirect.
func (g *Gate) RequireAuthenticated() error {
	if !g.IsAuthenticated() {
		return ErrUnauthenticated
	}
	return nil
}

// Current returns the session the gate is attached to.
func (g *Gate) Current() *Session {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.sess
}

// Retired returns tokens of sessions destroyed or regenerated through this gate.
func (g *Gate) Retired() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.retired...)
}

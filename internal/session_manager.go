package internal

import (
	"context"
	"crypto/rand"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/maxitsa/maxitsa/pkg/logger"
	"github.com/maxitsa/maxitsa/pkg/session"
)

// Default session configuration.
const (
	defaultSessionCookieName = "maxitsa_session"
	defaultSessionMaxAge     = 86400 // 24 hours
)

// SessionManager loads, starts and persists browser sessions.
type SessionManager struct {
	store      session.Store
	logger     *slog.Logger
	cookieName string
	domain     string
	path       string
	maxAge     int
	sameSite   http.SameSite
	secure     bool
	httpOnly   bool
}

// SessionOption configures the SessionManager.
type SessionOption func(*SessionManager)

// NewSessionManager creates a new SessionManager with the given store and options.
func NewSessionManager(store session.Store, opts ...SessionOption) *SessionManager {
	sm := &SessionManager{
		store:      store,
		logger:     logger.NewNope(),
		cookieName: defaultSessionCookieName,
		maxAge:     defaultSessionMaxAge,
		path:       "/",
		httpOnly:   true,
		sameSite:   http.SameSiteLaxMode,
	}

	for _, opt := range opts {
		opt(sm)
	}

	return sm
}

// WithSessionCookieName sets the session cookie name.
func WithSessionCookieName(name string) SessionOption {
	return func(sm *SessionManager) {
		if name != "" {
			sm.cookieName = name
		}
	}
}

// WithSessionMaxAge sets the session lifetime in seconds.
func WithSessionMaxAge(seconds int) SessionOption {
	return func(sm *SessionManager) {
		if seconds > 0 {
			sm.maxAge = seconds
		}
	}
}

// WithSessionDomain sets the session cookie domain.
func WithSessionDomain(domain string) SessionOption {
	return func(sm *SessionManager) {
		sm.domain = domain
	}
}

// WithSessionSecure sets the session cookie Secure flag.
func WithSessionSecure(secure bool) SessionOption {
	return func(sm *SessionManager) {
		sm.secure = secure
	}
}

// WithSessionSameSite sets the session cookie SameSite attribute.
func WithSessionSameSite(sameSite http.SameSite) SessionOption {
	return func(sm *SessionManager) {
		sm.sameSite = sameSite
	}
}

// SetLogger sets the logger for session events. Called by App after initialization.
func (sm *SessionManager) SetLogger(l *slog.Logger) {
	if l != nil {
		sm.logger = l
	}
}

// Store returns the underlying session store.
func (sm *SessionManager) Store() session.Store {
	return sm.store
}

// CookieName returns the name of the session cookie.
func (sm *SessionManager) CookieName() string {
	return sm.cookieName
}

// Load returns the session named by the request cookie.
// Returns nil, nil when there is no cookie or the stored session is gone or expired.
func (sm *SessionManager) Load(ctx context.Context, r *http.Request) (*session.Session, error) {
	cookie, err := r.Cookie(sm.cookieName)
	if err != nil || cookie.Value == "" {
		return nil, nil
	}

	sess, err := sm.store.Get(ctx, cookie.Value)
	switch {
	case errors.Is(err, session.ErrNotFound), errors.Is(err, session.ErrExpired):
		return nil, nil
	case err != nil:
		return nil, err
	}
	return sess, nil
}

// Start builds a new unsaved session for the request.
func (sm *SessionManager) Start(r *http.Request) *session.Session {
	sess := session.New(uuid.NewString(), rand.Text(), time.Now().Add(time.Duration(sm.maxAge)*time.Second))
	sess.IP = remoteIP(r)
	sess.UserAgent = r.UserAgent()
	return sess
}

// Commit persists the gate state and writes the cookie. Tokens retired by
// Destroy or Regenerate are deleted first. A new session holding no values
// is never stored.
func (sm *SessionManager) Commit(ctx context.Context, w http.ResponseWriter, g *session.Gate) error {
	retired := g.Retired()
	var errs []error
	for _, token := range retired {
		if err := sm.store.Delete(ctx, token); err != nil {
			errs = append(errs, err)
		}
	}

	sess := g.Current()
	switch {
	case sess.IsDirty() && !(sess.IsNew() && len(sess.Values) == 0):
		sess.LastActiveAt = time.Now()
		if err := sm.store.Save(ctx, sess); err != nil {
			errs = append(errs, err)
			break
		}
		sess.ClearDirty()
		sess.ClearNew()
		sm.writeCookie(w, sess.Token)
	case sess.IsNew() && len(retired) > 0:
		sm.clearCookie(w)
	}

	return errors.Join(errs...)
}

func (sm *SessionManager) writeCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sm.cookieName,
		Value:    token,
		Path:     sm.path,
		Domain:   sm.domain,
		MaxAge:   sm.maxAge,
		Secure:   sm.secure,
		HttpOnly: sm.httpOnly,
		SameSite: sm.sameSite,
	})
}

func (sm *SessionManager) clearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sm.cookieName,
		Value:    "",
		Path:     sm.path,
		Domain:   sm.domain,
		MaxAge:   -1,
		Secure:   sm.secure,
		HttpOnly: sm.httpOnly,
		SameSite: sm.sameSite,
	})
}

func remoteIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

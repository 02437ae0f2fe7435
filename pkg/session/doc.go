// Package session provides server-side browser sessions and the request-scoped
// session gate.
//
// A [Session] is a key-value record addressed by an opaque cookie token and kept
// in a [Store] ([RedisStore] in production, [MemoryStore] for tests). A [Gate]
// wraps one session for the duration of a request and exposes typed access:
//
//	gate.Set("flash", "saved")
//	v, ok := gate.Get("flash")
//	gate.Unset("flash")
//	gate.Destroy() // logout
//
// The authenticated user lives under [PrincipalKey] ("user") as a [Principal]:
//
//	gate.SetPrincipal(session.Principal{ID: id, AccountStatus: session.StatusActive})
//	if err := gate.RequireAuthenticated(); err != nil {
//	    // session.ErrUnauthenticated
//	}
//
// Sessions are scoped per browser: stores hand out copies, so two requests never
// share one Values map.
package session

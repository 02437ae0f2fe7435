package internal

// HandlerFunc is the signature for controller actions.
// Returning a non-nil error hands the request to the App error handler.
type HandlerFunc func(c Context) error

// Middleware wraps a HandlerFunc. A middleware that returns without calling
// next terminates the request.
//
// Example:
//
//	func Auth(next maxitsa.HandlerFunc) maxitsa.HandlerFunc {
//	    return func(c maxitsa.Context) error {
//	        gate, err := c.Session()
//	        if err != nil || !gate.IsAuthenticated() {
//	            return c.Redirect(http.StatusFound, "/")
//	        }
//	        return next(c)
//	    }
//	}
type Middleware func(next HandlerFunc) HandlerFunc

// ErrorHandler handles errors returned from actions and middleware.
type ErrorHandler func(Context, error) error

// Controller exposes named actions. Routes reference a controller by its
// dependency key and an action by name.
//
// Example:
//
//	func (h *SecurityController) Actions() map[string]maxitsa.HandlerFunc {
//	    return map[string]maxitsa.HandlerFunc{
//	        "index": h.index,
//	        "login": h.login,
//	    }
//	}
type Controller interface {
	Actions() map[string]HandlerFunc
}

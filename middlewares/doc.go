// Package middlewares provides the request gates and global middleware of
// the site.
//
// Auth and Guest are referenced by name from route declarations; the root
// package registers them as "auth" and "guest":
//
//	routes:
//	  - method: GET
//	    path: /dashboard-client
//	    handler: compteController@showDashboardClient
//	    middleware: [auth]
//
// Auth requires an active principal in the session and ends the request with
// a redirect otherwise. Guest is the reverse: it keeps signed-in users away
// from the login and registration pages.
//
// RequestID and Recover run on every request:
//
//	app := maxitsa.New(
//	    maxitsa.WithLogger("web", middlewares.RequestIDExtractor()),
//	    maxitsa.WithMiddleware(
//	        middlewares.RequestID(),
//	        middlewares.Recover(),
//	    ),
//	)
package middlewares

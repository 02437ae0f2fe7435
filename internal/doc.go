// Package internal provides the core types and implementation of the maxitsa
// web substrate.
//
// This package is internal and should not be used directly. Import
// "github.com/maxitsa/maxitsa" instead, which re-exports the public API.
//
// # Core Types
//
//   - App: loads the route table once, dispatches requests and runs the server
//   - Context: request/response access, session gate, form validation and logging
//   - RouteTable: routes keyed by method and path, declared by RouteLoaders
//   - MiddlewareRegistry: names used in route declarations mapped to Middleware
//   - Controller: a container dependency exposing named actions
//   - SessionManager: loads, starts and commits browser sessions
//
// # Route Declarations
//
// Routes name their handler as "controller@action" and list middleware by
// name. The controller is resolved from the dependency container when the
// table loads:
//
//	routes:
//	  - method: GET
//	    path: /compte/{id}
//	    handler: compteController@showCompteDetail
//	    middleware: [auth]
//
// Load fails when a route names an unregistered middleware, a controller the
// container cannot build, or an action the controller does not expose. The
// failure surfaces on the first request, before any handler runs.
//
// # Request Flow
//
// One Context is built per request. Global middleware wraps outermost, then
// the route's named middleware in declared order, then the action. Errors
// returned from the chain are turned into responses:
//
//   - RedirectError: redirect to its URL
//   - session.ErrUnauthenticated: redirect to the login path
//   - HTTPError with status 404: the not-found view
//   - other HTTPError: its status and message
//   - anything else: 500
//
// A custom ErrorHandler replaces the last three cases.
//
// # Sessions
//
// Context.Session loads the session named by the request cookie, or starts a
// new one. Changes are committed right before the first byte of the response
// is written, and at the end of the request when the handler wrote nothing.
// A new session that was never given a value is not stored.
package internal

// Package maxitsa is the web substrate of the MAXITSA banking site.
//
// It wires four pieces together: a lazy dependency container, a session gate,
// a rule-based form validator and a route table whose entries name a
// controller action and a list of route middleware.
//
// # Quick Start
//
//	deps := maxitsa.NewContainer(func() *maxitsa.Registry {
//	    return maxitsa.NewRegistry().
//	        Core("database", func() (any, error) { return pool, nil }).
//	        Repository("userRepository", func() (any, error) { return repository.NewUsers(db.SQLX(pool)), nil }).
//	        Controller("securityController", func() (any, error) { ... })
//	})
//
//	app := maxitsa.New(
//	    maxitsa.WithContainer(deps),
//	    maxitsa.WithSession(session.NewRedisStore(client)),
//	    maxitsa.WithRoutes(maxitsa.YAMLRoutes(routesYAML)),
//	)
//
//	if err := app.Run(":8080"); err != nil {
//	    log.Fatal(err)
//	}
//
// # Controllers
//
// A controller is any container dependency implementing [Controller]. Routes
// refer to it as "key@action":
//
//	routes:
//	  - method: POST
//	    path: /login
//	    handler: securityController@login
//	    middleware: [guest]
//
// # Route Middleware
//
// "auth" and "guest" are always registered. "auth" admits only sessions
// holding an active principal; "guest" sends signed-in users to the
// dashboard. A route naming any other unregistered middleware fails the
// route table load.
//
// # Validation
//
// Context.Validate checks the submitted form against rule chains written as
// "required|min_length:3|unique:userRepository,telephone". The result maps
// each failing field to one French message.
package maxitsa

// Package container provides a lazy, process-wide dependency container.
//
// Services are declared in a [Registry] as zero-argument factories grouped into
// categories (core, services, repositories, controllers). Categories organize the
// declaration only: lookup is flat across all of them.
//
// The registry itself is produced lazily by a loader function on first access,
// and each key's factory runs at most once per successful resolution. Concurrent
// first calls for the same key share one factory run.
//
//	c := container.New(func() *container.Registry {
//	    return container.NewRegistry().
//	        Core("database", func() (any, error) { return db.Connect(ctx, cfg) }).
//	        Repository("userRepository", func() (any, error) {
//	            pool, err := container.Resolve[*pgxpool.Pool](c, "database")
//	            if err != nil {
//	                return nil, err
//	            }
//	            return repository.NewUsers(pool), nil
//	        })
//	})
//
//	repo, err := container.Resolve[*repository.Users](c, "userRepository")
//
// # Errors
//
//   - [ErrUnresolvedDependency] - key declared in no category ([UnresolvedDependencyError] carries it)
//   - [ErrFactory] - the factory returned an error; nothing is cached
//   - [ErrTypeMismatch] - [Resolve] found an instance of another type
package container

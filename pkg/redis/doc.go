// Package redis opens the Redis client that backs browser sessions.
//
//	client, err := redis.Open(ctx, redis.Config{URL: "redis://localhost:6379/0"}, log)
//	if err != nil {
//		return err
//	}
//
//	app := maxitsa.New(
//		maxitsa.WithSession(session.NewRedisStore(client)),
//		maxitsa.WithHealthChecks(maxitsa.WithReadinessCheck("redis", redis.Healthcheck(client))),
//	)
//	app.Run(":8080", maxitsa.ShutdownHook(redis.Shutdown(client)))
//
// Config fields are read from REDIS_* environment variables.
package redis

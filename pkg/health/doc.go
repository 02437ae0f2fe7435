// Package health serves the liveness and readiness probes of the site.
//
// Liveness always answers OK. Readiness runs every registered check
// concurrently and answers 503 when one fails:
//
//	maxitsa.WithHealthChecks(
//		maxitsa.WithReadinessCheck("postgres", db.Healthcheck(pool)),
//		maxitsa.WithReadinessCheck("redis", redis.Healthcheck(client)),
//	)
//
// Responses are plain text unless the client asks for JSON:
//
//	{"status":"unhealthy","checks":{"redis":{"status":"unhealthy","error":"...","latency_ms":3}}}
package health

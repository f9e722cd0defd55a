// Package health provides liveness and readiness HTTP handlers.
//
// [LivenessHandler] always answers OK. [ReadinessHandler] runs a set of named
// [Checks] in parallel under a shared timeout and answers 503 if any fails.
// Both honour ?format=json or an Accept: application/json header; otherwise
// they reply with plain text.
//
//	r.Get("/health/live", health.LivenessHandler())
//	r.Get("/health/ready", health.ReadinessHandler(health.Checks{
//	    "postgres":       db.Healthcheck(pool),
//	    "sla-scheduler":  periodic.Healthcheck(sched, 15*time.Minute),
//	}))
//
// Any func(context.Context) error can be used as a [CheckFunc].
package health

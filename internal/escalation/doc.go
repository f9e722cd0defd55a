// Package escalation binds the case-management SLA escalation sweep to a
// periodic.CheckFunc.
//
// The escalation rules live in the case database and are opaque here: a
// Sweeper only triggers them. PostgresSweeper runs a single statement
// (SELECT check_sla_escalations() by default) inside a transaction.
//
// Several replicas may run the same scheduler. A Guard backed by a Redis
// lock lets only one of them sweep per interval: the lock outlives a
// successful sweep until its TTL expires, and the others skip quietly.
//
//	sweeper := escalation.NewPostgresSweeper(pool)
//	guard, _ := escalation.NewGuard(rdb, "civicpulse:sla:lock", 5*time.Minute)
//	check := escalation.Check(sweeper, escalation.WithGuard(guard))
//	sched, _ := periodic.New(check, 5*time.Minute)
package escalation

// Package periodic runs a single check function repeatedly at a fixed spacing,
// in the background, for the lifetime of a process.
//
// It is used by the helpdesk to re-evaluate SLA compliance of open cases, but
// the package knows nothing about cases: the work is an injected [CheckFunc].
//
// # Timing Model
//
// The first invocation happens as soon as [Scheduler.Start] is called. After
// each invocation completes, the loop sleeps for the configured interval and
// then invokes the check again. The interval is the gap between the end of one
// invocation and the start of the next, so a slow check pushes the schedule
// back instead of overlapping with itself:
//
//	check (10s) | sleep (300s) | check (10s) | sleep (300s) | ...
//	^0s                        ^310s                        ^620s
//
// Invocations never run concurrently with each other.
//
// # Failure Isolation
//
// A check that returns an error or panics does not stop the loop. Every
// outcome is turned into a [Result]; failures carry a [*CheckError] that wraps
// the cause and matches [ErrCheckFailed] with errors.Is. The failure is logged
// once and passed to every registered hook, then the loop sleeps for the
// normal interval. There is no retry or backoff: the next tick is the retry.
//
// # Usage
//
//	sched, err := periodic.New(sweeper.CheckSLAEscalations, 5*time.Minute,
//	    periodic.WithName("sla-escalations"),
//	    periodic.WithTimeout(2*time.Minute),
//	    periodic.WithLogger(log),
//	    periodic.WithHook(recorder.Observe),
//	)
//	if err != nil {
//	    return err
//	}
//
//	if err := sched.Start(ctx); err != nil { // returns immediately
//	    return err
//	}
//	defer sched.Stop(context.Background())
//
// # Lifecycle
//
// A Scheduler moves from [StateIdle] to [StateRunning] on Start and to
// [StateStopped] when its context is cancelled or Stop is called. Stopped is
// terminal; construct a new Scheduler to run again. [Scheduler.StartFunc] and
// [Scheduler.Shutdown] adapt the lifecycle to host startup and shutdown hooks.
//
// # Timeouts
//
// [WithTimeout] bounds each invocation with a context deadline. The deadline
// is cooperative: the loop still waits for the check to return so that the
// no-overlap guarantee holds even for checks that ignore their context.
//
// # Testing
//
// [WithClock] accepts a clockwork.Clock. Tests pass a fake clock and advance
// it to drive the schedule deterministically.
package periodic

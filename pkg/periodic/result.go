package periodic

import "time"

// State is the lifecycle state of a Scheduler.
type State int

const (
	// StateIdle is the state of a constructed scheduler that has not started.
	StateIdle State = iota
	// StateRunning means the background loop is active.
	StateRunning
	// StateStopped is terminal.
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Result is the outcome of a single invocation.
// Err is nil on success and a *CheckError otherwise.
type Result struct {
	StartedAt time.Time
	Err       error
	RunID     string
	Seq       uint64
	Duration  time.Duration
}

// Failed reports whether the invocation failed.
func (r Result) Failed() bool {
	return r.Err != nil
}

// FinishedAt returns the time the invocation completed.
func (r Result) FinishedAt() time.Time {
	return r.StartedAt.Add(r.Duration)
}

// Stats is a point-in-time summary of a scheduler's invocations.
type Stats struct {
	LastSuccessAt       time.Time
	LastFinishedAt      time.Time
	Invocations         uint64
	Failures            uint64
	ConsecutiveFailures uint64
}

func (st *Stats) record(r Result) {
	st.LastFinishedAt = r.FinishedAt()
	if r.Failed() {
		st.Failures++
		st.ConsecutiveFailures++
		return
	}
	st.ConsecutiveFailures = 0
	st.LastSuccessAt = st.LastFinishedAt
}

package periodic

import (
	"errors"
	"fmt"
)

// Scheduler errors.
var (
	// ErrInvalidInterval is returned by New when the interval is not positive.
	ErrInvalidInterval = errors.New("periodic: interval must be positive")

	// ErrNilCheck is returned by New when no check function is supplied.
	ErrNilCheck = errors.New("periodic: check function is required")

	// ErrAlreadyStarted is returned when starting a scheduler that is running.
	ErrAlreadyStarted = errors.New("periodic: already started")

	// ErrStopped is returned when starting a scheduler that has been stopped.
	// Stopped schedulers cannot be restarted.
	ErrStopped = errors.New("periodic: stopped")

	// ErrBusy is returned when an invocation is already in progress via RunOnce.
	ErrBusy = errors.New("periodic: invocation in progress")

	// ErrStopTimeout is returned by Stop when the loop does not exit
	// before the given context is done.
	ErrStopTimeout = errors.New("periodic: stop timed out")

	// ErrCheckFailed matches every *CheckError.
	ErrCheckFailed = errors.New("periodic: check failed")

	// ErrCheckPanicked is the cause recorded when a check panics.
	ErrCheckPanicked = errors.New("periodic: check panicked")
)

// CheckError describes one failed invocation of the check function.
// The underlying cause is opaque to the scheduler.
type CheckError struct {
	Err   error
	RunID string
	Seq   uint64
}

func (e *CheckError) Error() string {
	return fmt.Sprintf("periodic: check #%d (run %s) failed: %v", e.Seq, e.RunID, e.Err)
}

func (e *CheckError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrCheckFailed.
// The wrapped cause is matched through Unwrap.
func (e *CheckError) Is(target error) bool {
	return target == ErrCheckFailed
}

package escalation

import "errors"

var (
	// ErrUnavailable is returned when no case-management backend is bound.
	ErrUnavailable = errors.New("escalation: case management unavailable")
	// ErrSweepFailed wraps errors raised by the escalation sweep itself.
	ErrSweepFailed = errors.New("escalation: sweep failed")
	// ErrLockFailed is returned when the cluster lock cannot be acquired or checked.
	ErrLockFailed = errors.New("escalation: lock failed")

	ErrEmptyLockKey   = errors.New("escalation: empty lock key")
	ErrInvalidLockTTL = errors.New("escalation: lock ttl must be positive")
	ErrNilLocker      = errors.New("escalation: nil locker")
)

package health

import "errors"

// ErrCheckTimeout is joined to a check's error when it fails after the
// shared timeout expired.
var ErrCheckTimeout = errors.New("health: check timeout")

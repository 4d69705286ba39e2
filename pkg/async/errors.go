package async

import "errors"

// ErrTimeout is returned when a future does not complete in time.
var ErrTimeout = errors.New("async: operation timed out waiting for future completion")

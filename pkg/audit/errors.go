package audit

import "errors"

var (
	// ErrInvalidEntry indicates the entry is missing required fields.
	ErrInvalidEntry = errors.New("audit: invalid entry")

	// ErrStorageClosed indicates the async writer has shut down.
	ErrStorageClosed = errors.New("audit: storage closed")
)

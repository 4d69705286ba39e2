// Package audit records security-relevant events for compliance review.
//
// The Logger stamps every entry with a unique ID, the client IP and user
// agent taken from the request context, and a creation time. Storage errors
// are reported to the configured slog.Logger but never returned to callers:
// an audit write failure must not fail the operation it records.
//
// For high-volume deployments wrap the backend in an AsyncWriter, which
// batches writes through a background worker and degrades to synchronous
// writes when its buffer fills.
//
// Entries older than RetentionPeriod are expected to be expired by the
// storage backend, typically with a TTL index.
package audit

// Package mongo provides MongoDB persistence for identities, the
// refresh-token ledger, and the audit trail.
//
// Connection management is environment-driven with retry logic for
// transient startup failures. Each store expresses its mutations as single
// atomic updates: login-attempt counters use $inc/$set/$unset, one-time
// tokens are matched and cleared in one findOneAndUpdate, and refresh-token
// rotation is a conditional update on {token, isActive: true} so the swap
// is exclusive under concurrency.
//
// Call EnsureIndexes at startup: it creates the unique email and token
// indexes the stores depend on, plus the TTL indexes that expire refresh
// tokens and audit entries server-side.
package mongo

// Package auth implements the identity model and authentication flows:
// registration, login with lockout, refresh-token rotation, logout, email
// verification, and password reset.
//
// The Service is the flow controller. It depends on a UserStore and a
// refresh-token Ledger for durable state, signs access tokens through
// pkg/jwt, and records every flow in the audit trail. Lookups that would
// reveal whether an account exists collapse to ErrInvalidCredentials or a
// constant response.
package auth

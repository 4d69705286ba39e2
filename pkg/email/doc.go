// Package email sends transactional mail through Postmark.
//
// The EmailSender interface decouples callers from the delivery mechanism:
// production uses NewPostmarkClient, local development uses NewDevSender
// which logs instead of sending. Template builders produce the account
// verification, password reset, and welcome emails with their one-time
// token links baked in.
package email

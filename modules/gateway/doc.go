// Package gateway is the enforcement point in front of the clinic services.
//
// The Enforcer verifies Bearer access tokens, checks the caller's role
// against the permission registry, and audits every denial. Requests that
// pass are forwarded through ServiceProxy, which strips any client-supplied
// identity headers and stamps the verified X-User-Id, X-User-Role,
// X-Clinic-Id, and X-Branch-Id values downstream services trust.
package gateway

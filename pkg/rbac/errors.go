package rbac

import "errors"

// Domain errors for registry construction and policy loading.
var (
	// ErrUnknownPermission is returned when a policy grants a permission
	// that is not part of the catalog.
	ErrUnknownPermission = errors.New("rbac: unknown permission")

	// ErrUnknownRole is returned when a policy configures a role outside
	// the fixed role set.
	ErrUnknownRole = errors.New("rbac: unknown role")

	// ErrMissingRole is returned when a policy does not cover every role.
	ErrMissingRole = errors.New("rbac: role has no config")

	// ErrInvalidPolicy is returned when a policy document cannot be parsed.
	ErrInvalidPolicy = errors.New("rbac: invalid policy document")
)

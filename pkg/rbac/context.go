package rbac

import "context"

// roleCtxKey is the context key for the authenticated role.
type roleCtxKey struct{}

// SetRoleToContext stores the authenticated role in the context.
func SetRoleToContext(ctx context.Context, role Role) context.Context {
	return context.WithValue(ctx, roleCtxKey{}, role)
}

// RoleFromContext retrieves the authenticated role from the context.
func RoleFromContext(ctx context.Context) (Role, bool) {
	role, ok := ctx.Value(roleCtxKey{}).(Role)
	return role, ok
}

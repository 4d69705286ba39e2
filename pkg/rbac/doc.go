// Package rbac defines the platform's closed permission catalog, the fixed
// role set, and the registry that answers permission checks.
//
// The registry is constructed once at process start from a RoleSource and is
// read-only afterwards. Checks are plain map lookups: no allocation, no
// locking, bounded time. Unknown roles always fail closed to an empty
// permission set.
//
// Basic usage:
//
//	registry := rbac.MustNewRegistry(rbac.DefaultSource())
//
//	if registry.HasAny(rbac.RoleDoctor, rbac.PatientRecordRead) {
//	    // allowed
//	}
//
// Deployments can override individual roles with a YAML policy file:
//
//	src, err := rbac.NewYAMLSource(file)
//	if err != nil { ... }
//	registry, err := rbac.NewRegistry(src)
package rbac

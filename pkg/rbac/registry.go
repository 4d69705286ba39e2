package rbac

import (
	"errors"
	"fmt"
	"slices"
)

// RoleSource provides the role policy the registry is built from.
type RoleSource interface {
	// Load returns the full role -> config map.
	Load() (map[Role]RoleConfig, error)
}

// Registry answers permission checks for the fixed role set. It is built once
// at startup and is immutable afterwards, so lookups need no synchronization
// and are safe on the request hot path.
type Registry struct {
	configs map[Role]RoleConfig
	grants  map[Role]map[Permission]struct{}
}

// NewRegistry builds a registry from the given source. Construction fails if
// the policy references unknown roles or permissions, or leaves any platform
// role without a config.
func NewRegistry(source RoleSource) (*Registry, error) {
	configs, err := source.Load()
	if err != nil {
		return nil, err
	}

	for role := range configs {
		if !ValidRole(role) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownRole, role)
		}
	}
	for _, role := range AllRoles {
		if _, ok := configs[role]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrMissingRole, role)
		}
	}

	grants := make(map[Role]map[Permission]struct{}, len(configs))
	for role, cfg := range configs {
		set := make(map[Permission]struct{}, len(cfg.Permissions))
		for _, p := range cfg.Permissions {
			if !ValidPermission(p) {
				return nil, fmt.Errorf("%w: %q granted to %q", ErrUnknownPermission, p, role)
			}
			set[p] = struct{}{}
		}
		grants[role] = set
	}

	// SAAS_ADMIN is the superuser: its grant set must cover the whole catalog.
	if len(grants[RoleSaasAdmin]) != len(permissionDescriptions) {
		return nil, fmt.Errorf("%w: %q must hold the full catalog", ErrInvalidPolicy, RoleSaasAdmin)
	}

	return &Registry{configs: configs, grants: grants}, nil
}

// MustNewRegistry is NewRegistry that panics on error. Intended for startup
// with the built-in policy, where a failure means a programming mistake.
func MustNewRegistry(source RoleSource) *Registry {
	r, err := NewRegistry(source)
	if err != nil {
		panic(err)
	}
	return r
}

// PermissionsOf returns the permission set granted to a role, sorted by tag.
// An unknown role yields an empty set.
func (r *Registry) PermissionsOf(role Role) []Permission {
	set, ok := r.grants[role]
	if !ok {
		return nil
	}
	out := make([]Permission, 0, len(set))
	for p := range set {
		out = append(out, p)
	}
	slices.Sort(out)
	return out
}

// Has reports whether the role holds the given permission.
// Unknown roles fail closed.
func (r *Registry) Has(role Role, p Permission) bool {
	_, ok := r.grants[role][p]
	return ok
}

// HasAny reports whether the role holds at least one of the given
// permissions. An empty permission list is never satisfied.
func (r *Registry) HasAny(role Role, perms ...Permission) bool {
	set, ok := r.grants[role]
	if !ok {
		return false
	}
	for _, p := range perms {
		if _, ok := set[p]; ok {
			return true
		}
	}
	return false
}

// HasAll reports whether the role holds every one of the given permissions.
// An empty permission list is vacuously satisfied for any role, known or not.
func (r *Registry) HasAll(role Role, perms ...Permission) bool {
	if len(perms) == 0 {
		return true
	}
	set, ok := r.grants[role]
	if !ok {
		return false
	}
	for _, p := range perms {
		if _, ok := set[p]; !ok {
			return false
		}
	}
	return true
}

// Config returns the role config, if the role is known.
func (r *Registry) Config(role Role) (RoleConfig, bool) {
	cfg, ok := r.configs[role]
	return cfg, ok
}

// Roles returns every configured role, sorted by tag.
func (r *Registry) Roles() []Role {
	out := make([]Role, 0, len(r.configs))
	for role := range r.configs {
		out = append(out, role)
	}
	slices.Sort(out)
	return out
}

// StaticRoleSource serves a fixed in-memory policy. The map is deep-copied so
// later mutation of the input cannot leak into the registry.
type StaticRoleSource struct {
	configs map[Role]RoleConfig
}

// NewStaticSource wraps an in-memory policy map.
func NewStaticSource(configs map[Role]RoleConfig) *StaticRoleSource {
	copied := make(map[Role]RoleConfig, len(configs))
	for role, cfg := range configs {
		perms := make([]Permission, len(cfg.Permissions))
		copy(perms, cfg.Permissions)
		cfg.Permissions = perms
		copied[role] = cfg
	}
	return &StaticRoleSource{configs: copied}
}

// DefaultSource returns a source serving the built-in role policy.
func DefaultSource() *StaticRoleSource {
	return &StaticRoleSource{configs: DefaultRoleConfigs()}
}

// Load implements RoleSource.
func (s *StaticRoleSource) Load() (map[Role]RoleConfig, error) {
	if s.configs == nil {
		return nil, errors.New("rbac: static source has no policy")
	}
	return s.configs, nil
}

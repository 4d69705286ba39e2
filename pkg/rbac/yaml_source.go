package rbac

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// yamlPolicy is the on-disk policy document shape:
//
//	roles:
//	  DOCTOR:
//	    name: Doctor
//	    description: Medical practitioner
//	    permissions:
//	      - APPOINTMENT_READ
//	      - PATIENT_RECORD_READ
type yamlPolicy struct {
	Roles map[string]yamlRole `yaml:"roles"`
}

type yamlRole struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Permissions []string `yaml:"permissions"`
}

// YAMLRoleSource reads a role policy from a YAML document. Roles absent from
// the document fall back to the built-in policy, so a deployment only
// declares the roles it wants to override. Tags are validated on Load, not
// at check time: a bad policy file stops the process at startup instead of
// failing open later.
type YAMLRoleSource struct {
	doc []byte
}

// NewYAMLSource reads the full policy document from r.
func NewYAMLSource(r io.Reader) (*YAMLRoleSource, error) {
	doc, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Join(ErrInvalidPolicy, err)
	}
	return &YAMLRoleSource{doc: doc}, nil
}

// Load implements RoleSource.
func (s *YAMLRoleSource) Load() (map[Role]RoleConfig, error) {
	var policy yamlPolicy
	if err := yaml.Unmarshal(s.doc, &policy); err != nil {
		return nil, errors.Join(ErrInvalidPolicy, err)
	}

	configs := DefaultRoleConfigs()
	for tag, def := range policy.Roles {
		role := Role(tag)
		if !ValidRole(role) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownRole, tag)
		}

		perms := make([]Permission, 0, len(def.Permissions))
		for _, p := range def.Permissions {
			perm := Permission(p)
			if !ValidPermission(perm) {
				return nil, fmt.Errorf("%w: %q granted to %q", ErrUnknownPermission, p, tag)
			}
			perms = append(perms, perm)
		}

		cfg := configs[role]
		if def.Name != "" {
			cfg.Name = def.Name
		}
		if def.Description != "" {
			cfg.Description = def.Description
		}
		cfg.Permissions = perms
		configs[role] = cfg
	}

	return configs, nil
}

package rbac

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Checker answers permission questions against a role policy.
type Checker struct {
	policy map[string][]string
}

// Builtin returns a Checker over RolePermissions.
func Builtin() *Checker { return &Checker{policy: RolePermissions} }

// NewChecker starts from RolePermissions and replaces every role named in
// overrides. Roles not in the built-in policy are added. A role mapped to an
// empty list keeps no permissions.
func NewChecker(overrides map[string][]string) (*Checker, error) {
	policy := make(map[string][]string, len(RolePermissions)+len(overrides))
	for role, perms := range RolePermissions {
		policy[role] = perms
	}
	for role, perms := range overrides {
		if strings.TrimSpace(role) == "" {
			return nil, errors.New("empty role name")
		}
		for _, p := range perms {
			if !ValidPattern(p) {
				return nil, fmt.Errorf("role %q: unknown permission %q", role, p)
			}
		}
		policy[role] = slices.Clone(perms)
	}
	return &Checker{policy: policy}, nil
}

// ValidPattern reports whether p is a known permission, a "prefix*" pattern
// covering at least one of them, or "*".
func ValidPattern(p string) bool {
	if p == "*" {
		return true
	}
	for _, known := range Permissions {
		if matchPerm(p, known) {
			return true
		}
	}
	return false
}

func (c *Checker) Has(role, perm string) bool {
	for _, p := range c.policy[role] {
		if matchPerm(p, perm) {
			return true
		}
	}
	return false
}

// All reports whether role holds every perm. No perms means yes.
func (c *Checker) All(role string, perms ...string) bool {
	for _, p := range perms {
		if !c.Has(role, p) {
			return false
		}
	}
	return true
}

// Missing returns the first perm role lacks, or "" when it holds them all.
func (c *Checker) Missing(role string, perms ...string) string {
	for _, p := range perms {
		if !c.Has(role, p) {
			return p
		}
	}
	return ""
}

func matchPerm(pattern, perm string) bool {
	if pattern == "*" || pattern == perm {
		return true
	}
	prefix, ok := strings.CutSuffix(pattern, "*")
	return ok && strings.HasPrefix(perm, prefix)
}

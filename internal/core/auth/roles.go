package auth

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/StaeyKay/blog-api/internal/core/domain"
)

const (
	PermReadUsers  = "read_users"
	PermCreateUser = "create_user"
	PermUpdateUser = "update_user"
)

// Registry maps role names to the permissions they grant. It is built once
// and only read afterwards, so it is safe for concurrent use.
type Registry struct {
	roles map[string]map[string]struct{}
}

// NewRegistry copies the role table into an immutable Registry.
func NewRegistry(table map[string][]string) *Registry {
	r := &Registry{roles: make(map[string]map[string]struct{}, len(table))}
	for role, perms := range table {
		set := make(map[string]struct{}, len(perms))
		for _, p := range perms {
			set[p] = struct{}{}
		}
		r.roles[role] = set
	}
	return r
}

// DefaultRegistry is the built-in role table.
func DefaultRegistry() *Registry {
	return NewRegistry(map[string][]string{
		domain.RoleAdmin:   {PermReadUsers, PermCreateUser, PermUpdateUser},
		domain.RoleManager: {PermReadUsers},
		domain.RoleUser:    {},
	})
}

type roleFile struct {
	Roles []struct {
		Role        string   `yaml:"role"`
		Permissions []string `yaml:"permissions"`
	} `yaml:"roles"`
}

// LoadRegistry reads a role table from a YAML file of the form
//
//	roles:
//	  - role: admin
//	    permissions: [read_users, create_user]
//
// An empty path returns DefaultRegistry.
func LoadRegistry(path string) (*Registry, error) {
	if path == "" {
		return DefaultRegistry(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read roles file: %w", err)
	}
	return ParseRegistry(raw)
}

// ParseRegistry decodes the YAML role table format accepted by LoadRegistry.
func ParseRegistry(raw []byte) (*Registry, error) {
	var f roleFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse roles file: %w", err)
	}
	table := make(map[string][]string, len(f.Roles))
	for _, r := range f.Roles {
		if r.Role == "" {
			return nil, fmt.Errorf("parse roles file: role name is required")
		}
		if _, dup := table[r.Role]; dup {
			return nil, fmt.Errorf("parse roles file: duplicate role %q", r.Role)
		}
		table[r.Role] = append([]string{}, r.Permissions...)
	}
	return NewRegistry(table), nil
}

// Known reports whether role exists in the registry.
func (r *Registry) Known(role string) bool {
	_, ok := r.roles[role]
	return ok
}

// Has reports whether role grants permission. Unknown roles grant nothing.
func (r *Registry) Has(role, permission string) bool {
	perms, ok := r.roles[role]
	if !ok {
		return false
	}
	_, ok = perms[permission]
	return ok
}

// Permissions lists the permissions of role in sorted order.
func (r *Registry) Permissions(role string) []string {
	perms := r.roles[role]
	out := make([]string, 0, len(perms))
	for p := range perms {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Roles lists the known role names in sorted order.
func (r *Registry) Roles() []string {
	out := make([]string, 0, len(r.roles))
	for role := range r.roles {
		out = append(out, role)
	}
	sort.Strings(out)
	return out
}

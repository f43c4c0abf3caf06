package auth

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestRegistry_DenyByDefault(t *testing.T) {
	r := NewRegistry(map[string][]string{
		"admin": {PermReadUsers, PermCreateUser, PermUpdateUser},
		"user":  {},
	})

	if !r.Has("admin", PermReadUsers) {
		t.Fatalf("admin should have read_users")
	}
	if r.Has("user", PermReadUsers) {
		t.Fatalf("user should not have read_users")
	}
	if r.Has("ghost", PermReadUsers) {
		t.Fatalf("unknown role should have no permissions")
	}
	if r.Has("admin", "delete_everything") {
		t.Fatalf("ungranted permission should be denied")
	}
	if r.Known("ghost") {
		t.Fatalf("ghost should not be a known role")
	}
	if !r.Known("user") {
		t.Fatalf("user should be a known role even without permissions")
	}
}

func TestRegistry_IsolatedFromInput(t *testing.T) {
	table := map[string][]string{"admin": {PermReadUsers}}
	r := NewRegistry(table)

	table["admin"] = append(table["admin"], PermCreateUser)
	table["intruder"] = []string{PermReadUsers}

	if r.Has("admin", PermCreateUser) || r.Known("intruder") {
		t.Fatalf("registry must not observe later changes to its input")
	}
}

func TestDefaultRegistry(t *testing.T) {
	r := DefaultRegistry()

	if got, want := r.Roles(), []string{"admin", "manager", "user"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("roles: got %v want %v", got, want)
	}
	if got, want := r.Permissions("admin"), []string{"create_user", "read_users", "update_user"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("admin permissions: got %v want %v", got, want)
	}
	if len(r.Permissions("user")) != 0 {
		t.Fatalf("user should have no permissions")
	}
}

func TestLoadRegistry_FromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roles.yaml")
	content := `
roles:
  - role: admin
    permissions: [read_users, create_user, update_user]
  - role: editor
    permissions:
      - read_users
  - role: user
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write roles file: %v", err)
	}

	r, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry returned error: %v", err)
	}
	if !r.Has("editor", PermReadUsers) || r.Has("editor", PermCreateUser) {
		t.Fatalf("unexpected editor permissions: %v", r.Permissions("editor"))
	}
	if !r.Known("user") || len(r.Permissions("user")) != 0 {
		t.Fatalf("user role should exist with no permissions")
	}
}

func TestLoadRegistry_EmptyPathUsesDefault(t *testing.T) {
	r, err := LoadRegistry("")
	if err != nil {
		t.Fatalf("LoadRegistry returned error: %v", err)
	}
	if !r.Has("admin", PermReadUsers) {
		t.Fatalf("expected default registry")
	}
}

func TestParseRegistry_Errors(t *testing.T) {
	cases := map[string]string{
		"malformed": "roles: [",
		"no name":   "roles:\n  - permissions: [read_users]\n",
		"duplicate": "roles:\n  - role: a\n  - role: a\n",
	}
	for name, raw := range cases {
		if _, err := ParseRegistry([]byte(raw)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestLoadRegistry_MissingFile(t *testing.T) {
	if _, err := LoadRegistry(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

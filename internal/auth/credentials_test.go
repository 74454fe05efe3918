package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func demoDirectory(t *testing.T) *Directory {
	t.Helper()
	d := NewDirectory(DefaultRoleTable())
	if err := SeedDemo(d); err != nil {
		t.Fatalf("seed demo accounts: %v", err)
	}
	return d
}

func TestValidateAdminDemoAccount(t *testing.T) {
	d := demoDirectory(t)

	p, err := d.Validate(context.Background(), Credentials{Identifier: "admin", Secret: "123456"})
	if err != nil {
		t.Fatalf("validate admin: %v", err)
	}
	if p.Role != RoleSuperAdmin {
		t.Fatalf("unexpected role: %s", p.Role)
	}
	if !p.HasPermission("anything.random") {
		t.Fatal("super_admin must carry the wildcard")
	}
	if !strings.HasPrefix(p.SessionID, "session_") {
		t.Fatalf("unexpected session id: %s", p.SessionID)
	}
	if p.LastLogin.IsZero() {
		t.Fatal("last login must be set")
	}
}

func TestValidateWrongSecret(t *testing.T) {
	d := demoDirectory(t)

	_, err := d.Validate(context.Background(), Credentials{Identifier: "doctor", Secret: "654321"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestValidateUnknownIdentifier(t *testing.T) {
	d := demoDirectory(t)

	_, err := d.Validate(context.Background(), Credentials{Identifier: "nobody", Secret: "123456"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestValidateIdentifierCaseInsensitive(t *testing.T) {
	d := demoDirectory(t)

	p, err := d.Validate(context.Background(), Credentials{Identifier: "Agent@Sagliktur.com", Secret: "123456"})
	if err != nil {
		t.Fatalf("validate agent by email: %v", err)
	}
	if p.Role != RoleAgent {
		t.Fatalf("unexpected role: %s", p.Role)
	}
}

func TestValidateAssignsTablePermissions(t *testing.T) {
	d := demoDirectory(t)

	p, err := d.Validate(context.Background(), Credentials{Identifier: "partner", Secret: "123456"})
	if err != nil {
		t.Fatalf("validate partner: %v", err)
	}
	want := DefaultRoleTable().PermissionsFor(RolePartner)
	if len(p.Permissions) != len(want) {
		t.Fatalf("permission set diverged: got %v, want %v", p.Permissions, want)
	}
	for i := range want {
		if p.Permissions[i] != want[i] {
			t.Fatalf("permission set diverged: got %v, want %v", p.Permissions, want)
		}
	}
}

func TestValidateDefaultsLanguage(t *testing.T) {
	d := demoDirectory(t)

	p, err := d.Validate(context.Background(), Credentials{Identifier: "admin", Secret: "123456"})
	if err != nil {
		t.Fatalf("validate admin: %v", err)
	}
	if p.Language != "tr" {
		t.Fatalf("unexpected default language: %s", p.Language)
	}

	p, err = d.Validate(context.Background(), Credentials{Identifier: "admin", Secret: "123456", Language: "en"})
	if err != nil {
		t.Fatalf("validate admin with language: %v", err)
	}
	if p.Language != "en" {
		t.Fatalf("submitted language lost: %s", p.Language)
	}
}

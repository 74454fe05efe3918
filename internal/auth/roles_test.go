package auth

import (
	"strings"
	"testing"
)

func TestDefaultRoleTableCoversAllRoles(t *testing.T) {
	table := DefaultRoleTable()
	all := []Role{
		RoleSuperAdmin, RoleAdmin, RoleManager, RoleDoctor, RoleNurse,
		RoleAgent, RoleCoordinator, RoleFinance, RolePartner, RolePatient,
	}
	for _, role := range all {
		if _, ok := table[role]; !ok {
			t.Fatalf("role %s missing from default table", role)
		}
	}
	if len(table) != len(all) {
		t.Fatalf("unexpected table size: %d", len(table))
	}
}

func TestOnlySuperAdminCarriesWildcard(t *testing.T) {
	table := DefaultRoleTable()
	for role, perms := range table {
		for _, perm := range perms {
			if perm == Wildcard && role != RoleSuperAdmin {
				t.Fatalf("role %s must not carry the wildcard", role)
			}
		}
	}
	p := Principal{Role: RoleSuperAdmin, Permissions: table.PermissionsFor(RoleSuperAdmin)}
	if !p.HasPermission("x") {
		t.Fatal("super_admin wildcard not effective")
	}
}

func TestPermissionsForReturnsCopy(t *testing.T) {
	table := DefaultRoleTable()
	perms := table.PermissionsFor(RoleAgent)
	perms[0] = "mutated"
	if table.PermissionsFor(RoleAgent)[0] == "mutated" {
		t.Fatal("PermissionsFor must return a defensive copy")
	}
	if table.PermissionsFor(Role("visitor")) != nil {
		t.Fatal("unknown role must yield nil permissions")
	}
}

func TestLoadRoleTable(t *testing.T) {
	doc := `{"super_admin": ["*"], "auditor": ["reports.view"]}`
	table, err := LoadRoleTable(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("load table: %v", err)
	}
	if got := table.PermissionsFor(Role("auditor")); len(got) != 1 || got[0] != "reports.view" {
		t.Fatalf("unexpected auditor permissions: %v", got)
	}
	if got := table.PermissionsFor(RoleSuperAdmin); len(got) != 1 || got[0] != Wildcard {
		t.Fatalf("unexpected super_admin permissions: %v", got)
	}

	if _, err := LoadRoleTable(strings.NewReader("not json")); err == nil {
		t.Fatal("expected decode error")
	}
}

package auth

import (
	"encoding/json"
	"fmt"
	"io"
)

// Common permission tokens. The table below is authoritative; these constants
// only name the tokens the rest of the codebase checks directly.
const (
	PermLeadsManage    = "leads.manage"
	PermLeadsView      = "leads.view"
	PermPatientsView   = "patients.view"
	PermPatientsEdit   = "patients.edit"
	PermPatientsManage = "patients.manage"
	PermReportsView    = "reports.view"
	PermUsersManage    = "users.manage"
)

// RoleTable maps each role to its canonical permission set. It is fixed at
// process start; a role missing from the table grants no permissions.
type RoleTable map[Role][]string

// DefaultRoleTable returns the built-in role/permission assignments.
func DefaultRoleTable() RoleTable {
	return RoleTable{
		RoleSuperAdmin: {Wildcard},
		RoleAdmin: {
			"users.manage", "branches.manage", "settings.manage", "reports.view",
			"patients.manage", "leads.manage", "appointments.manage", "documents.manage",
			"travel.manage", "payments.manage", "partners.manage", "inventory.manage",
		},
		RoleManager: {
			"patients.view", "patients.edit", "leads.manage", "appointments.manage",
			"documents.view", "travel.view", "reports.view", "communication.manage",
		},
		RoleDoctor: {
			"patients.view", "patients.edit", "appointments.view", "appointments.edit",
			"documents.view", "clinical.manage", "treatments.manage",
		},
		RoleNurse: {
			"patients.view", "appointments.view", "clinical.view", "treatments.view",
			"documents.view",
		},
		RoleAgent: {
			"leads.manage", "patients.view", "appointments.view", "communication.manage",
			"documents.view",
		},
		RoleCoordinator: {
			"patients.view", "travel.manage", "appointments.manage", "communication.manage",
			"documents.view", "partners.view",
		},
		RoleFinance: {
			"payments.manage", "reports.view", "patients.view", "partners.view",
		},
		RolePartner: {
			"leads.view", "patients.view.own", "reports.view.own", "communication.view",
		},
		RolePatient: {
			"portal.access", "appointments.view.own", "documents.view.own", "communication.view.own",
		},
	}
}

// LoadRoleTable decodes a role table from JSON, allowing deployments to
// substitute permission sets without touching access-control logic. Roles
// absent from the document keep no permissions.
func LoadRoleTable(r io.Reader) (RoleTable, error) {
	var raw map[string][]string
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode role table: %w", err)
	}
	table := make(RoleTable, len(raw))
	for role, perms := range raw {
		table[Role(role)] = perms
	}
	return table, nil
}

// PermissionsFor returns the permission set for a role. Unknown roles get the
// minimal default: no permissions.
func (t RoleTable) PermissionsFor(role Role) []string {
	perms, ok := t[role]
	if !ok {
		return nil
	}
	out := make([]string, len(perms))
	copy(out, perms)
	return out
}

// Roles lists every role present in the table.
func (t RoleTable) Roles() []Role {
	out := make([]Role, 0, len(t))
	for role := range t {
		out = append(out, role)
	}
	return out
}

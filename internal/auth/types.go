package auth

import "time"

// Role identifies one of the fixed dashboard roles.
type Role string

const (
	RoleSuperAdmin  Role = "super_admin"
	RoleAdmin       Role = "admin"
	RoleManager     Role = "manager"
	RoleDoctor      Role = "doctor"
	RoleNurse       Role = "nurse"
	RoleAgent       Role = "agent"
	RoleCoordinator Role = "coordinator"
	RoleFinance     Role = "finance"
	RolePartner     Role = "partner"
	RolePatient     Role = "patient"
)

// Wildcard grants every permission. Only super_admin carries it.
const Wildcard = "*"

// Principal represents an authenticated user for the session duration.
// Role and permission set are assigned together at validation time from the
// role table and never diverge afterwards.
type Principal struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Role        Role      `json:"role"`
	Permissions []string  `json:"permissions"`
	Branch      string    `json:"branch,omitempty"`
	Language    string    `json:"language"`
	SessionID   string    `json:"session_id"`
	LastLogin   time.Time `json:"last_login"`
}

// HasPermission reports whether the principal carries the literal permission
// or the wildcard.
func (p Principal) HasPermission(perm string) bool {
	for _, have := range p.Permissions {
		if have == Wildcard || have == perm {
			return true
		}
	}
	return false
}

// Credentials is a login submission.
type Credentials struct {
	Identifier    string `json:"identifier"`
	Secret        string `json:"password"`
	TwoFactorCode string `json:"two_factor_code,omitempty"`
	Branch        string `json:"branch,omitempty"`
	Language      string `json:"language,omitempty"`
}

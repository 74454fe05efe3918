package auth

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// CredentialValidator checks a login submission and produces a principal.
type CredentialValidator interface {
	Validate(ctx context.Context, creds Credentials) (Principal, error)
}

// Account is a directory entry backing credential validation.
type Account struct {
	ID           string
	Name         string
	Email        string
	Role         Role
	Branch       string
	PasswordHash string
}

// Directory is an in-memory credential store. Identifiers resolve by
// username, email or phone; matching is case-insensitive.
type Directory struct {
	mu       sync.RWMutex
	accounts map[string]Account
	table    RoleTable
	now      func() time.Time
}

// NewDirectory builds an empty directory bound to a role table.
func NewDirectory(table RoleTable) *Directory {
	return &Directory{
		accounts: make(map[string]Account),
		table:    table,
		now:      time.Now,
	}
}

// Register adds an account reachable under the given identifiers.
func (d *Directory) Register(acct Account, identifiers ...string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, id := range identifiers {
		id = strings.ToLower(strings.TrimSpace(id))
		if id == "" {
			continue
		}
		d.accounts[id] = acct
	}
}

// Validate resolves the identifier and verifies the secret. On success the
// returned principal carries the role's canonical permission set, a fresh
// session id and the login timestamp.
func (d *Directory) Validate(ctx context.Context, creds Credentials) (Principal, error) {
	identifier := strings.ToLower(strings.TrimSpace(creds.Identifier))
	if identifier == "" || creds.Secret == "" {
		return Principal{}, ErrInvalidCredentials
	}

	d.mu.RLock()
	acct, ok := d.accounts[identifier]
	d.mu.RUnlock()
	if !ok {
		return Principal{}, ErrInvalidCredentials
	}
	if err := VerifySecret(acct.PasswordHash, creds.Secret); err != nil {
		return Principal{}, ErrInvalidCredentials
	}

	language := strings.TrimSpace(creds.Language)
	if language == "" {
		language = "tr"
	}
	branch := strings.TrimSpace(creds.Branch)
	if branch == "" {
		branch = acct.Branch
	}

	return Principal{
		ID:          acct.ID,
		Name:        acct.Name,
		Email:       acct.Email,
		Role:        acct.Role,
		Permissions: d.table.PermissionsFor(acct.Role),
		Branch:      branch,
		Language:    language,
		SessionID:   "session_" + uuid.NewString(),
		LastLogin:   d.now().UTC(),
	}, nil
}

// SeedDemo registers the demo accounts the dashboard ships with. All demo
// accounts share the secret "123456".
func SeedDemo(d *Directory) error {
	hash, err := HashSecret("123456")
	if err != nil {
		return err
	}
	demo := []struct {
		acct        Account
		identifiers []string
	}{
		{
			Account{ID: "550e8400-e29b-41d4-a716-446655440001", Name: "Sistem Yöneticisi", Email: "admin@sagliktur.com", Role: RoleSuperAdmin, PasswordHash: hash},
			[]string{"admin", "admin@sagliktur.com"},
		},
		{
			Account{ID: "550e8400-e29b-41d4-a716-446655440002", Name: "Dr. Mehmet Özkan", Email: "doctor@sagliktur.com", Role: RoleDoctor, PasswordHash: hash},
			[]string{"doctor", "doctor@sagliktur.com"},
		},
		{
			Account{ID: "550e8400-e29b-41d4-a716-446655440003", Name: "Fatma Yılmaz", Email: "agent@sagliktur.com", Role: RoleAgent, PasswordHash: hash},
			[]string{"agent", "agent@sagliktur.com"},
		},
		{
			Account{ID: "550e8400-e29b-41d4-a716-446655440004", Name: "Madrid Health Tourism", Email: "partner@sagliktur.com", Role: RolePartner, PasswordHash: hash},
			[]string{"partner", "partner@sagliktur.com"},
		},
	}
	for _, entry := range demo {
		d.Register(entry.acct, entry.identifiers...)
	}
	return nil
}

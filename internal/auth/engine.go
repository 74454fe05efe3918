package auth

// PrincipalSource exposes the current authenticated principal, if any.
// The session store implements it; the engine consults it on every call so
// permission answers never outlive a logout/login boundary.
type PrincipalSource interface {
	Principal() (Principal, bool)
}

// Engine answers authorization questions against the current session.
// It is a pure function of session state and holds no caches.
type Engine struct {
	src PrincipalSource
}

// NewEngine builds an engine over the given principal source.
func NewEngine(src PrincipalSource) *Engine {
	return &Engine{src: src}
}

// HasPermission reports whether the current principal carries the permission
// or the wildcard. Absent principal fails closed.
func (e *Engine) HasPermission(perm string) bool {
	p, ok := e.src.Principal()
	if !ok {
		return false
	}
	return p.HasPermission(perm)
}

// HasRole reports an exact role match for the current principal.
func (e *Engine) HasRole(role Role) bool {
	p, ok := e.src.Principal()
	if !ok {
		return false
	}
	return p.Role == role
}

// CheckAccess is the composite view-level gate. super_admin bypasses all
// checks; everyone else must hold one of the allowed roles AND every
// required permission. Absent principal fails closed.
func (e *Engine) CheckAccess(allowedRoles []Role, requiredPermissions ...string) bool {
	p, ok := e.src.Principal()
	if !ok {
		return false
	}
	if p.Role == RoleSuperAdmin {
		return true
	}
	roleOK := false
	for _, role := range allowedRoles {
		if p.Role == role {
			roleOK = true
			break
		}
	}
	if !roleOK {
		return false
	}
	for _, perm := range requiredPermissions {
		if !p.HasPermission(perm) {
			return false
		}
	}
	return true
}

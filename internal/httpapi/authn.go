package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"sagliktur.org/internal/auth"
)

const (
	authHeader = "Authorization"
	bearer     = "Bearer "
)

var publicPaths = []string{
	"/v1/auth/login",
	"/metrics",
	"/healthz",
	"/readyz",
	"/v1/info",
	"/",
}

func isPublicPath(path string) bool {
	for _, p := range publicPaths {
		if path == p {
			return true
		}
	}
	return false
}

// withAuth authenticates bearer tokens. A verified token is still
// cross-checked against the live session: after a logout or expiry the token
// is rejected even inside its signed validity window.
func (a *API) withAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions || isPublicPath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		token, err := extractBearerToken(r.Header.Get(authHeader))
		if err != nil {
			writeError(w, r, http.StatusUnauthorized, err.Error())
			return
		}

		claims, err := auth.ParseAndValidate(token)
		if err != nil {
			writeError(w, r, http.StatusUnauthorized, "invalid token")
			return
		}
		principal, ok := a.sessions.Principal()
		if !ok || principal.ID != claims.Subject || principal.SessionID != claims.SessionID {
			writeError(w, r, http.StatusUnauthorized, "session is no longer active")
			return
		}

		ctx := auth.ContextWithPrincipal(r.Context(), principal)
		ctx = auth.ContextWithToken(ctx, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func extractBearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", errors.New("missing bearer token")
	}
	if !strings.HasPrefix(strings.ToLower(header), strings.ToLower(bearer)) {
		return "", errors.New("invalid authorization scheme")
	}
	token := strings.TrimSpace(header[len(bearer):])
	if token == "" {
		return "", errors.New("missing bearer token")
	}
	return token, nil
}

var leadRoles = []auth.Role{
	auth.RoleSuperAdmin, auth.RoleAdmin, auth.RoleManager,
	auth.RoleAgent, auth.RoleCoordinator, auth.RolePartner,
}

var leadManageRoles = []auth.Role{
	auth.RoleSuperAdmin, auth.RoleAdmin, auth.RoleManager, auth.RoleAgent,
}

// canViewLeads is the list-view gate: a role on the lead screens plus either
// the view or the manage permission.
func (a *API) canViewLeads() bool {
	if !a.engine.CheckAccess(leadRoles) {
		return false
	}
	return a.engine.HasPermission(auth.PermLeadsView) ||
		a.engine.HasPermission(auth.PermLeadsManage)
}

func (a *API) canManageLeads() bool {
	return a.engine.CheckAccess(leadManageRoles, auth.PermLeadsManage)
}

func (a *API) ensureLeadView(w http.ResponseWriter, r *http.Request) bool {
	if !a.canViewLeads() {
		writeError(w, r, http.StatusForbidden, "access denied")
		return false
	}
	return true
}

func (a *API) ensureLeadManage(w http.ResponseWriter, r *http.Request) bool {
	if !a.canManageLeads() {
		writeError(w, r, http.StatusForbidden, "access denied")
		return false
	}
	return true
}

var patientViewRoles = []auth.Role{
	auth.RoleSuperAdmin, auth.RoleAdmin, auth.RoleManager, auth.RoleDoctor,
	auth.RoleNurse, auth.RoleAgent, auth.RoleCoordinator, auth.RoleFinance,
}

var patientManageRoles = []auth.Role{
	auth.RoleSuperAdmin, auth.RoleAdmin, auth.RoleManager, auth.RoleDoctor,
}

// canViewPatients requires full patient visibility. Roles holding only the
// scoped patients.view.own grant, such as partner, are excluded.
func (a *API) canViewPatients() bool {
	if !a.engine.CheckAccess(patientViewRoles) {
		return false
	}
	return a.engine.HasPermission(auth.PermPatientsView) ||
		a.engine.HasPermission(auth.PermPatientsManage)
}

func (a *API) canManagePatients() bool {
	if !a.engine.CheckAccess(patientManageRoles) {
		return false
	}
	return a.engine.HasPermission(auth.PermPatientsManage) ||
		a.engine.HasPermission(auth.PermPatientsEdit)
}

func (a *API) ensurePatientView(w http.ResponseWriter, r *http.Request) bool {
	if !a.canViewPatients() {
		writeError(w, r, http.StatusForbidden, "access denied")
		return false
	}
	return true
}

func (a *API) ensurePatientManage(w http.ResponseWriter, r *http.Request) bool {
	if !a.canManagePatients() {
		writeError(w, r, http.StatusForbidden, "access denied")
		return false
	}
	return true
}

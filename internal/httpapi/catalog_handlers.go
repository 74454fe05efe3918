package httpapi

import (
	"net/http"

	"sagliktur.org/internal/catalog"
)

func (a *API) handleHospitals(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"hospitals": catalog.Hospitals()})
}

func (a *API) handlePackages(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"packages": catalog.Packages()})
}

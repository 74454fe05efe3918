package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"sagliktur.org/internal/audit"
	"sagliktur.org/internal/patient"
)

func (a *API) handlePatients(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		a.listPatients(w, r)
	case http.MethodPost:
		a.createPatient(w, r)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

func (a *API) listPatients(w http.ResponseWriter, r *http.Request) {
	if !a.ensurePatientView(w, r) {
		return
	}
	q := r.URL.Query()
	filter := patient.Filter{
		Search:    q.Get("search"),
		Status:    q.Get("status"),
		Treatment: q.Get("treatment"),
		Country:   q.Get("country"),
	}
	patients := a.patients.List(filter)
	writeJSON(w, http.StatusOK, map[string]any{
		"patients": patients,
		"total":    len(patients),
	})
}

func (a *API) createPatient(w http.ResponseWriter, r *http.Request) {
	if !a.ensurePatientManage(w, r) {
		return
	}
	var fields patient.Patient
	if err := decodeJSON(w, r, &fields); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	created, err := a.patients.Create(fields)
	if err != nil {
		handlePatientError(w, r, err)
		return
	}
	_ = audit.LogEvent(r.Context(), "patient.create", map[string]any{
		"patient_id": created.ID,
	})
	w.Header().Set("Location", fmt.Sprintf("/v1/patients/%s", created.ID))
	writeJSON(w, http.StatusCreated, created)
}

func (a *API) handlePatientScoped(w http.ResponseWriter, r *http.Request) {
	id := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/patients/"), "/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}
	switch r.Method {
	case http.MethodGet:
		if !a.ensurePatientView(w, r) {
			return
		}
		p, err := a.patients.Get(id)
		if err != nil {
			handlePatientError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, p)
	case http.MethodPatch:
		if !a.ensurePatientManage(w, r) {
			return
		}
		var patch patient.Patch
		if err := decodeJSON(w, r, &patch); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		updated, err := a.patients.Update(id, patch)
		if err != nil {
			handlePatientError(w, r, err)
			return
		}
		_ = audit.LogEvent(r.Context(), "patient.update", map[string]any{
			"patient_id": updated.ID,
			"status":     string(updated.Status),
		})
		writeJSON(w, http.StatusOK, updated)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPatch)
	}
}

func handlePatientError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, patient.ErrInvalidInput):
		writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, patient.ErrNotFound):
		writeError(w, r, http.StatusNotFound, err.Error())
	default:
		writeError(w, r, http.StatusInternalServerError, "internal error")
	}
}

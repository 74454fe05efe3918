package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"sagliktur.org/internal/audit"
	"sagliktur.org/internal/auth"
	"sagliktur.org/internal/lead"
	"sagliktur.org/internal/note"
)

func (a *API) handleLeads(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		a.listLeads(w, r)
	case http.MethodPost:
		a.createLead(w, r)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

func (a *API) listLeads(w http.ResponseWriter, r *http.Request) {
	if !a.ensureLeadView(w, r) {
		return
	}
	q := r.URL.Query()
	filter := lead.Filter{
		Search:      q.Get("search"),
		Status:      q.Get("status"),
		Source:      q.Get("source"),
		Country:     q.Get("country"),
		Treatment:   q.Get("treatment"),
		Temperature: q.Get("temperature"),
		Priority:    q.Get("priority"),
	}
	leads := a.leads.List(filter)
	writeJSON(w, http.StatusOK, map[string]any{
		"leads": leads,
		"total": len(leads),
	})
}

func (a *API) createLead(w http.ResponseWriter, r *http.Request) {
	if !a.ensureLeadManage(w, r) {
		return
	}
	var fields lead.Lead
	if err := decodeJSON(w, r, &fields); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	created, err := a.leads.Create(fields)
	if err != nil {
		handleLeadError(w, r, err)
		return
	}
	_ = audit.LogEvent(r.Context(), "lead.create", map[string]any{
		"lead_id":   created.ID,
		"lead_code": created.LeadCode,
	})
	w.Header().Set("Location", fmt.Sprintf("/v1/leads/%s", created.ID))
	writeJSON(w, http.StatusCreated, created)
}

func (a *API) handleLeadStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	if !a.ensureLeadView(w, r) {
		return
	}
	writeJSON(w, http.StatusOK, a.leads.Stats())
}

func (a *API) handleLeadImport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	if !a.ensureLeadManage(w, r) {
		return
	}
	var batch []lead.Lead
	if err := decodeJSON(w, r, &batch); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	created, skipped := a.leads.Import(batch)
	_ = audit.LogEvent(r.Context(), "lead.import", map[string]any{
		"created": created,
		"skipped": skipped,
	})
	writeJSON(w, http.StatusOK, map[string]any{
		"created": created,
		"skipped": skipped,
	})
}

func (a *API) handleLeadScoped(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/v1/leads/")
	path = strings.Trim(path, "/")
	if path == "" {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}
	parts := strings.Split(path, "/")
	switch {
	case len(parts) == 1:
		a.handleLeadResource(w, r, parts[0])
	case len(parts) == 2 && parts[1] == "notes":
		a.handleLeadNotes(w, r, parts[0])
	default:
		writeError(w, r, http.StatusNotFound, "resource not found")
	}
}

func (a *API) handleLeadResource(w http.ResponseWriter, r *http.Request, id string) {
	switch r.Method {
	case http.MethodGet:
		if !a.ensureLeadView(w, r) {
			return
		}
		l, err := a.leads.Get(id)
		if err != nil {
			handleLeadError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, l)
	case http.MethodPatch:
		if !a.ensureLeadManage(w, r) {
			return
		}
		var patch lead.Patch
		if err := decodeJSON(w, r, &patch); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		updated, err := a.leads.Update(id, patch)
		if err != nil {
			handleLeadError(w, r, err)
			return
		}
		_ = audit.LogEvent(r.Context(), "lead.update", map[string]any{
			"lead_id": updated.ID,
			"status":  string(updated.Status),
		})
		writeJSON(w, http.StatusOK, updated)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPatch)
	}
}

func (a *API) handleLeadNotes(w http.ResponseWriter, r *http.Request, leadID string) {
	switch r.Method {
	case http.MethodGet:
		if !a.ensureLeadView(w, r) {
			return
		}
		if _, err := a.leads.Get(leadID); err != nil {
			handleLeadError(w, r, err)
			return
		}
		// Private notes are only exposed to callers who can manage leads.
		includePrivate := a.engine.HasPermission(auth.PermLeadsManage)
		notes := a.notes.List(leadID, includePrivate)
		writeJSON(w, http.StatusOK, map[string]any{
			"notes": notes,
			"total": len(notes),
		})
	case http.MethodPost:
		if !a.ensureLeadManage(w, r) {
			return
		}
		if _, err := a.leads.Get(leadID); err != nil {
			handleLeadError(w, r, err)
			return
		}
		var fields note.Note
		if err := decodeJSON(w, r, &fields); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		fields.LeadID = leadID
		if principal, ok := auth.PrincipalFromContext(r.Context()); ok {
			fields.UserID = principal.ID
			fields.UserName = principal.Name
		}
		created, err := a.notes.Add(fields)
		if err != nil {
			handleNoteError(w, r, err)
			return
		}
		_ = audit.LogEvent(r.Context(), "note.create", map[string]any{
			"note_id": created.ID,
			"lead_id": leadID,
		})
		w.Header().Set("Location", fmt.Sprintf("/v1/notes/%s", created.ID))
		writeJSON(w, http.StatusCreated, created)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

func handleLeadError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, lead.ErrInvalidInput):
		writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, lead.ErrNotFound):
		writeError(w, r, http.StatusNotFound, err.Error())
	default:
		writeError(w, r, http.StatusInternalServerError, "internal error")
	}
}

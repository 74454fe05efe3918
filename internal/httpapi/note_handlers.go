package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"sagliktur.org/internal/audit"
	"sagliktur.org/internal/note"
)

func (a *API) handleNoteResource(w http.ResponseWriter, r *http.Request) {
	id := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/notes/"), "/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}
	switch r.Method {
	case http.MethodPatch:
		if !a.ensureLeadManage(w, r) {
			return
		}
		var patch note.Patch
		if err := decodeJSON(w, r, &patch); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		updated, err := a.notes.Update(id, patch)
		if err != nil {
			handleNoteError(w, r, err)
			return
		}
		_ = audit.LogEvent(r.Context(), "note.update", map[string]any{
			"note_id": updated.ID,
		})
		writeJSON(w, http.StatusOK, updated)
	case http.MethodDelete:
		if !a.ensureLeadManage(w, r) {
			return
		}
		a.notes.Delete(id)
		_ = audit.LogEvent(r.Context(), "note.delete", map[string]any{
			"note_id": id,
		})
		w.WriteHeader(http.StatusNoContent)
	default:
		methodNotAllowed(w, r, http.MethodPatch, http.MethodDelete)
	}
}

func (a *API) handleNoteTypes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"types": note.Types()})
}

func handleNoteError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, note.ErrInvalidInput):
		writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, note.ErrNotFound):
		writeError(w, r, http.StatusNotFound, err.Error())
	default:
		writeError(w, r, http.StatusInternalServerError, "internal error")
	}
}

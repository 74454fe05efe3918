// Package httpapi is the HTTP surface over the session store, the access
// control engine and the lead, patient, note and catalog services.
package httpapi

import (
	"net/http"
	"time"

	"sagliktur.org/internal/auth"
	"sagliktur.org/internal/lead"
	"sagliktur.org/internal/note"
	"sagliktur.org/internal/obs"
	"sagliktur.org/internal/patient"
	"sagliktur.org/internal/session"
)

// API wires the service surface into one handler.
type API struct {
	mux      *http.ServeMux
	sessions *session.Store
	engine   *auth.Engine
	limiter  *auth.Limiter
	leads    *lead.Service
	patients *patient.Service
	notes    *note.Service
	broker   *lead.Broker
	version  string
}

// New builds the API. All collaborators are required except broker, which
// disables the event stream when nil.
func New(sessions *session.Store, engine *auth.Engine, limiter *auth.Limiter, leads *lead.Service, patients *patient.Service, notes *note.Service, broker *lead.Broker, version string) *API {
	a := &API{
		mux:      http.NewServeMux(),
		sessions: sessions,
		engine:   engine,
		limiter:  limiter,
		leads:    leads,
		patients: patients,
		notes:    notes,
		broker:   broker,
		version:  version,
	}

	a.mux.HandleFunc("/healthz", a.Healthz)
	a.mux.HandleFunc("/readyz", a.Ready)
	a.mux.HandleFunc("/v1/info", a.Info)
	a.mux.Handle("/metrics", obs.Handler())

	a.mux.HandleFunc("/v1/auth/login", a.handleLogin)
	a.mux.HandleFunc("/v1/auth/logout", a.handleLogout)
	a.mux.HandleFunc("/v1/auth/me", a.handleMe)

	a.mux.HandleFunc("/v1/leads", a.handleLeads)
	a.mux.HandleFunc("/v1/leads/stats", a.handleLeadStats)
	a.mux.HandleFunc("/v1/leads/import", a.handleLeadImport)
	a.mux.HandleFunc("/v1/leads/", a.handleLeadScoped)
	a.mux.HandleFunc("/v1/patients", a.handlePatients)
	a.mux.HandleFunc("/v1/patients/", a.handlePatientScoped)
	a.mux.HandleFunc("/v1/notes/", a.handleNoteResource)

	a.mux.HandleFunc("/v1/hospitals", a.handleHospitals)
	a.mux.HandleFunc("/v1/packages", a.handlePackages)
	a.mux.HandleFunc("/v1/note-types", a.handleNoteTypes)

	a.mux.HandleFunc("/v1/stream", a.Stream)

	a.mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	return a
}

// Handler returns the fully wrapped handler chain.
func (a *API) Handler() http.Handler {
	return obs.Instrument(a.withAuth(a.mux))
}

// --- Handlers ---

func (a *API) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "sagliktur-api",
		"version": a.version,
	})
}

func (a *API) Ready(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ready",
	})
}

func (a *API) Info(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":     "sagliktur-api",
		"time":     time.Now().UTC().Format(time.RFC3339),
		"version":  a.version,
		"revision": obs.BuildRevision(),
	})
}

package httpapi

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"sagliktur.org/internal/auth"
	"sagliktur.org/internal/lead"
	"sagliktur.org/internal/note"
	"sagliktur.org/internal/patient"
	"sagliktur.org/internal/session"
	"sagliktur.org/internal/store"
)

type testEnv struct {
	srv      *httptest.Server
	sessions *session.Store
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	t.Setenv("SAGLIKTUR_AUTH_SECRET", "httpapi-test-secret")
	auth.ResetSecretForTests()
	t.Cleanup(auth.ResetSecretForTests)

	directory := auth.NewDirectory(auth.DefaultRoleTable())
	if err := auth.SeedDemo(directory); err != nil {
		t.Fatalf("seed directory: %v", err)
	}

	records := store.NewMemory()
	sessions := session.New(directory, nil, records)
	broker := lead.NewBroker()
	leads := lead.NewService(broker, records)
	patients := patient.NewService(records)
	notes := note.NewService(records)

	api := New(sessions, auth.NewEngine(sessions), auth.NewLimiter(), leads, patients, notes, broker, "test")
	srv := httptest.NewServer(RequestID(api.Handler()))
	t.Cleanup(srv.Close)

	return &testEnv{srv: srv, sessions: sessions}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequest(method, e.srv.URL+path, reader)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := e.srv.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}
	return resp.StatusCode, data
}

func (e *testEnv) login(t *testing.T, identifier, secret string) string {
	t.Helper()
	code, body := e.do(t, http.MethodPost, "/v1/auth/login", "", map[string]string{
		"identifier": identifier,
		"password":   secret,
	})
	if code != http.StatusOK {
		t.Fatalf("login %s: status %d body %s", identifier, code, body)
	}
	var resp struct {
		Token string         `json:"token"`
		User  auth.Principal `json:"user"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("login response malformed: %v", err)
	}
	if resp.Token == "" {
		t.Fatal("login returned no token")
	}
	return resp.Token
}

func TestHealthEndpointsArePublic(t *testing.T) {
	env := newTestEnv(t)
	for _, path := range []string{"/healthz", "/readyz", "/v1/info"} {
		if code, body := env.do(t, http.MethodGet, path, "", nil); code != http.StatusOK {
			t.Fatalf("%s: status %d body %s", path, code, body)
		}
	}
}

func TestRequestsRequireToken(t *testing.T) {
	env := newTestEnv(t)
	if code, _ := env.do(t, http.MethodGet, "/v1/leads", "", nil); code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", code)
	}
	if code, _ := env.do(t, http.MethodGet, "/v1/leads", "not-a-token", nil); code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for garbage token, got %d", code)
	}
}

func TestAdminLeadFlow(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t, "admin", "123456")

	code, body := env.do(t, http.MethodPost, "/v1/leads", token, map[string]any{
		"first_name": "Ayşe", "last_name": "Demir", "country": "İspanya",
		"status": "contacted", "temperature": "hot",
	})
	if code != http.StatusCreated {
		t.Fatalf("create lead: status %d body %s", code, body)
	}
	var created lead.Lead
	if err := json.Unmarshal(body, &created); err != nil {
		t.Fatalf("create response malformed: %v", err)
	}

	code, body = env.do(t, http.MethodGet, "/v1/leads?status=contacted&country=all&temperature=hot", token, nil)
	if code != http.StatusOK {
		t.Fatalf("list leads: status %d body %s", code, body)
	}
	var listed struct {
		Leads []lead.Lead `json:"leads"`
		Total int         `json:"total"`
	}
	if err := json.Unmarshal(body, &listed); err != nil {
		t.Fatalf("list response malformed: %v", err)
	}
	if listed.Total != 1 || listed.Leads[0].ID != created.ID {
		t.Fatalf("unexpected listing: %s", body)
	}

	code, body = env.do(t, http.MethodPatch, "/v1/leads/"+created.ID, token, map[string]string{"status": "qualified"})
	if code != http.StatusOK {
		t.Fatalf("patch lead: status %d body %s", code, body)
	}

	if code, _ = env.do(t, http.MethodGet, "/v1/leads?status=contacted", token, nil); code != http.StatusOK {
		t.Fatalf("list after patch: status %d", code)
	}

	code, body = env.do(t, http.MethodGet, "/v1/leads/stats", token, nil)
	if code != http.StatusOK {
		t.Fatalf("stats: status %d body %s", code, body)
	}
	var stats lead.Stats
	if err := json.Unmarshal(body, &stats); err != nil {
		t.Fatalf("stats malformed: %v", err)
	}
	if !stats.Live || stats.TotalLeads != 1 {
		t.Fatalf("unexpected stats: %s", body)
	}

	if code, body = env.do(t, http.MethodPatch, "/v1/leads/does-not-exist", token, map[string]string{"status": "lost"}); code != http.StatusNotFound {
		t.Fatalf("patch unknown lead: status %d body %s", code, body)
	}
}

func TestPrivateNoteVisibility(t *testing.T) {
	env := newTestEnv(t)
	adminToken := env.login(t, "admin", "123456")

	code, body := env.do(t, http.MethodPost, "/v1/leads", adminToken, map[string]any{"first_name": "Maria"})
	if code != http.StatusCreated {
		t.Fatalf("create lead: status %d body %s", code, body)
	}
	var created lead.Lead
	if err := json.Unmarshal(body, &created); err != nil {
		t.Fatalf("create response malformed: %v", err)
	}

	notesPath := "/v1/leads/" + created.ID + "/notes"
	if code, body = env.do(t, http.MethodPost, notesPath, adminToken, map[string]any{
		"content": "public note",
	}); code != http.StatusCreated {
		t.Fatalf("add public note: status %d body %s", code, body)
	}
	if code, body = env.do(t, http.MethodPost, notesPath, adminToken, map[string]any{
		"content": "pricing remark", "note_type": "internal", "is_private": true,
	}); code != http.StatusCreated {
		t.Fatalf("add private note: status %d body %s", code, body)
	}

	code, body = env.do(t, http.MethodGet, notesPath, adminToken, nil)
	if code != http.StatusOK {
		t.Fatalf("admin list notes: status %d body %s", code, body)
	}
	var adminNotes struct {
		Notes []note.Note `json:"notes"`
	}
	if err := json.Unmarshal(body, &adminNotes); err != nil {
		t.Fatalf("notes malformed: %v", err)
	}
	if len(adminNotes.Notes) != 2 {
		t.Fatalf("admin must see both notes: %s", body)
	}

	// The partner role can view leads but not manage them, so the private
	// note must be filtered out.
	env.do(t, http.MethodPost, "/v1/auth/logout", adminToken, nil)
	partnerToken := env.login(t, "partner", "123456")

	code, body = env.do(t, http.MethodGet, notesPath, partnerToken, nil)
	if code != http.StatusOK {
		t.Fatalf("partner list notes: status %d body %s", code, body)
	}
	var partnerNotes struct {
		Notes []note.Note `json:"notes"`
	}
	if err := json.Unmarshal(body, &partnerNotes); err != nil {
		t.Fatalf("notes malformed: %v", err)
	}
	if len(partnerNotes.Notes) != 1 || partnerNotes.Notes[0].IsPrivate {
		t.Fatalf("partner must see only the public note: %s", body)
	}
}

func TestPartnerCannotManageLeads(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t, "partner", "123456")

	if code, _ := env.do(t, http.MethodGet, "/v1/leads", token, nil); code != http.StatusOK {
		t.Fatalf("partner must view leads, got %d", code)
	}
	if code, _ := env.do(t, http.MethodPost, "/v1/leads", token, map[string]any{"first_name": "X"}); code != http.StatusForbidden {
		t.Fatalf("partner create lead: expected 403, got %d", code)
	}
	if code, _ := env.do(t, http.MethodPost, "/v1/leads/import", token, []map[string]any{}); code != http.StatusForbidden {
		t.Fatalf("partner import: expected 403, got %d", code)
	}
}

func TestPatientFlowAndGuards(t *testing.T) {
	env := newTestEnv(t)
	doctorToken := env.login(t, "doctor", "123456")

	code, body := env.do(t, http.MethodPost, "/v1/patients", doctorToken, map[string]any{
		"first_name": "Maria", "last_name": "Rodriguez", "age": 45,
		"country": "İspanya", "treatment": "cardiology",
	})
	if code != http.StatusCreated {
		t.Fatalf("doctor create patient: status %d body %s", code, body)
	}
	var created patient.Patient
	if err := json.Unmarshal(body, &created); err != nil {
		t.Fatalf("create response malformed: %v", err)
	}
	if created.Status != patient.StatusConsultation {
		t.Fatalf("admission default status: %q", created.Status)
	}

	code, body = env.do(t, http.MethodPatch, "/v1/patients/"+created.ID, doctorToken, map[string]string{
		"status": "in-treatment",
	})
	if code != http.StatusOK {
		t.Fatalf("doctor patch patient: status %d body %s", code, body)
	}

	code, body = env.do(t, http.MethodGet, "/v1/patients?status=in-treatment&country=all", doctorToken, nil)
	if code != http.StatusOK {
		t.Fatalf("list patients: status %d body %s", code, body)
	}
	var listed struct {
		Patients []patient.Patient `json:"patients"`
		Total    int               `json:"total"`
	}
	if err := json.Unmarshal(body, &listed); err != nil {
		t.Fatalf("list response malformed: %v", err)
	}
	if listed.Total != 1 || listed.Patients[0].ID != created.ID {
		t.Fatalf("unexpected listing: %s", body)
	}

	if code, _ = env.do(t, http.MethodGet, "/v1/patients/does-not-exist", doctorToken, nil); code != http.StatusNotFound {
		t.Fatalf("unknown patient: status %d", code)
	}

	// The agent role holds patients.view but no edit grant.
	env.do(t, http.MethodPost, "/v1/auth/logout", doctorToken, nil)
	agentToken := env.login(t, "agent", "123456")
	if code, _ = env.do(t, http.MethodGet, "/v1/patients", agentToken, nil); code != http.StatusOK {
		t.Fatalf("agent must view patients, got %d", code)
	}
	if code, _ = env.do(t, http.MethodPost, "/v1/patients", agentToken, map[string]any{"first_name": "X"}); code != http.StatusForbidden {
		t.Fatalf("agent create patient: expected 403, got %d", code)
	}

	// The partner role only carries the scoped patients.view.own grant.
	env.do(t, http.MethodPost, "/v1/auth/logout", agentToken, nil)
	partnerToken := env.login(t, "partner", "123456")
	if code, _ = env.do(t, http.MethodGet, "/v1/patients", partnerToken, nil); code != http.StatusForbidden {
		t.Fatalf("partner list patients: expected 403, got %d", code)
	}
}

func TestLogoutInvalidatesToken(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t, "admin", "123456")

	if code, _ := env.do(t, http.MethodGet, "/v1/auth/me", token, nil); code != http.StatusOK {
		t.Fatalf("me before logout: %d", code)
	}
	if code, _ := env.do(t, http.MethodPost, "/v1/auth/logout", token, nil); code != http.StatusOK {
		t.Fatalf("logout failed")
	}
	// The JWT is still inside its signed validity window, but the session
	// it references is gone.
	if code, _ := env.do(t, http.MethodGet, "/v1/auth/me", token, nil); code != http.StatusUnauthorized {
		t.Fatalf("token must die with the session")
	}
	if code, _ := env.do(t, http.MethodGet, "/v1/leads", token, nil); code != http.StatusUnauthorized {
		t.Fatalf("guarded routes must reject the dead token")
	}
}

func TestLoginLockoutAfterRepeatedFailures(t *testing.T) {
	env := newTestEnv(t)

	for i := 0; i < 4; i++ {
		code, _ := env.do(t, http.MethodPost, "/v1/auth/login", "", map[string]string{
			"identifier": "doctor", "password": "wrong",
		})
		if code != http.StatusUnauthorized {
			t.Fatalf("attempt %d: expected 401, got %d", i+1, code)
		}
	}

	// The fifth failure trips the block.
	code, _ := env.do(t, http.MethodPost, "/v1/auth/login", "", map[string]string{
		"identifier": "doctor", "password": "wrong",
	})
	if code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 on blocking failure, got %d", code)
	}

	// Even the correct secret is refused while blocked.
	code, _ = env.do(t, http.MethodPost, "/v1/auth/login", "", map[string]string{
		"identifier": "doctor", "password": "123456",
	})
	if code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 while blocked, got %d", code)
	}

	// The block follows the account, not the spelling of the identifier:
	// cased or padded variants resolve to the same directory entry and
	// must not receive a fresh attempt budget.
	for _, variant := range []string{"Doctor", "DOCTOR", " doctor", "doctor "} {
		code, _ = env.do(t, http.MethodPost, "/v1/auth/login", "", map[string]string{
			"identifier": variant, "password": "123456",
		})
		if code != http.StatusTooManyRequests {
			t.Fatalf("identifier %q: expected 429 while blocked, got %d", variant, code)
		}
	}

	// Other identifiers stay unaffected.
	env.login(t, "admin", "123456")
}

func TestLoginRejectsMalformedBody(t *testing.T) {
	env := newTestEnv(t)
	code, _ := env.do(t, http.MethodPost, "/v1/auth/login", "", map[string]any{
		"identifier": "admin", "password": "123456", "unexpected": true,
	})
	if code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown fields, got %d", code)
	}
	if code, _ := env.do(t, http.MethodGet, "/v1/auth/login", "", nil); code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", code)
	}
}

func TestCatalogEndpoints(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t, "admin", "123456")

	code, body := env.do(t, http.MethodGet, "/v1/hospitals", token, nil)
	if code != http.StatusOK {
		t.Fatalf("hospitals: status %d", code)
	}
	var hospitals struct {
		Hospitals []struct {
			Name string `json:"name"`
		} `json:"hospitals"`
	}
	if err := json.Unmarshal(body, &hospitals); err != nil {
		t.Fatalf("hospitals malformed: %v", err)
	}
	if len(hospitals.Hospitals) != 3 {
		t.Fatalf("unexpected hospital count: %d", len(hospitals.Hospitals))
	}

	if code, _ := env.do(t, http.MethodGet, "/v1/packages", token, nil); code != http.StatusOK {
		t.Fatalf("packages: status %d", code)
	}
	if code, _ := env.do(t, http.MethodGet, "/v1/note-types", token, nil); code != http.StatusOK {
		t.Fatalf("note types: status %d", code)
	}
}

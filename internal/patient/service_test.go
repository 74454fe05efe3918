package patient

import (
	"errors"
	"testing"
	"time"

	"sagliktur.org/internal/store"
)

func TestCreateAppliesAdmissionDefaults(t *testing.T) {
	s := NewService(nil)

	p, err := s.Create(Patient{FirstName: "Maria", LastName: "Rodriguez", Country: "İspanya"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.ID == "" {
		t.Fatal("create must assign an id")
	}
	if p.Status != StatusConsultation {
		t.Fatalf("default status: got %q", p.Status)
	}
	if p.Priority != PriorityMedium {
		t.Fatalf("default priority: got %q", p.Priority)
	}
	if p.CreatedAt.IsZero() || !p.CreatedAt.Equal(p.UpdatedAt) {
		t.Fatalf("timestamps: created=%v updated=%v", p.CreatedAt, p.UpdatedAt)
	}
}

func TestCreateRejectsInvalidFields(t *testing.T) {
	s := NewService(nil)

	if _, err := s.Create(Patient{Country: "İspanya"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("nameless patient: got %v", err)
	}
	if _, err := s.Create(Patient{FirstName: "X", Status: "discharged"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("unknown status: got %v", err)
	}
	if _, err := s.Create(Patient{FirstName: "X", Age: -1}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("negative age: got %v", err)
	}
	if _, err := s.Create(Patient{FirstName: "X", Age: 200}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("implausible age: got %v", err)
	}
}

func TestUpdateMergesPatchAndRefreshesTimestamp(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	now := base
	s := NewService(nil, WithServiceClock(func() time.Time { return now }))

	created, err := s.Create(Patient{FirstName: "Ahmed", LastName: "Hassan", Treatment: "orthopedics"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	now = base.Add(time.Hour)
	status := StatusInTreatment
	coordinator := "Fatma Yıldız"
	updated, err := s.Update(created.ID, Patch{Status: &status, Coordinator: &coordinator})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Status != StatusInTreatment || updated.Coordinator != coordinator {
		t.Fatalf("patch not applied: %+v", updated)
	}
	if updated.Treatment != "orthopedics" {
		t.Fatal("unpatched fields must survive")
	}
	if !updated.UpdatedAt.After(updated.CreatedAt) {
		t.Fatalf("updated_at must move: %v", updated.UpdatedAt)
	}

	bad := Status("discharged")
	if _, err := s.Update(created.ID, Patch{Status: &bad}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("invalid status patch: got %v", err)
	}
	if _, err := s.Update("missing", Patch{Status: &status}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown id: got %v", err)
	}
}

func TestListReturnsNewestFirst(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	now := base
	s := NewService(nil, WithServiceClock(func() time.Time { return now }))

	first, _ := s.Create(Patient{FirstName: "Maria"})
	now = base.Add(time.Minute)
	second, _ := s.Create(Patient{FirstName: "Ahmed"})

	got := s.List(Filter{})
	if len(got) != 2 {
		t.Fatalf("expected 2 patients, got %d", len(got))
	}
	if got[0].ID != second.ID || got[1].ID != first.ID {
		t.Fatalf("ordering: %+v", got)
	}
}

func TestMirrorSurvivesReload(t *testing.T) {
	records := store.NewMemory()
	s := NewService(records)

	created, err := s.Create(Patient{FirstName: "Sarah", LastName: "Thompson", Country: "İngiltere"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	status := StatusPlanning
	if _, err := s.Update(created.ID, Patch{Status: &status}); err != nil {
		t.Fatalf("update: %v", err)
	}

	restored := NewService(records)
	if err := restored.Load(); err != nil {
		t.Fatalf("load: %v", err)
	}
	got, err := restored.Get(created.ID)
	if err != nil {
		t.Fatalf("get after load: %v", err)
	}
	if got.Status != StatusPlanning || got.FullName() != "Sarah Thompson" {
		t.Fatalf("restored record: %+v", got)
	}
}

func TestLoadWithoutMirrorIsNoOp(t *testing.T) {
	s := NewService(store.NewMemory())
	if err := s.Load(); err != nil {
		t.Fatalf("load with empty store: %v", err)
	}
	if got := s.List(Filter{}); len(got) != 0 {
		t.Fatalf("expected empty roster, got %d", len(got))
	}
}

func TestLoadReportsCorruptMirror(t *testing.T) {
	records := store.NewMemory()
	if err := records.Put(store.KeyPatients, []byte("{not json")); err != nil {
		t.Fatalf("seed corrupt mirror: %v", err)
	}
	s := NewService(records)
	if err := s.Load(); err == nil {
		t.Fatal("corrupt mirror must surface an error")
	}
}

package patient

import (
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"sagliktur.org/internal/ids"
	"sagliktur.org/internal/obs"
	"sagliktur.org/internal/store"
)

const maxAge = 130

// Service owns the patient roster. Reads see whole records only; a patch
// replaces the record atomically under the collection lock.
type Service struct {
	mu       sync.RWMutex
	patients map[string]*Patient

	records store.RecordStore
	now     func() time.Time
}

// ServiceOption configures the service.
type ServiceOption func(*Service)

// WithServiceClock overrides the time source.
func WithServiceClock(fn func() time.Time) ServiceOption {
	return func(s *Service) {
		if fn != nil {
			s.now = fn
		}
	}
}

// NewService builds a patient service. records may be nil; the durable mirror
// is then skipped.
func NewService(records store.RecordStore, opts ...ServiceOption) *Service {
	s := &Service{
		patients: make(map[string]*Patient),
		records:  records,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create registers a new patient. Unset optional fields receive the admission
// defaults: status consultation, priority medium.
func (s *Service) Create(fields Patient) (Patient, error) {
	if strings.TrimSpace(fields.FirstName) == "" && strings.TrimSpace(fields.LastName) == "" {
		return Patient{}, ErrInvalidInput
	}
	if fields.Status == "" {
		fields.Status = StatusConsultation
	}
	if !ValidStatus(fields.Status) {
		return Patient{}, ErrInvalidInput
	}
	if fields.Age < 0 || fields.Age > maxAge {
		return Patient{}, ErrInvalidInput
	}
	if fields.Priority == "" {
		fields.Priority = PriorityMedium
	}

	now := s.now().UTC()
	fields.ID = ids.New()
	fields.CreatedAt = now
	fields.UpdatedAt = now

	s.mu.Lock()
	stored := fields
	s.patients[stored.ID] = &stored
	s.mu.Unlock()

	s.mirror()
	return fields, nil
}

// Get returns the patient by id.
func (s *Service) Get(id string) (Patient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.patients[id]
	if !ok {
		return Patient{}, ErrNotFound
	}
	return *p, nil
}

// Update merges the patch onto the record and refreshes the update timestamp.
func (s *Service) Update(id string, patch Patch) (Patient, error) {
	if patch.Status != nil && !ValidStatus(*patch.Status) {
		return Patient{}, ErrInvalidInput
	}
	if patch.Age != nil && (*patch.Age < 0 || *patch.Age > maxAge) {
		return Patient{}, ErrInvalidInput
	}

	s.mu.Lock()
	current, ok := s.patients[id]
	if !ok {
		s.mu.Unlock()
		return Patient{}, ErrNotFound
	}
	next := *current
	applyPatch(&next, patch)
	next.UpdatedAt = s.now().UTC()
	s.patients[id] = &next
	s.mu.Unlock()

	s.mirror()
	return next, nil
}

// List returns the roster newest-first, optionally filtered.
func (s *Service) List(f Filter) []Patient {
	s.mu.RLock()
	out := make([]Patient, 0, len(s.patients))
	for _, p := range s.patients {
		out = append(out, *p)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return f.Apply(out)
}

// Load replaces the roster from the durable mirror, if one exists.
func (s *Service) Load() error {
	if s.records == nil {
		return nil
	}
	data, err := s.records.Get(store.KeyPatients)
	if err != nil {
		if errors.Is(err, store.ErrKeyNotFound) {
			return nil
		}
		return err
	}
	var restored []Patient
	if err := json.Unmarshal(data, &restored); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.patients = make(map[string]*Patient, len(restored))
	for i := range restored {
		p := restored[i]
		s.patients[p.ID] = &p
	}
	return nil
}

// mirror writes the whole roster under the durable key. Failures are logged;
// the in-memory roster stays authoritative.
func (s *Service) mirror() {
	if s.records == nil {
		return
	}
	snapshot := s.List(Filter{})
	data, err := json.Marshal(snapshot)
	if err == nil {
		err = s.records.Put(store.KeyPatients, data)
	}
	if err != nil {
		obs.LogEvent(map[string]any{
			"level": "warn", "msg": "patient mirror write failed", "error": err.Error(),
		})
	}
}

func applyPatch(p *Patient, patch Patch) {
	if patch.FirstName != nil {
		p.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		p.LastName = *patch.LastName
	}
	if patch.Email != nil {
		p.Email = *patch.Email
	}
	if patch.Phone != nil {
		p.Phone = *patch.Phone
	}
	if patch.Age != nil {
		p.Age = *patch.Age
	}
	if patch.Country != nil {
		p.Country = *patch.Country
	}
	if patch.Treatment != nil {
		p.Treatment = *patch.Treatment
	}
	if patch.Status != nil {
		p.Status = *patch.Status
	}
	if patch.Coordinator != nil {
		p.Coordinator = *patch.Coordinator
	}
	if patch.NextAppointment != nil {
		t := *patch.NextAppointment
		p.NextAppointment = &t
	}
	if patch.Priority != nil {
		p.Priority = *patch.Priority
	}
	if patch.MedicalHistory != nil {
		p.MedicalHistory = *patch.MedicalHistory
	}
	if patch.Insurance != nil {
		p.Insurance = *patch.Insurance
	}
	if patch.Branch != nil {
		p.Branch = *patch.Branch
	}
}

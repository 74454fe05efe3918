package note

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

// Service owns the note log across all leads.
type Service struct {
	mu      sync.RWMutex
	notes   map[string]*Note
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

// NewService builds a note service. records may be nil; the durable mirror is
// then skipped.
func NewService(records store.RecordStore, opts ...ServiceOption) *Service {
	s := &Service{
		notes:   make(map[string]*Note),
		records: records,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add appends a note to the lead's log.
func (s *Service) Add(fields Note) (Note, error) {
	if strings.TrimSpace(fields.LeadID) == "" || strings.TrimSpace(fields.Content) == "" {
		return Note{}, ErrInvalidInput
	}
	if fields.NoteType == "" {
		fields.NoteType = "general"
	}
	if !ValidType(fields.NoteType) {
		return Note{}, ErrInvalidInput
	}

	now := s.now().UTC()
	fields.ID = ids.New()
	fields.CreatedAt = now
	fields.UpdatedAt = now

	s.mu.Lock()
	stored := fields
	s.notes[stored.ID] = &stored
	s.mu.Unlock()

	s.mirror()
	return fields, nil
}

// List returns the lead's notes newest-first. Private notes are excluded
// unless includePrivate is set; the caller is responsible for checking the
// caller's authority before setting it.
func (s *Service) List(leadID string, includePrivate bool) []Note {
	s.mu.RLock()
	out := make([]Note, 0)
	for _, n := range s.notes {
		if n.LeadID != leadID {
			continue
		}
		if n.IsPrivate && !includePrivate {
			continue
		}
		out = append(out, *n)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// Get returns the note by id.
func (s *Service) Get(id string) (Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, ok := s.notes[id]
	if !ok {
		return Note{}, ErrNotFound
	}
	return *n, nil
}

// Update merges the patch onto the note. CreatedAt stays untouched; UpdatedAt
// is refreshed.
func (s *Service) Update(id string, patch Patch) (Note, error) {
	if patch.NoteType != nil && !ValidType(*patch.NoteType) {
		return Note{}, ErrInvalidInput
	}

	s.mu.Lock()
	current, ok := s.notes[id]
	if !ok {
		s.mu.Unlock()
		return Note{}, ErrNotFound
	}
	next := *current
	if patch.NoteType != nil {
		next.NoteType = *patch.NoteType
	}
	if patch.Content != nil {
		next.Content = *patch.Content
	}
	if patch.InteractionChannel != nil {
		next.InteractionChannel = *patch.InteractionChannel
	}
	if patch.InteractionDuration != nil {
		next.InteractionDuration = *patch.InteractionDuration
	}
	if patch.FollowUpRequired != nil {
		next.FollowUpRequired = *patch.FollowUpRequired
	}
	if patch.FollowUpDate != nil {
		t := *patch.FollowUpDate
		next.FollowUpDate = &t
	}
	if patch.IsPrivate != nil {
		next.IsPrivate = *patch.IsPrivate
	}
	next.UpdatedAt = s.now().UTC()
	s.notes[id] = &next
	s.mu.Unlock()

	s.mirror()
	return next, nil
}

// Delete removes the note. An unknown id is a silent no-op; deleting one note
// never affects another.
func (s *Service) Delete(id string) {
	s.mu.Lock()
	_, ok := s.notes[id]
	delete(s.notes, id)
	s.mu.Unlock()
	if ok {
		s.mirror()
	}
}

// Load replaces the log from the durable mirror, if one exists.
func (s *Service) Load() error {
	if s.records == nil {
		return nil
	}
	data, err := s.records.Get(store.KeyLeadNotes)
	if err != nil {
		if errors.Is(err, store.ErrKeyNotFound) {
			return nil
		}
		return err
	}
	var restored []Note
	if err := json.Unmarshal(data, &restored); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notes = make(map[string]*Note, len(restored))
	for i := range restored {
		n := restored[i]
		s.notes[n.ID] = &n
	}
	return nil
}

// mirror writes the whole log under the durable key. Failures are logged; the
// in-memory log stays authoritative.
func (s *Service) mirror() {
	if s.records == nil {
		return
	}
	s.mu.RLock()
	snapshot := make([]Note, 0, len(s.notes))
	for _, n := range s.notes {
		snapshot = append(snapshot, *n)
	}
	s.mu.RUnlock()
	sort.Slice(snapshot, func(i, j int) bool {
		return snapshot[i].CreatedAt.Before(snapshot[j].CreatedAt)
	})

	data, err := json.Marshal(snapshot)
	if err == nil {
		err = s.records.Put(store.KeyLeadNotes, data)
	}
	if err != nil {
		obs.LogEvent(map[string]any{
			"level": "warn", "msg": "note mirror write failed", "error": err.Error(),
		})
	}
}

package lead

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

// Service owns the lead collection. Reads see whole records only; a patch is
// applied atomically per record, and updates to two different leads never
// block each other.
type Service struct {
	mu       sync.RWMutex
	leads    map[string]*Lead
	degraded bool

	lockMu sync.Mutex
	locks  map[string]*sync.Mutex

	broker  *Broker
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

// NewService builds a lead service. broker and records may be nil; events and
// the durable mirror are then skipped.
func NewService(broker *Broker, records store.RecordStore, opts ...ServiceOption) *Service {
	s := &Service{
		leads:   make(map[string]*Lead),
		locks:   make(map[string]*sync.Mutex),
		broker:  broker,
		records: records,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create registers a new lead. Unset optional fields receive the intake
// defaults: score 0, temperature warm, priority medium. A creation event is
// published for live list refresh.
func (s *Service) Create(fields Lead) (Lead, error) {
	if strings.TrimSpace(fields.FirstName) == "" && strings.TrimSpace(fields.LastName) == "" {
		return Lead{}, ErrInvalidInput
	}
	if fields.Status == "" {
		fields.Status = StatusNew
	}
	if !ValidStatus(fields.Status) {
		return Lead{}, ErrInvalidInput
	}
	if fields.Score < 0 || fields.Score > 100 {
		return Lead{}, ErrInvalidInput
	}
	if fields.Temperature == "" {
		fields.Temperature = TemperatureWarm
	}
	if fields.Priority == "" {
		fields.Priority = PriorityMedium
	}

	now := s.now().UTC()
	fields.ID = ids.New()
	fields.LeadCode = ids.LeadCode()
	fields.CreatedAt = now
	fields.UpdatedAt = now

	s.mu.Lock()
	stored := fields
	s.leads[stored.ID] = &stored
	s.degraded = false
	s.mu.Unlock()

	s.mirror()
	if s.broker != nil {
		s.broker.Publish(Event{Type: EventLeadCreated, Lead: fields, At: now})
	}
	return fields, nil
}

// Import bulk-creates leads from an intake batch. Records that fail
// validation are skipped and counted; the rest are created normally.
func (s *Service) Import(batch []Lead) (created int, skipped int) {
	for _, fields := range batch {
		if _, err := s.Create(fields); err != nil {
			skipped++
			continue
		}
		created++
	}
	return created, skipped
}

// Get returns the lead by id.
func (s *Service) Get(id string) (Lead, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.leads[id]
	if !ok {
		return Lead{}, ErrNotFound
	}
	return *l, nil
}

// Update merges the patch onto the record and refreshes the update timestamp.
// The per-record lock keeps a concurrent patch to the same lead from
// interleaving while leaving other records unaffected.
func (s *Service) Update(id string, patch Patch) (Lead, error) {
	if patch.Status != nil && !ValidStatus(*patch.Status) {
		return Lead{}, ErrInvalidInput
	}
	if patch.Score != nil && (*patch.Score < 0 || *patch.Score > 100) {
		return Lead{}, ErrInvalidInput
	}

	recLock := s.recordLock(id)
	recLock.Lock()
	defer recLock.Unlock()

	s.mu.RLock()
	current, ok := s.leads[id]
	s.mu.RUnlock()
	if !ok {
		return Lead{}, ErrNotFound
	}

	next := *current
	applyPatch(&next, patch)
	next.UpdatedAt = s.now().UTC()

	s.mu.Lock()
	s.leads[id] = &next
	s.degraded = false
	s.mu.Unlock()

	s.mirror()
	if s.broker != nil {
		s.broker.Publish(Event{Type: EventLeadUpdated, Lead: next, At: next.UpdatedAt})
	}
	return next, nil
}

// List returns the collection newest-first, optionally filtered.
func (s *Service) List(f Filter) []Lead {
	s.mu.RLock()
	out := make([]Lead, 0, len(s.leads))
	for _, l := range s.leads {
		out = append(out, *l)
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

// Load replaces the collection from the durable mirror, if one exists. A
// mirror that exists but cannot be read marks the collection degraded: the
// in-memory view is known to be missing records, so aggregate numbers fall
// back to the fixed placeholders until a write re-establishes authority.
func (s *Service) Load() error {
	if s.records == nil {
		return nil
	}
	data, err := s.records.Get(store.KeyLeads)
	if err != nil {
		if errors.Is(err, store.ErrKeyNotFound) {
			return nil
		}
		s.markDegraded()
		return err
	}
	var restored []Lead
	if err := json.Unmarshal(data, &restored); err != nil {
		s.markDegraded()
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.leads = make(map[string]*Lead, len(restored))
	for i := range restored {
		l := restored[i]
		s.leads[l.ID] = &l
	}
	s.degraded = false
	return nil
}

func (s *Service) markDegraded() {
	s.mu.Lock()
	s.degraded = true
	s.mu.Unlock()
}

func (s *Service) recordLock(id string) *sync.Mutex {
	s.lockMu.Lock()
	defer s.lockMu.Unlock()
	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	return l
}

// mirror writes the whole collection under the durable key. Failures are
// logged; the in-memory collection stays authoritative.
func (s *Service) mirror() {
	if s.records == nil {
		return
	}
	snapshot := s.List(Filter{})
	data, err := json.Marshal(snapshot)
	if err == nil {
		err = s.records.Put(store.KeyLeads, data)
	}
	if err != nil {
		obs.LogEvent(map[string]any{
			"level": "warn", "msg": "lead mirror write failed", "error": err.Error(),
		})
	}
}

func applyPatch(l *Lead, p Patch) {
	if p.FirstName != nil {
		l.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		l.LastName = *p.LastName
	}
	if p.Email != nil {
		l.Email = *p.Email
	}
	if p.Phone != nil {
		l.Phone = *p.Phone
	}
	if p.Country != nil {
		l.Country = *p.Country
	}
	if p.City != nil {
		l.City = *p.City
	}
	if p.TreatmentInterest != nil {
		l.TreatmentInterest = *p.TreatmentInterest
	}
	if p.Source != nil {
		l.Source = *p.Source
	}
	if p.SourceDetails != nil {
		l.SourceDetails = *p.SourceDetails
	}
	if p.Status != nil {
		l.Status = *p.Status
	}
	if p.AssignedTo != nil {
		l.AssignedTo = *p.AssignedTo
	}
	if p.AssignedName != nil {
		l.AssignedName = *p.AssignedName
	}
	if p.AssignedPosition != nil {
		l.AssignedPosition = *p.AssignedPosition
	}
	if p.BudgetRange != nil {
		l.BudgetRange = *p.BudgetRange
	}
	if p.Notes != nil {
		l.Notes = *p.Notes
	}
	if p.Tags != nil {
		l.Tags = append([]string(nil), (*p.Tags)...)
	}
	if p.Language != nil {
		l.Language = *p.Language
	}
	if p.Priority != nil {
		l.Priority = *p.Priority
	}
	if p.Campaign != nil {
		l.Campaign = *p.Campaign
	}
	if p.Score != nil {
		l.Score = *p.Score
	}
	if p.Temperature != nil {
		l.Temperature = *p.Temperature
	}
	if p.ConversionProbability != nil {
		l.ConversionProbability = *p.ConversionProbability
	}
	if p.InteractionCount != nil {
		l.InteractionCount = *p.InteractionCount
	}
	if p.LastContactAt != nil {
		t := *p.LastContactAt
		l.LastContactAt = &t
	}
	if p.NextFollowUpAt != nil {
		t := *p.NextFollowUpAt
		l.NextFollowUpAt = &t
	}
}

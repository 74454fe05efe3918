// Package session holds the authenticated principal for the lifetime of a
// login and drives the Unauthenticated -> Authenticating -> Authenticated ->
// (Expired | LoggedOut) state machine.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"sagliktur.org/internal/auth"
	"sagliktur.org/internal/obs"
	"sagliktur.org/internal/store"
)

// DefaultTTL is the fixed session lifetime from login.
const DefaultTTL = 8 * time.Hour

// RevalidateInterval is how often an active session is re-checked.
const RevalidateInterval = 5 * time.Minute

var (
	// ErrLoginInFlight signals a concurrent duplicate login submission.
	ErrLoginInFlight = errors.New("session: login already in flight")
	// ErrExpired signals a session past its absolute expiry.
	ErrExpired = errors.New("session: expired")
)

// Store owns the current session. One mutex serializes login, logout and the
// revalidation tick so none of them interleave.
type Store struct {
	mu        chan struct{} // buffered-1 channel used as a mutex
	validator auth.CredentialValidator
	tracker   Tracker
	records   store.RecordStore
	now       func() time.Time
	ttl       time.Duration

	principal *auth.Principal
	expiry    time.Time
	inFlight  bool
}

// Option configures the store.
type Option func(*Store)

// WithClock overrides the time source (useful for tests).
func WithClock(fn func() time.Time) Option {
	return func(s *Store) {
		if fn != nil {
			s.now = fn
		}
	}
}

// WithTTL overrides the session lifetime.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// New builds a session store. tracker may be nil, in which case session
// tracking side calls are skipped.
func New(validator auth.CredentialValidator, tracker Tracker, records store.RecordStore, opts ...Option) *Store {
	s := &Store{
		mu:        make(chan struct{}, 1),
		validator: validator,
		tracker:   tracker,
		records:   records,
		now:       time.Now,
		ttl:       DefaultTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) lock()   { s.mu <- struct{}{} }
func (s *Store) unlock() { <-s.mu }

// Login validates credentials and authenticates the session. At most one
// login may be in flight; a concurrent duplicate gets ErrLoginInFlight.
// Credential validation runs outside the lock so a slow validator does not
// stall revalidation or logout.
func (s *Store) Login(ctx context.Context, creds auth.Credentials) (auth.Principal, error) {
	s.lock()
	if s.inFlight {
		s.unlock()
		return auth.Principal{}, ErrLoginInFlight
	}
	s.inFlight = true
	s.unlock()

	principal, err := s.validator.Validate(ctx, creds)

	s.lock()
	defer s.unlock()
	s.inFlight = false
	if err != nil {
		return auth.Principal{}, err
	}

	s.principal = &principal
	s.expiry = s.now().Add(s.ttl)
	s.persistLocked()

	if s.tracker != nil {
		go func(id string) {
			if err := s.tracker.Begin(context.Background(), id); err != nil {
				obs.LogEvent(map[string]any{
					"level": "warn", "msg": "session tracking begin failed",
					"user_id": id, "error": err.Error(),
				})
			}
		}(principal.ID)
	}
	return principal, nil
}

// Logout clears local session state synchronously, then fires the tracking
// teardown in the background. Teardown failure never surfaces as a logout
// failure.
func (s *Store) Logout() {
	s.lock()
	var id string
	if s.principal != nil {
		id = s.principal.ID
	}
	s.clearLocked()
	s.unlock()

	if id != "" && s.tracker != nil {
		go func() {
			if err := s.tracker.End(context.Background(), id); err != nil {
				obs.LogEvent(map[string]any{
					"level": "warn", "msg": "session tracking end failed",
					"user_id": id, "error": err.Error(),
				})
			}
		}()
	}
}

// Principal returns the current principal. The expiry is re-checked before
// trusting the session; a stale session is torn down and reported absent.
func (s *Store) Principal() (auth.Principal, bool) {
	s.lock()
	defer s.unlock()
	if s.principal == nil {
		return auth.Principal{}, false
	}
	if !s.now().Before(s.expiry) {
		s.clearLocked()
		return auth.Principal{}, false
	}
	return *s.principal, true
}

// Expiry returns the absolute session expiry, if authenticated.
func (s *Store) Expiry() (time.Time, bool) {
	s.lock()
	defer s.unlock()
	if s.principal == nil {
		return time.Time{}, false
	}
	return s.expiry, true
}

// Restore loads a persisted session from the record store. A session past
// its expiry is cleared immediately; there is no grace period.
func (s *Store) Restore() error {
	rawUser, err := s.records.Get(store.KeyUser)
	if err != nil {
		if errors.Is(err, store.ErrKeyNotFound) {
			return nil
		}
		return err
	}
	rawExpiry, err := s.records.Get(store.KeySessionExpiry)
	if err != nil {
		if errors.Is(err, store.ErrKeyNotFound) {
			return nil
		}
		return err
	}

	var principal auth.Principal
	if err := json.Unmarshal(rawUser, &principal); err != nil {
		return err
	}
	expiry, err := time.Parse(time.RFC3339, string(rawExpiry))
	if err != nil {
		return err
	}

	s.lock()
	defer s.unlock()
	if !s.now().Before(expiry) {
		s.clearLocked()
		return ErrExpired
	}
	s.principal = &principal
	s.expiry = expiry
	return nil
}

// Revalidate runs one expiry check, clearing the session if it lapsed.
func (s *Store) Revalidate() {
	s.lock()
	defer s.unlock()
	if s.principal == nil {
		return
	}
	if !s.now().Before(s.expiry) {
		obs.LogEvent(map[string]any{
			"level": "info", "msg": "session expired",
			"user_id": s.principal.ID,
		})
		s.clearLocked()
	}
}

// StartRevalidation re-checks the session on a fixed interval until ctx
// ends. The shared lock keeps ticks from overlapping a login or logout.
func (s *Store) StartRevalidation(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = RevalidateInterval
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.Revalidate()
			}
		}
	}()
}

// persistLocked mirrors the session to the record store. Mirror failures are
// logged; the in-memory session stays authoritative.
func (s *Store) persistLocked() {
	if s.records == nil || s.principal == nil {
		return
	}
	data, err := json.Marshal(s.principal)
	if err == nil {
		err = s.records.Put(store.KeyUser, data)
	}
	if err == nil {
		err = s.records.Put(store.KeySessionExpiry, []byte(s.expiry.UTC().Format(time.RFC3339)))
	}
	if err != nil {
		obs.LogEvent(map[string]any{
			"level": "warn", "msg": "session persist failed", "error": err.Error(),
		})
	}
}

func (s *Store) clearLocked() {
	s.principal = nil
	s.expiry = time.Time{}
	if s.records == nil {
		return
	}
	if err := s.records.Delete(store.KeyUser); err != nil {
		obs.LogEvent(map[string]any{"level": "warn", "msg": "session clear failed", "error": err.Error()})
	}
	if err := s.records.Delete(store.KeySessionExpiry); err != nil {
		obs.LogEvent(map[string]any{"level": "warn", "msg": "session clear failed", "error": err.Error()})
	}
}

package auth

import (
	"strings"
	"sync"
	"time"
)

const (
	defaultMaxFailures = 5
	defaultBlockWindow = 30 * time.Minute
)

// Limiter tracks failed login attempts per identifier and blocks further
// attempts after too many failures. Blocks expire naturally; the remaining
// countdown is evaluated lazily so an expired block never lingers.
type Limiter struct {
	mu          sync.Mutex
	now         func() time.Time
	maxFailures int
	blockWindow time.Duration
	failures    map[string]int
	blockedTill map[string]time.Time
}

// NewLimiter builds a limiter with the dashboard defaults: five failures,
// thirty-minute block.
func NewLimiter() *Limiter {
	return &Limiter{
		now:         time.Now,
		maxFailures: defaultMaxFailures,
		blockWindow: defaultBlockWindow,
		failures:    make(map[string]int),
		blockedTill: make(map[string]time.Time),
	}
}

// normalizeIdentifier folds an identifier the same way the credential
// directory resolves it, so "Doctor" and " doctor " share one attempt budget.
func normalizeIdentifier(identifier string) string {
	return strings.ToLower(strings.TrimSpace(identifier))
}

// Allow reports whether the identifier may attempt a login. When blocked it
// returns the remaining block duration.
func (l *Limiter) Allow(identifier string) (time.Duration, bool) {
	identifier = normalizeIdentifier(identifier)
	l.mu.Lock()
	defer l.mu.Unlock()
	till, ok := l.blockedTill[identifier]
	if !ok {
		return 0, true
	}
	remaining := till.Sub(l.now())
	if remaining <= 0 {
		delete(l.blockedTill, identifier)
		delete(l.failures, identifier)
		return 0, true
	}
	return remaining, false
}

// Failure records a failed attempt and reports whether the identifier is now
// blocked.
func (l *Limiter) Failure(identifier string) bool {
	identifier = normalizeIdentifier(identifier)
	l.mu.Lock()
	defer l.mu.Unlock()
	l.failures[identifier]++
	if l.failures[identifier] >= l.maxFailures {
		l.blockedTill[identifier] = l.now().Add(l.blockWindow)
		return true
	}
	return false
}

// Success clears attempt state after a successful login.
func (l *Limiter) Success(identifier string) {
	l.Reset(identifier)
}

// Reset cancels any countdown and clears the failure count immediately.
func (l *Limiter) Reset(identifier string) {
	identifier = normalizeIdentifier(identifier)
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.failures, identifier)
	delete(l.blockedTill, identifier)
}

package ids

import (
	"fmt"
	mathrand "math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(mathrand.New(mathrand.NewSource(time.Now().UnixNano())), 0)
)

// New returns a lexicographically sortable identifier suitable for storage keys.
func New() string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}

// LeadCode returns a human-readable lead code such as "LEAD-834791".
// Codes are display handles only; the ULID remains the record key.
func LeadCode() string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	n := entropyRand.Intn(900000) + 100000
	return fmt.Sprintf("LEAD-%06d", n)
}

var entropyRand = mathrand.New(mathrand.NewSource(time.Now().UnixNano() ^ 0x5bd1e995))

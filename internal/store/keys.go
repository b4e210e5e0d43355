package store

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// KeyGen produces ULID keys. Keys sort lexicographically in creation order,
// which matches how Firebase push keys behave.
type KeyGen struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
	now     func() time.Time
}

// NewKeyGen returns a key generator seeded from the current time.
func NewKeyGen() *KeyGen {
	return &KeyGen{
		entropy: ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0),
		now:     time.Now,
	}
}

// NewKey returns the next key.
func (g *KeyGen) NewKey() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(g.now()), g.entropy).String()
}

// maxKeyBytes is the Realtime Database limit on a single path segment.
const maxKeyBytes = 768

// ValidateKey reports whether id can address exactly one record. Keys become
// a single database path segment, so separators and the characters Firebase
// reserves are rejected.
func ValidateKey(id string) error {
	if id == "" {
		return fmt.Errorf("%w: empty key", ErrInvalidKey)
	}
	if len(id) > maxKeyBytes {
		return fmt.Errorf("%w: longer than %d bytes", ErrInvalidKey, maxKeyBytes)
	}
	if strings.ContainsAny(id, "/.#$[]") {
		return fmt.Errorf("%w: %q contains one of / . # $ [ ]", ErrInvalidKey, id)
	}
	for _, r := range id {
		if r < 0x20 || r == 0x7f {
			return fmt.Errorf("%w: %q contains a control character", ErrInvalidKey, id)
		}
	}
	return nil
}

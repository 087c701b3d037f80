package oauth

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"sync"
	"time"
)

// StateTTL bounds how long a login attempt may take.
const StateTTL = 10 * time.Minute

// GenerateState creates a random state parameter.
func GenerateState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generating state: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// StateStore remembers issued state values until they are consumed or
// expire. Each state can be consumed once.
type StateStore struct {
	ttl time.Duration
	now func() time.Time

	mu     sync.Mutex
	issued map[string]time.Time
}

// NewStateStore creates a StateStore with StateTTL expiry.
func NewStateStore() *StateStore {
	return &StateStore{ttl: StateTTL, now: time.Now, issued: make(map[string]time.Time)}
}

// Issue generates and records a new state.
func (s *StateStore) Issue() (string, error) {
	state, err := GenerateState()
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweep()
	s.issued[state] = s.now().Add(s.ttl)
	return state, nil
}

// Consume reports whether state was issued and has not expired, and
// forgets it either way.
func (s *StateStore) Consume(state string) bool {
	if state == "" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	exp, ok := s.issued[state]
	delete(s.issued, state)
	return ok && s.now().Before(exp)
}

func (s *StateStore) sweep() {
	now := s.now()
	for k, exp := range s.issued {
		if !now.Before(exp) {
			delete(s.issued, k)
		}
	}
}

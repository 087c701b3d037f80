package profile

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/kalambet/skillagent/internal/storage"
)

// ErrNoProfile is returned by Get before onboarding has stored a profile.
var ErrNoProfile = errors.New("profile not configured")

// Store defines the local store operations the Manager needs.
// Implemented by storage.Store.
type Store interface {
	GetItem(key string) (string, error)
	SetItem(key, value string) error
	RemoveItem(key string) error
}

// Clock abstracts time for testability.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Manager provides cached access to the stored profile and the completed
// step set. Both live under their own local store keys and are written
// independently of each other.
type Manager struct {
	store Store
	clock Clock
	ttl   time.Duration

	mu       sync.RWMutex
	cached   *UserProfile
	cachedAt time.Time

	// completedMu serialises read-modify-write of the completed set.
	completedMu sync.Mutex
}

// NewManager creates a Manager with a 60-second cache TTL.
func NewManager(store Store) *Manager {
	return NewManagerWithClock(store, realClock{}, 60*time.Second)
}

// NewManagerWithClock creates a Manager with a custom clock (for testing).
func NewManagerWithClock(store Store, clock Clock, ttl time.Duration) *Manager {
	return &Manager{
		store: store,
		clock: clock,
		ttl:   ttl,
	}
}

// Get returns the stored profile, or ErrNoProfile if none has been saved.
func (m *Manager) Get() (UserProfile, error) {
	m.mu.RLock()
	if m.cached != nil && m.clock.Now().Before(m.cachedAt.Add(m.ttl)) {
		p := copyProfile(m.cached)
		m.mu.RUnlock()
		return p, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cached != nil && m.clock.Now().Before(m.cachedAt.Add(m.ttl)) {
		return copyProfile(m.cached), nil
	}

	raw, err := m.store.GetItem(storage.KeyUserProfile)
	if errors.Is(err, storage.ErrNotFound) {
		return UserProfile{}, ErrNoProfile
	}
	if err != nil {
		return UserProfile{}, fmt.Errorf("loading profile: %w", err)
	}

	var p UserProfile
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return UserProfile{}, fmt.Errorf("decoding stored profile: %w", err)
	}
	p = p.Normalize()

	m.cached = &p
	m.cachedAt = m.clock.Now()
	return copyProfile(&p), nil
}

// Save replaces the stored profile wholesale.
func (m *Manager) Save(p UserProfile) error {
	p = p.Normalize()
	b, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encoding profile: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.store.SetItem(storage.KeyUserProfile, string(b)); err != nil {
		return fmt.Errorf("saving profile: %w", err)
	}
	m.cached = nil
	return nil
}

// CompletedSteps returns completed step titles in the order they were
// marked. A malformed stored value is logged and treated as empty.
func (m *Manager) CompletedSteps() ([]string, error) {
	raw, err := m.store.GetItem(storage.KeyCompletedSteps)
	if errors.Is(err, storage.ErrNotFound) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading completed steps: %w", err)
	}

	var steps []string
	if err := json.Unmarshal([]byte(raw), &steps); err != nil {
		slog.Warn("malformed completed steps, ignoring", "error", err)
		return []string{}, nil
	}
	if steps == nil {
		steps = []string{}
	}
	return steps, nil
}

// Reset forgets the profile and the completed set, which is what signing
// out does. Removing keys that were never set is not an error.
func (m *Manager) Reset() error {
	m.completedMu.Lock()
	defer m.completedMu.Unlock()
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, key := range []string{storage.KeyUserProfile, storage.KeyCompletedSteps} {
		if err := m.store.RemoveItem(key); err != nil {
			return fmt.Errorf("removing %s: %w", key, err)
		}
	}
	m.cached = nil
	return nil
}

// MarkCompleted adds a step title to the completed set. It reports false
// when the step was already complete. Single steps cannot be un-completed; Reset clears them all.
func (m *Manager) MarkCompleted(step string) (bool, error) {
	step = strings.TrimSpace(step)
	if step == "" {
		return false, errors.New("step title is required")
	}

	m.completedMu.Lock()
	defer m.completedMu.Unlock()

	steps, err := m.CompletedSteps()
	if err != nil {
		return false, err
	}
	for _, s := range steps {
		if s == step {
			return false, nil
		}
	}
	steps = append(steps, step)

	b, err := json.Marshal(steps)
	if err != nil {
		return false, fmt.Errorf("encoding completed steps: %w", err)
	}
	if err := m.store.SetItem(storage.KeyCompletedSteps, string(b)); err != nil {
		return false, fmt.Errorf("saving completed steps: %w", err)
	}
	return true, nil
}

// Progress is the rounded percentage of titles present in completed.
// Completed entries for steps no longer on the roadmap do not count.
func Progress(titles, completed []string) int {
	if len(titles) == 0 {
		return 0
	}
	done := make(map[string]bool, len(completed))
	for _, c := range completed {
		done[c] = true
	}
	n := 0
	for _, t := range titles {
		if done[t] {
			n++
		}
	}
	return int(math.Round(float64(n) / float64(len(titles)) * 100))
}

// Summary returns a compact one-paragraph description of the profile for
// prompts and tool output.
func Summary(p UserProfile) string {
	c := p.Context()
	var parts []string
	parts = append(parts, fmt.Sprintf("%s is a %s (%s) aiming to become a %s.", c.Name, c.CurrentRole, c.Experience, c.TargetRole))
	parts = append(parts, fmt.Sprintf("Track: %s.", c.Track))
	if len(p.Skills) > 0 {
		parts = append(parts, fmt.Sprintf("Skills: %s.", c.Skills))
	}
	if len(p.Interests) > 0 {
		parts = append(parts, fmt.Sprintf("Interests: %s.", c.Interests))
	}
	parts = append(parts, fmt.Sprintf("Goal: %s. Time: %s.", c.Goal, c.TimeCommitment))
	return strings.Join(parts, " ")
}

func copyProfile(p *UserProfile) UserProfile {
	if p == nil {
		return UserProfile{}
	}
	cp := *p
	cp.Skills = append([]string(nil), p.Skills...)
	cp.Interests = append([]string(nil), p.Interests...)
	if cp.Skills == nil {
		cp.Skills = []string{}
	}
	if cp.Interests == nil {
		cp.Interests = []string{}
	}
	return cp
}

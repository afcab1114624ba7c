package registry

import (
	"sort"
	"sync"
	"time"

	"github.com/treasurehunter/watcher/internal/domain"
)

// entry records when an identity was first alerted
type entry struct {
	FirstSeen time.Time
}

// MemoryRegistry is a thread-safe, grow-only set of alerted match identities.
// It lives for the life of the process and is never persisted.
type MemoryRegistry struct {
	data  map[domain.MatchIdentity]entry
	mutex sync.Mutex
	now   func() time.Time
}

// NewMemoryRegistry creates an empty registry
func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{
		data: make(map[domain.MatchIdentity]entry),
		now:  time.Now,
	}
}

// ShouldAlert returns true the first time identity is presented and false afterwards.
// The lookup and the insert happen under one lock, so two concurrent discoveries of the
// same identity never both get true.
func (r *MemoryRegistry) ShouldAlert(identity domain.MatchIdentity) bool {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.data[identity]; exists {
		return false
	}

	r.data[identity] = entry{FirstSeen: r.now()}
	return true
}

// Size returns the number of alerted identities (for monitoring)
func (r *MemoryRegistry) Size() int {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return len(r.data)
}

// Snapshot returns the alerted identities ordered by first sighting
func (r *MemoryRegistry) Snapshot() []domain.SeenMatch {
	r.mutex.Lock()
	matches := make([]domain.SeenMatch, 0, len(r.data))
	for id, e := range r.data {
		matches = append(matches, domain.SeenMatch{MatchIdentity: id, FirstSeen: e.FirstSeen})
	}
	r.mutex.Unlock()

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].FirstSeen.Equal(matches[j].FirstSeen) {
			return matches[i].String() < matches[j].String()
		}
		return matches[i].FirstSeen.Before(matches[j].FirstSeen)
	})
	return matches
}

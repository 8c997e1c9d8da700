package dedupe

import (
	"sync"
	"time"
)

// Store remembers recently handled message IDs so redelivered webhooks are
// acknowledged without being processed twice.
type Store struct {
	seen   map[string]time.Time
	mutex  sync.Mutex
	maxAge time.Duration
}

// NewStore creates a new store that forgets IDs older than maxAge.
func NewStore(maxAge time.Duration) *Store {
	store := &Store{
		seen:   make(map[string]time.Time),
		maxAge: maxAge,
	}

	// Start cleanup routine
	go store.cleanupRoutine()

	return store
}

// Seen reports whether id was already recorded within maxAge, recording it
// if it was not.
func (s *Store) Seen(id string) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if at, ok := s.seen[id]; ok && time.Since(at) <= s.maxAge {
		return true
	}

	s.seen[id] = time.Now()
	return false
}

// cleanupRoutine periodically removes expired IDs
func (s *Store) cleanupRoutine() {
	ticker := time.NewTicker(15 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		s.cleanup()
	}
}

// cleanup removes IDs older than maxAge
func (s *Store) cleanup() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for id, at := range s.seen {
		if time.Since(at) > s.maxAge {
			delete(s.seen, id)
		}
	}
}

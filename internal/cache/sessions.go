package cache

import (
	"time"

	"github.com/google/uuid"

	"fintrack/internal/workset"
)

// Sessions maps browser session IDs to their working sets. A session that
// has been idle for longer than the TTL, or that is pushed out by newer
// sessions, starts over with an empty set.
type Sessions struct {
	sets   *LRUCache[*workset.Set]
	newSet func() *workset.Set
}

// NewSessions creates a session store holding at most maxSessions working
// sets. newSet builds the empty set of a new session.
func NewSessions(maxSessions int, ttl time.Duration, newSet func() *workset.Set) *Sessions {
	return &Sessions{
		sets:   NewLRUCache[*workset.Set](maxSessions, ttl),
		newSet: newSet,
	}
}

// Get returns the working set of id. When id is empty, unknown or expired a
// fresh session is created and its new ID is returned with created set.
func (s *Sessions) Get(id string) (set *workset.Set, sessionID string, created bool) {
	if id != "" {
		if set, ok := s.sets.Get(id); ok {
			return set, id, false
		}
	}
	sessionID = uuid.NewString()
	set = s.newSet()
	s.sets.Set(sessionID, set)
	return set, sessionID, true
}

// Lookup returns the working set of an existing session.
func (s *Sessions) Lookup(id string) (*workset.Set, bool) {
	if id == "" {
		return nil, false
	}
	return s.sets.Get(id)
}

// End drops a session.
func (s *Sessions) End(id string) { s.sets.Delete(id) }

// Len returns the number of live sessions.
func (s *Sessions) Len() int { return s.sets.Size() }

// CleanExpired lets a Manager expire idle sessions.
func (s *Sessions) CleanExpired() int { return s.sets.CleanExpired() }

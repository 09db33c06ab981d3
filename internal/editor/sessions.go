package editor

import (
	"sync"

	"courseeditor/internal/qerrors"
)

// Sessions holds the open draft of every editor session. A session has at most one draft; opening
// another replaces it.
type Sessions struct {
	lock   sync.Mutex
	drafts map[string]*Draft
}

func NewSessions() *Sessions {
	return &Sessions{drafts: make(map[string]*Draft)}
}

// Open installs d as the session's draft.
func (s *Sessions) Open(sessionID string, d *Draft) {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.drafts[sessionID] = d
}

// OpenIfAbsent installs d unless the session already has a draft, and reports whether it did.
func (s *Sessions) OpenIfAbsent(sessionID string, d *Draft) bool {
	s.lock.Lock()
	defer s.lock.Unlock()

	if _, ok := s.drafts[sessionID]; ok {
		return false
	}
	s.drafts[sessionID] = d
	return true
}

// Update runs fn on the session's draft for courseID while holding the lock.
func (s *Sessions) Update(sessionID, courseID string, fn func(d *Draft) error) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	d, err := s.lookup(sessionID, courseID)
	if err != nil {
		return err
	}
	return fn(d)
}

// Close removes the session's draft for courseID and returns it.
func (s *Sessions) Close(sessionID, courseID string) (*Draft, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	d, err := s.lookup(sessionID, courseID)
	if err != nil {
		return nil, err
	}
	delete(s.drafts, sessionID)
	return d, nil
}

// Len reports the number of open drafts.
func (s *Sessions) Len() int {
	s.lock.Lock()
	defer s.lock.Unlock()

	return len(s.drafts)
}

func (s *Sessions) lookup(sessionID, courseID string) (*Draft, error) {
	d, ok := s.drafts[sessionID]
	if !ok {
		return nil, qerrors.NoSelectionError
	}
	if d.CourseID() != courseID {
		return nil, qerrors.SelectionMismatchError
	}
	return d, nil
}

package conversation

import (
	"sync"
	"time"

	"github.com/bowerhall/relay/internal/llm"
)

const defaultMaxPairs = 20

// Store keeps a bounded in-memory conversation history per session.
// Histories live only for the process lifetime; turns are appended and
// trimmed, never edited in place.
type Store struct {
	mu       sync.Mutex
	maxPairs int
	sessions map[string]*session
}

type session struct {
	messages []llm.Message
	lastSeen time.Time
}

func NewStore(maxPairs int) *Store {
	if maxPairs <= 0 {
		maxPairs = defaultMaxPairs
	}

	return &Store{
		maxPairs: maxPairs,
		sessions: make(map[string]*session),
	}
}

func (s *Store) Append(sessionID string, msg llm.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		sess = &session{}
		s.sessions[sessionID] = sess
	}

	sess.messages = append(sess.messages, msg)
	sess.lastSeen = time.Now()
}

// Trim drops entries from the front, two at a time, until the history fits
// 2*maxPairs. Removing in twos keeps question/answer pairs together instead
// of orphaning half of one.
func (s *Store) Trim(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return
	}

	limit := 2 * s.maxPairs
	for len(sess.messages) > limit {
		sess.messages = sess.messages[2:]
	}
}

// Snapshot returns a copy of the session history for one dispatch.
func (s *Store) Snapshot(sessionID string) []llm.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil
	}

	history := make([]llm.Message, len(sess.messages))
	copy(history, sess.messages)
	return history
}

// RemoveLast rolls back the most recent turn. Used when a provider call
// fails after the user turn was already appended.
func (s *Store) RemoveLast(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok || len(sess.messages) == 0 {
		return
	}

	sess.messages = sess.messages[:len(sess.messages)-1]
}

func (s *Store) Clear(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, sessionID)
}

func (s *Store) Len(sessionID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return 0
	}

	return len(sess.messages)
}

// ClearIdle drops sessions with no activity for maxAge and reports how
// many were removed.
func (s *Store) ClearIdle(maxAge time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	removed := 0

	for id, sess := range s.sessions {
		if sess.lastSeen.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}

	return removed
}

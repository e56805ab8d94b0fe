// Package session holds analysis results in memory, one session per
// uploaded statement. Sessions are deliberately ephemeral: durable
// persistence and multi-user concerns are out of scope for this service.
package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/finsight-labs/statement-insights/internal/statement"
	"github.com/google/uuid"
)

// Session is one uploaded statement and its analysis result.
type Session struct {
	ID         string            `json:"session_id"`
	Filename   string            `json:"filename"`
	UploadedAt time.Time         `json:"uploaded_at"`
	Result     *statement.Result `json:"result"`
}

// Store is an in-memory session store, safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{
		sessions: make(map[string]*Session),
	}
}

// Create allocates a new empty session and returns its ID. The result is
// attached later by SaveResult once processing finishes, so async uploads
// can hand the session ID back before the pipeline runs.
func (s *Store) Create(filename string) *Session {
	sess := &Session{
		ID:         uuid.New().String(),
		Filename:   filename,
		UploadedAt: time.Now(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = sess

	return s.copySession(sess)
}

// SaveResult attaches an analysis result to an existing session.
func (s *Store) SaveResult(sessionID string, result *statement.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, exists := s.sessions[sessionID]
	if !exists {
		return fmt.Errorf("session not found: %s", sessionID)
	}
	sess.Result = result
	return nil
}

// Get retrieves a session by ID.
func (s *Store) Get(sessionID string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, exists := s.sessions[sessionID]
	if !exists {
		return nil, fmt.Errorf("session not found: %s", sessionID)
	}
	return s.copySession(sess), nil
}

// SetCategory overrides the category of one transaction in a session and
// re-aggregates the summary, returning the updated session. The stored
// transaction slice is replaced, not mutated, so previously returned
// sessions remain consistent snapshots.
func (s *Store) SetCategory(sessionID string, index int, category statement.Category) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, exists := s.sessions[sessionID]
	if !exists {
		return nil, fmt.Errorf("session not found: %s", sessionID)
	}
	if sess.Result == nil {
		return nil, fmt.Errorf("session %s has no result yet", sessionID)
	}

	updated, err := statement.SetCategory(sess.Result.Transactions, index, category)
	if err != nil {
		return nil, err
	}

	newResult := *sess.Result
	newResult.Transactions = updated
	newResult.Summary = statement.Aggregate(updated)
	sess.Result = &newResult

	return s.copySession(sess), nil
}

// Delete removes a session. Deleting an unknown session is not an error;
// clearing is idempotent.
func (s *Store) Delete(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}

// copySession returns a shallow copy. The Result pointer is shared but
// treated as immutable: SetCategory swaps in a fresh Result rather than
// mutating the old one.
func (s *Store) copySession(sess *Session) *Session {
	sessCopy := *sess
	return &sessCopy
}

package wizard

import (
	"sync"
	"time"
)

// Session is one browser's wizard for one company. Handlers lock it for the
// whole request so its events are processed one at a time.
type Session struct {
	mu sync.Mutex

	ID        string
	CompanyID string
	Wizard    *Wizard
	Banner    *Banner
	Sortables *Registry
	Notice    string
	lastUsed  time.Time
}

// Lock acquires the session.
func (s *Session) Lock() { s.mu.Lock() }

// Unlock releases the session.
func (s *Session) Unlock() { s.mu.Unlock() }

// TakeNotice returns and clears the one-shot notice.
func (s *Session) TakeNotice() string {
	n := s.Notice
	s.Notice = ""
	return n
}

// SessionStore keeps wizards in memory, keyed by browser session and company.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
	toast    bool
	ttl      time.Duration
	now      func() time.Time
}

// NewSessionStore creates a store. With toast false, deletions rely on the
// browser's confirm() dialog having been accepted before the request.
func NewSessionStore(toast bool, ttl time.Duration) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*Session),
		toast:    toast,
		ttl:      ttl,
		now:      time.Now,
	}
}

// UsesToast reports whether deletions are confirmed with a toast.
func (s *SessionStore) UsesToast() bool { return s.toast }

// Get returns the session for (sessionID, companyID), creating a fresh wizard
// with the static first block when none exists. Expired sessions are dropped.
func (s *SessionStore) Get(sessionID, companyID string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.evictLocked(now)

	key := sessionID + "/" + companyID
	if sess, ok := s.sessions[key]; ok {
		sess.lastUsed = now
		return sess
	}
	sess := s.newSession(sessionID, companyID)
	sess.lastUsed = now
	s.sessions[key] = sess
	return sess
}

// Reset replaces the session's wizard with a fresh one.
func (s *SessionStore) Reset(sess *Session) {
	fresh := s.newSession(sess.ID, sess.CompanyID)
	sess.Wizard = fresh.Wizard
	sess.Banner = fresh.Banner
	sess.Sortables = fresh.Sortables
}

// Len returns the number of live sessions.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *SessionStore) newSession(sessionID, companyID string) *Session {
	banner := &Banner{}
	registry := NewRegistry()

	var toast Toast
	var prompt Prompter
	if s.toast {
		toast = banner
	} else {
		prompt = PrompterFunc(func(string) bool { return true })
	}

	return &Session{
		ID:        sessionID,
		CompanyID: companyID,
		Wizard: New(
			WithStaticMeasure(),
			WithSorter(registry),
			WithConfirmation(toast, prompt),
		),
		Banner:    banner,
		Sortables: registry,
	}
}

func (s *SessionStore) evictLocked(now time.Time) {
	if s.ttl <= 0 {
		return
	}
	for key, sess := range s.sessions {
		if now.Sub(sess.lastUsed) > s.ttl {
			delete(s.sessions, key)
		}
	}
}

package storage

import (
	"sync"

	"text2png/internal/config"
)

// Mode is what the bot expects next from a chat.
type Mode int

const (
	ModeNone Mode = iota
	ModeAwaitFont
	ModeAwaitPreset
)

// Session is the per-chat state: the options every render in the chat
// starts from and whether a render is in flight.
type Session struct {
	Mode       Mode
	Options    config.Options
	Processing bool
}

// SessionStore keeps chat sessions in memory.
type SessionStore struct {
	sessions map[int64]*Session
	defaults config.Options
	mu       sync.RWMutex
}

// NewSessionStore returns a store whose new sessions start from defaults.
func NewSessionStore(defaults config.Options) *SessionStore {
	return &SessionStore{
		sessions: make(map[int64]*Session),
		defaults: defaults,
	}
}

func (s *SessionStore) session(chatID int64) *Session {
	sess, ok := s.sessions[chatID]
	if !ok {
		sess = &Session{Options: s.defaults}
		s.sessions[chatID] = sess
	}
	return sess
}

func (s *SessionStore) SetMode(chatID int64, mode Mode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session(chatID).Mode = mode
}

func (s *SessionStore) GetMode(chatID int64) Mode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if sess, ok := s.sessions[chatID]; ok {
		return sess.Mode
	}
	return ModeNone
}

// Options returns a copy of the chat's current options.
func (s *SessionStore) Options(chatID int64) config.Options {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if sess, ok := s.sessions[chatID]; ok {
		return sess.Options
	}
	return s.defaults
}

// Update applies fn to the chat's options under the store lock.
func (s *SessionStore) Update(chatID int64, fn func(*config.Options)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.session(chatID).Options)
}

// Reset drops the chat's options back to the defaults.
func (s *SessionStore) Reset(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.session(chatID)
	sess.Options = s.defaults
	sess.Mode = ModeNone
}

// TryStart marks a render in flight and reports false if one already is.
func (s *SessionStore) TryStart(chatID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.session(chatID)
	if sess.Processing {
		return false
	}
	sess.Processing = true
	return true
}

func (s *SessionStore) IsProcessing(chatID int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if sess, ok := s.sessions[chatID]; ok {
		return sess.Processing
	}
	return false
}

func (s *SessionStore) Finish(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[chatID]; ok {
		sess.Processing = false
	}
}

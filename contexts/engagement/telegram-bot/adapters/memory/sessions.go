package memory

import (
	"context"
	"sync"

	"hanafiyah/contexts/engagement/telegram-bot/domain/entities"
)

// SessionStore keeps conversation state per Telegram user in process memory.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[int64]entities.Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[int64]entities.Session)}
}

func (s *SessionStore) Load(_ context.Context, telegramUserID int64) (entities.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions[telegramUserID], nil
}

func (s *SessionStore) Save(_ context.Context, telegramUserID int64, session entities.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if session == (entities.Session{}) {
		delete(s.sessions, telegramUserID)
		return nil
	}
	s.sessions[telegramUserID] = session
	return nil
}

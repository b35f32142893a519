package memory

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"hanafiyah/contexts/identity-access/account-service/application"
	"hanafiyah/contexts/identity-access/account-service/domain/entities"
	domainerrors "hanafiyah/contexts/identity-access/account-service/domain/errors"
)

// Store is an in-memory adapter implementing account ports for local runtime
// and tests.
type Store struct {
	mu       sync.RWMutex
	users    map[int64]entities.User
	revoked  map[string]time.Time
	nextID   int64
	sequence uint64
	logger   *slog.Logger
}

func NewStore(seed []entities.User, logger *slog.Logger) *Store {
	store := &Store{
		users:   make(map[int64]entities.User, len(seed)),
		revoked: make(map[string]time.Time),
		logger:  application.ResolveLogger(logger),
	}
	for _, user := range seed {
		if user.ID == 0 {
			store.nextID++
			user.ID = store.nextID
		}
		if user.ID > store.nextID {
			store.nextID = user.ID
		}
		store.users[user.ID] = user
	}
	return store
}

func (s *Store) CreateUser(_ context.Context, user entities.User) (entities.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if strings.EqualFold(existing.Username, user.Username) {
			return entities.User{}, domainerrors.ErrUsernameTaken
		}
	}
	s.nextID++
	user.ID = s.nextID
	s.users[user.ID] = user
	return user, nil
}

func (s *Store) GetUser(_ context.Context, userID int64) (entities.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[userID]
	if !ok {
		return entities.User{}, domainerrors.ErrUserNotFound
	}
	return user, nil
}

func (s *Store) GetUserByUsername(_ context.Context, username string) (entities.User, error) {
	return s.find(func(user entities.User) bool { return user.Username == username })
}

func (s *Store) UpdateUser(_ context.Context, user entities.User) (entities.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.ID]; !ok {
		return entities.User{}, domainerrors.ErrUserNotFound
	}
	s.users[user.ID] = user
	return user, nil
}

func (s *Store) FindByTelegram(_ context.Context, handle string) (entities.User, error) {
	return s.find(func(user entities.User) bool {
		return user.Profile.Telegram != "" && strings.EqualFold(user.Profile.Telegram, handle)
	})
}

func (s *Store) FindByTelegramID(_ context.Context, telegramID int64) (entities.User, error) {
	return s.find(func(user entities.User) bool {
		return user.Profile.TelegramID != nil && *user.Profile.TelegramID == telegramID
	})
}

func (s *Store) ListActiveUsers(_ context.Context) ([]entities.User, error) {
	return s.filter(func(user entities.User) bool { return user.IsActive }), nil
}

func (s *Store) ListStaff(_ context.Context) ([]entities.User, error) {
	return s.filter(func(user entities.User) bool { return user.IsActive && user.IsStaff }), nil
}

func (s *Store) Revoke(_ context.Context, tokenID string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked[tokenID] = expiresAt.UTC()
	return nil
}

func (s *Store) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.revoked[tokenID]
	return ok, nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	value := atomic.AddUint64(&s.sequence, 1)
	return fmt.Sprintf("tok-%d", value), nil
}

func (s *Store) find(match func(entities.User) bool) (entities.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, id := range s.sortedIDs() {
		if user := s.users[id]; match(user) {
			return user, nil
		}
	}
	return entities.User{}, domainerrors.ErrUserNotFound
}

func (s *Store) filter(match func(entities.User) bool) []entities.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.User, 0)
	for _, id := range s.sortedIDs() {
		if user := s.users[id]; match(user) {
			items = append(items, user)
		}
	}
	return items
}

func (s *Store) sortedIDs() []int64 {
	ids := make([]int64, 0, len(s.users))
	for id := range s.users {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

package memory

import (
	"context"
	"sync"

	"github.com/bornholm/taskboard/internal/core/model"
	"github.com/bornholm/taskboard/internal/core/port"
	"github.com/pkg/errors"
)

type UserStore struct {
	mutex  sync.RWMutex
	users  map[model.UserID]model.User
	tokens map[string]model.AuthToken
}

func NewUserStore() *UserStore {
	return &UserStore{
		users:  map[model.UserID]model.User{},
		tokens: map[string]model.AuthToken{},
	}
}

// GetUserByID implements port.UserStore.
func (s *UserStore) GetUserByID(ctx context.Context, userID model.UserID) (model.User, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	user, exists := s.users[userID]
	if !exists {
		return model.User{}, errors.WithStack(port.ErrNotFound)
	}

	return user, nil
}

// GetUsersByIDs implements port.UserStore.
func (s *UserStore) GetUsersByIDs(ctx context.Context, userIDs []model.UserID) (map[model.UserID]model.User, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	users := make(map[model.UserID]model.User, len(userIDs))
	for _, id := range userIDs {
		if user, exists := s.users[id]; exists {
			users[id] = user
		}
	}

	return users, nil
}

// FindUserByEmail implements port.UserStore.
func (s *UserStore) FindUserByEmail(ctx context.Context, email string) (model.User, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	for _, user := range s.users {
		if user.Email == email {
			return user, nil
		}
	}

	return model.User{}, errors.WithStack(port.ErrNotFound)
}

// SaveUser implements port.UserStore.
func (s *UserStore) SaveUser(ctx context.Context, user model.User) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.users[user.ID] = user

	return nil
}

// FindUserByToken implements port.UserStore.
func (s *UserStore) FindUserByToken(ctx context.Context, token string) (model.User, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	authToken, exists := s.tokens[token]
	if !exists {
		return model.User{}, errors.WithStack(port.ErrNotFound)
	}

	user, exists := s.users[authToken.OwnerID]
	if !exists {
		return model.User{}, errors.WithStack(port.ErrNotFound)
	}

	return user, nil
}

// CreateAuthToken implements port.UserStore.
func (s *UserStore) CreateAuthToken(ctx context.Context, token model.AuthToken) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.tokens[token.Value] = token

	return nil
}

var _ port.UserStore = &UserStore{}

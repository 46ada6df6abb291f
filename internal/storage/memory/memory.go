// Package memory keeps users and refresh tokens in process memory.
// Data does not survive a restart; use it for local runs and tests.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"auth-service/internal/domain/models"
	"auth-service/internal/storage"
)

type Storage struct {
	mu      sync.RWMutex
	users   map[string]models.User
	byEmail map[string]string
	tokens  map[string]models.RefreshToken
}

func New() *Storage {
	return &Storage{
		users:   make(map[string]models.User),
		byEmail: make(map[string]string),
		tokens:  make(map[string]models.RefreshToken),
	}
}

func (s *Storage) Close() error {
	return nil
}

func (s *Storage) SaveUser(
	_ context.Context,
	username string,
	email string,
	passHash []byte,
	role models.Role,
) (models.User, error) {
	const op = "storage.memory.SaveUser"

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byEmail[email]; ok {
		return models.User{}, fmt.Errorf("%s: %w", op, storage.ErrUserExists)
	}

	user := models.User{
		ID:        uuid.NewString(),
		Username:  username,
		Email:     email,
		PassHash:  append([]byte(nil), passHash...),
		Role:      role,
		CreatedAt: time.Now().UTC(),
	}
	s.users[user.ID] = user
	s.byEmail[email] = user.ID

	return user, nil
}

func (s *Storage) User(_ context.Context, email string) (models.User, error) {
	const op = "storage.memory.User"

	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[email]
	if !ok {
		return models.User{}, fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
	}

	return s.users[id], nil
}

func (s *Storage) UserByID(_ context.Context, userID string) (models.User, error) {
	const op = "storage.memory.UserByID"

	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[userID]
	if !ok {
		return models.User{}, fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
	}

	return user, nil
}

func (s *Storage) UsersByIDs(_ context.Context, userIDs []string) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]models.User, 0, len(userIDs))
	seen := make(map[string]struct{}, len(userIDs))
	for _, id := range userIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		if user, ok := s.users[id]; ok {
			users = append(users, user)
		}
	}

	return users, nil
}

// SetRole changes the stored role of a user. Role management has no public
// surface; this exists for seeding and tests.
func (s *Storage) SetRole(_ context.Context, userID string, role models.Role) error {
	const op = "storage.memory.SetRole"

	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok {
		return fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
	}
	user.Role = role
	s.users[userID] = user

	return nil
}

// DeleteUser removes a user record. Nothing in the service deletes users;
// it exists so tests can model an account removed by another system.
func (s *Storage) DeleteUser(_ context.Context, userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if user, ok := s.users[userID]; ok {
		delete(s.byEmail, user.Email)
		delete(s.users, userID)
	}
}

func (s *Storage) SaveRefreshToken(_ context.Context, token models.RefreshToken) error {
	const op = "storage.memory.SaveRefreshToken"

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tokens[token.Token]; ok {
		return fmt.Errorf("%s: duplicate token", op)
	}
	s.tokens[token.Token] = token

	return nil
}

func (s *Storage) RefreshToken(_ context.Context, token string) (models.RefreshToken, error) {
	const op = "storage.memory.RefreshToken"

	s.mu.RLock()
	defer s.mu.RUnlock()

	rt, ok := s.tokens[token]
	if !ok {
		return models.RefreshToken{}, fmt.Errorf("%s: %w", op, storage.ErrRefreshTokenNotFound)
	}

	return rt, nil
}

func (s *Storage) DeleteRefreshToken(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.tokens, token)

	return nil
}

func (s *Storage) ExpireRefreshToken(_ context.Context, token string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rt, ok := s.tokens[token]; ok && rt.ExpiresAt.After(at) {
		rt.ExpiresAt = at
		s.tokens[token] = rt
	}

	return nil
}

func (s *Storage) DeleteExpiredRefreshTokens(_ context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for key, rt := range s.tokens {
		if rt.Expired(now) {
			delete(s.tokens, key)
			n++
		}
	}

	return n, nil
}

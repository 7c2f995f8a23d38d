// Package memory provides a map-backed UserStore with the same
// uniqueness and sparse-update semantics as the MongoDB store. It backs
// the test suites and local development without a running database.
package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"identity-service/internal/domain"
	"identity-service/internal/repository"
)

type UserStore struct {
	mu    sync.RWMutex
	users map[primitive.ObjectID]domain.User
}

func NewUserStore() *UserStore {
	return &UserStore{users: make(map[primitive.ObjectID]domain.User)}
}

func (s *UserStore) FindByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrNotFound
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[oid]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &user, nil
}

func (s *UserStore) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	email = normalizeEmail(email)

	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, user := range s.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *UserStore) FindByPhone(ctx context.Context, phone string) (*domain.User, error) {
	phone = strings.TrimSpace(phone)

	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, user := range s.users {
		if user.Phone == phone {
			u := user
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *UserStore) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	user.FullName = strings.TrimSpace(user.FullName)
	user.Email = normalizeEmail(user.Email)
	user.Phone = strings.TrimSpace(user.Phone)
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Email == user.Email {
			return nil, repository.ErrDuplicateEmail
		}
		if existing.Phone == user.Phone {
			return nil, repository.ErrDuplicatePhone
		}
	}

	s.users[user.ID] = *user
	return user, nil
}

func (s *UserStore) UpdateFields(ctx context.Context, id string, update domain.UserUpdate) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[oid]
	if !ok {
		return nil, repository.ErrNotFound
	}

	if update.Email != nil {
		email := normalizeEmail(*update.Email)
		for otherID, other := range s.users {
			if otherID != oid && other.Email == email {
				return nil, repository.ErrDuplicateEmail
			}
		}
		user.Email = email
	}
	if update.Phone != nil {
		phone := strings.TrimSpace(*update.Phone)
		for otherID, other := range s.users {
			if otherID != oid && other.Phone == phone {
				return nil, repository.ErrDuplicatePhone
			}
		}
		user.Phone = phone
	}
	if update.FullName != nil {
		user.FullName = strings.TrimSpace(*update.FullName)
	}
	if update.Password != nil {
		user.Password = *update.Password
	}
	if update.ConfirmPassword != nil {
		user.ConfirmPassword = *update.ConfirmPassword
	}
	user.UpdatedAt = time.Now().UTC()

	s.users[oid] = user
	return &user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

package store

import (
	"context"
	"slices"
	"strings"

	pkgerrors "github.com/sorvetesinacio/storefront/pkg/errors"
	"github.com/sorvetesinacio/storefront/pkg/kv"
	"github.com/sorvetesinacio/storefront/pkg/models"
)

// ListUsers returns a copy of the user collection.
func (s *Store) ListUsers() []models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.users)
}

// FindUserByID returns the matching user or a NOT_FOUND error. Absence is an
// expected outcome, not a fault.
func (s *Store) FindUserByID(id string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.users {
		if user.ID == id {
			return user, nil
		}
	}
	return models.User{}, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
}

// FindUserByEmail returns the user registered under email (case-insensitive)
// or a NOT_FOUND error.
func (s *Store) FindUserByEmail(email string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.users {
		if strings.EqualFold(user.Email, email) {
			return user, nil
		}
	}
	return models.User{}, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
}

// SaveUser replaces the record matching the id in place, or appends a new
// record with a fresh id and creation timestamp, then persists the full
// collection.
func (s *Store) SaveUser(ctx context.Context, user models.User) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	previous := s.users
	if idx := indexByID(s.users, user.ID, func(u models.User) string { return u.ID }); idx >= 0 {
		s.users = slices.Clone(s.users)
		s.users[idx] = user
	} else {
		if user.ID == "" {
			user.ID = s.NewID()
		}
		if user.CreatedAt.IsZero() {
			user.CreatedAt = s.now()
		}
		s.users = append(slices.Clone(s.users), user)
	}

	if err := persistSlice(ctx, s, kv.KeyUsers, s.users); err != nil {
		s.users = previous
		return models.User{}, err
	}
	return user, nil
}

// DeleteUser removes the user and persists the result. Unknown ids are a
// no-op.
func (s *Store) DeleteUser(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := indexByID(s.users, id, func(u models.User) string { return u.ID })
	if idx < 0 {
		return nil
	}
	previous := s.users
	s.users = slices.Delete(slices.Clone(s.users), idx, idx+1)

	if err := persistSlice(ctx, s, kv.KeyUsers, s.users); err != nil {
		s.users = previous
		return err
	}
	return nil
}

func indexByID[T any](items []T, id string, key func(T) string) int {
	if id == "" {
		return -1
	}
	for i, item := range items {
		if key(item) == id {
			return i
		}
	}
	return -1
}

package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sorvetesinacio/storefront/pkg/kv"
	"github.com/sorvetesinacio/storefront/pkg/models"
)

// Session returns the logged-in user, or nil when nobody is logged in.
func (s *Store) Session() *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return nil
	}
	copied := *s.session
	return &copied
}

// SetSession persists user as the current actor. The session survives
// process restarts through the backend.
func (s *Store) SetSession(ctx context.Context, user models.User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}
	if err := s.kv.Set(ctx, kv.KeySession, string(raw)); err != nil {
		return fmt.Errorf("persisting session: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = &user
	return nil
}

// ClearSession logs the current actor out and removes the persisted trace.
func (s *Store) ClearSession(ctx context.Context) error {
	if err := s.kv.Delete(ctx, kv.KeySession); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = nil
	return nil
}

func (s *Store) loadSession(ctx context.Context) *models.User {
	raw, found, err := s.kv.Get(ctx, kv.KeySession)
	if err != nil {
		s.logg.Error(s.logg.WithCollection(ctx, kv.KeySession), "failed to read session", err)
		return nil
	}
	if !found {
		return nil
	}

	var user models.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		s.logg.Warn(ctx, "corrupt session, clearing")
		_ = s.kv.Delete(ctx, kv.KeySession)
		return nil
	}
	return &user
}

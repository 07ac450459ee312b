package store

import (
	"context"
	"slices"

	pkgerrors "github.com/sorvetesinacio/storefront/pkg/errors"
	"github.com/sorvetesinacio/storefront/pkg/kv"
	"github.com/sorvetesinacio/storefront/pkg/models"
)

// ListMessages returns a copy of the message collection.
func (s *Store) ListMessages() []models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.messages)
}

// FindMessageByID returns the matching message or a NOT_FOUND error.
func (s *Store) FindMessageByID(id string) (models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, message := range s.messages {
		if message.ID == id {
			return message, nil
		}
	}
	return models.Message{}, pkgerrors.New(pkgerrors.CodeNotFound, "message not found")
}

// SaveMessage replaces the record matching the id in place, or appends a new
// record with a fresh id and sent timestamp, then persists the full
// collection.
func (s *Store) SaveMessage(ctx context.Context, message models.Message) (models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	previous := s.messages
	if idx := indexByID(s.messages, message.ID, func(m models.Message) string { return m.ID }); idx >= 0 {
		s.messages = slices.Clone(s.messages)
		s.messages[idx] = message
	} else {
		if message.ID == "" {
			message.ID = s.NewID()
		}
		if message.SentAt.IsZero() {
			message.SentAt = s.now()
		}
		s.messages = append(slices.Clone(s.messages), message)
	}

	if err := persistSlice(ctx, s, kv.KeyMessages, s.messages); err != nil {
		s.messages = previous
		return models.Message{}, err
	}
	return message, nil
}

// DeleteMessage removes the message and persists the result. Unknown ids are
// a no-op.
func (s *Store) DeleteMessage(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := indexByID(s.messages, id, func(m models.Message) string { return m.ID })
	if idx < 0 {
		return nil
	}
	previous := s.messages
	s.messages = slices.Delete(slices.Clone(s.messages), idx, idx+1)

	if err := persistSlice(ctx, s, kv.KeyMessages, s.messages); err != nil {
		s.messages = previous
		return err
	}
	return nil
}

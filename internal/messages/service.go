package messages

import (
	"context"

	"github.com/sorvetesinacio/storefront/internal/store"
	pkgerrors "github.com/sorvetesinacio/storefront/pkg/errors"
	"github.com/sorvetesinacio/storefront/pkg/logger"
	"github.com/sorvetesinacio/storefront/pkg/models"
	"github.com/sorvetesinacio/storefront/pkg/validators"
)

// ServiceParams groups dependencies for the messages service.
type ServiceParams struct {
	Store  *store.Store
	Logger *logger.Logger
}

// Service handles contact-form messages: visitors send them, the back office
// reads and manages them.
type Service interface {
	Send(ctx context.Context, input SendInput) (models.Message, error)
	List() []models.Message
	Unread() []models.Message
	UnreadCount() int
	MarkRead(ctx context.Context, id string) (models.Message, error)
	Delete(ctx context.Context, id string) error
}

// SendInput carries a visitor's contact-form submission.
type SendInput struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
	Body  string `json:"body" validate:"required"`
}

type service struct {
	store *store.Store
	logg  *logger.Logger
}

// NewService builds a messages service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store is required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.New(logger.Options{ServiceName: "messages"})
	}
	return &service{store: params.Store, logg: logg}, nil
}

// Send validates and stores a message. New messages start unread; the store
// stamps the send time.
func (s *service) Send(ctx context.Context, input SendInput) (models.Message, error) {
	if err := validators.Struct(input); err != nil {
		return models.Message{}, err
	}
	saved, err := s.store.SaveMessage(ctx, models.Message{
		Name:  input.Name,
		Email: input.Email,
		Body:  input.Body,
	})
	if err != nil {
		return models.Message{}, err
	}
	s.logg.Info(s.logg.WithField(ctx, "message_id", saved.ID), "contact message received")
	return saved, nil
}

func (s *service) List() []models.Message {
	return s.store.ListMessages()
}

// Unread returns the messages not yet marked read.
func (s *service) Unread() []models.Message {
	var out []models.Message
	for _, msg := range s.store.ListMessages() {
		if !msg.Read {
			out = append(out, msg)
		}
	}
	return out
}

// UnreadCount backs the inbox badge.
func (s *service) UnreadCount() int {
	return len(s.Unread())
}

// MarkRead flags a message as read. Marking an already-read message again is
// harmless.
func (s *service) MarkRead(ctx context.Context, id string) (models.Message, error) {
	msg, err := s.store.FindMessageByID(id)
	if err != nil {
		return models.Message{}, err
	}
	if msg.Read {
		return msg, nil
	}
	msg.Read = true
	return s.store.SaveMessage(ctx, msg)
}

// Delete removes a message. Unknown ids are a no-op.
func (s *service) Delete(ctx context.Context, id string) error {
	return s.store.DeleteMessage(ctx, id)
}

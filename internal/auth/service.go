package auth

import (
	"context"
	"strings"

	"github.com/sorvetesinacio/storefront/internal/store"
	"github.com/sorvetesinacio/storefront/pkg/enums"
	pkgerrors "github.com/sorvetesinacio/storefront/pkg/errors"
	"github.com/sorvetesinacio/storefront/pkg/logger"
	"github.com/sorvetesinacio/storefront/pkg/models"
	"github.com/sorvetesinacio/storefront/pkg/security"
	"github.com/sorvetesinacio/storefront/pkg/validators"
)

// ServiceParams groups dependencies for the auth service.
type ServiceParams struct {
	Store  *store.Store
	Logger *logger.Logger
}

// Service exposes session and account management. Role checks here are
// advisory: the store runs in-process and trusts its caller, so HasRole
// guides the presentation layer rather than enforcing a security boundary.
type Service interface {
	Login(ctx context.Context, email, password string) (models.User, error)
	Logout(ctx context.Context) error
	CurrentActor() (models.User, bool)
	IsAuthenticated() bool
	HasRole(required enums.UserRole) bool

	Register(ctx context.Context, input RegisterInput) (models.User, error)
	UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (models.User, error)
	ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error
	DeleteAccount(ctx context.Context, userID, password string) error
	ListUsers() ([]models.User, error)
}

// RegisterInput carries a new account request. Role defaults to customer.
type RegisterInput struct {
	Name     string         `json:"name" validate:"required"`
	Email    string         `json:"email" validate:"required,email"`
	Password string         `json:"password" validate:"required,min=6"`
	Role     enums.UserRole `json:"role" validate:"omitempty,oneof=customer staff admin"`
}

// UpdateProfileInput carries partial profile changes. Role is deliberately
// not updatable through this path.
type UpdateProfileInput struct {
	Name     *string `json:"name" validate:"omitempty,min=1"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Password *string `json:"password" validate:"omitempty,min=6"`
}

type service struct {
	store *store.Store
	logg  *logger.Logger
}

// NewService builds an auth service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store is required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.New(logger.Options{ServiceName: "auth"})
	}
	return &service{store: params.Store, logg: logg}, nil
}

// Login scans for an exact email and password match. Success persists the
// session; failure yields INVALID_CREDENTIALS, never an exception.
func (s *service) Login(ctx context.Context, email, password string) (models.User, error) {
	for _, user := range s.store.ListUsers() {
		if strings.EqualFold(user.Email, email) && security.Verify(user.Password, password) {
			if err := s.store.SetSession(ctx, user); err != nil {
				return models.User{}, err
			}
			s.logg.Info(s.logg.WithUserID(ctx, user.ID), "user logged in")
			return user, nil
		}
	}
	return models.User{}, pkgerrors.New(pkgerrors.CodeInvalidCredentials, "no matching email and password")
}

// Logout clears the session slot and its persisted trace.
func (s *service) Logout(ctx context.Context) error {
	return s.store.ClearSession(ctx)
}

// CurrentActor returns the logged-in user, if any.
func (s *service) CurrentActor() (models.User, bool) {
	actor := s.store.Session()
	if actor == nil {
		return models.User{}, false
	}
	return *actor, true
}

// IsAuthenticated reports whether somebody is logged in.
func (s *service) IsAuthenticated() bool {
	_, ok := s.CurrentActor()
	return ok
}

// HasRole reports whether the current actor satisfies the required role.
// admin passes any staff check, staff passes any customer check.
func (s *service) HasRole(required enums.UserRole) bool {
	actor, ok := s.CurrentActor()
	if !ok {
		return false
	}
	return actor.Role.AtLeast(required)
}

// Register creates an account with a unique email and logs it in.
func (s *service) Register(ctx context.Context, input RegisterInput) (models.User, error) {
	if err := validators.Struct(input); err != nil {
		return models.User{}, err
	}
	if _, err := s.store.FindUserByEmail(input.Email); err == nil {
		return models.User{}, pkgerrors.New(pkgerrors.CodeConflict, "email already in use")
	}

	role := input.Role
	if role == "" {
		role = enums.UserRoleCustomer
	}

	user, err := s.store.SaveUser(ctx, models.User{
		Name:     input.Name,
		Email:    input.Email,
		Password: input.Password,
		Role:     role,
	})
	if err != nil {
		return models.User{}, err
	}
	if err := s.store.SetSession(ctx, user); err != nil {
		return models.User{}, err
	}
	s.logg.Info(s.logg.WithUserID(ctx, user.ID), "account registered")
	return user, nil
}

// UpdateProfile applies partial changes and refreshes the session when the
// edited account is the logged-in one.
func (s *service) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (models.User, error) {
	if err := validators.Struct(input); err != nil {
		return models.User{}, err
	}
	user, err := s.store.FindUserByID(userID)
	if err != nil {
		return models.User{}, err
	}

	if input.Name != nil {
		user.Name = strings.TrimSpace(*input.Name)
	}
	if input.Email != nil {
		user.Email = strings.TrimSpace(*input.Email)
	}
	if input.Password != nil {
		user.Password = *input.Password
	}

	updated, err := s.store.SaveUser(ctx, user)
	if err != nil {
		return models.User{}, err
	}
	if actor, ok := s.CurrentActor(); ok && actor.ID == userID {
		if err := s.store.SetSession(ctx, updated); err != nil {
			return models.User{}, err
		}
	}
	return updated, nil
}

// ChangePassword verifies the current password before storing the new one.
func (s *service) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	user, err := s.store.FindUserByID(userID)
	if err != nil {
		return err
	}
	if !security.Verify(user.Password, currentPassword) {
		return pkgerrors.New(pkgerrors.CodeInvalidCredentials, "current password does not match")
	}
	if len(newPassword) < 6 {
		return pkgerrors.New(pkgerrors.CodeValidation, "new password must be at least 6 characters")
	}

	user.Password = newPassword
	if _, err := s.store.SaveUser(ctx, user); err != nil {
		return err
	}
	if actor, ok := s.CurrentActor(); ok && actor.ID == userID {
		user.Password = newPassword
		if err := s.store.SetSession(ctx, user); err != nil {
			return err
		}
	}
	return nil
}

// DeleteAccount removes an account after a password check, logging out
// first when the account is the current actor.
func (s *service) DeleteAccount(ctx context.Context, userID, password string) error {
	user, err := s.store.FindUserByID(userID)
	if err != nil {
		return err
	}
	if !security.Verify(user.Password, password) {
		return pkgerrors.New(pkgerrors.CodeInvalidCredentials, "password does not match")
	}

	if actor, ok := s.CurrentActor(); ok && actor.ID == userID {
		if err := s.Logout(ctx); err != nil {
			return err
		}
	}
	return s.store.DeleteUser(ctx, userID)
}

// ListUsers returns every account. Advisory admin check, per the trust
// model described on Service.
func (s *service) ListUsers() ([]models.User, error) {
	if !s.HasRole(enums.UserRoleAdmin) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "admin role required")
	}
	return s.store.ListUsers(), nil
}

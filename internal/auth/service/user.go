package service

import (
	"context"
	"errors"
	"strings"

	"github.com/aussiebroadwan/chatauth/internal/auth/domain"
	"github.com/aussiebroadwan/chatauth/internal/auth/metrics"
	"github.com/aussiebroadwan/chatauth/internal/auth/store"
	"github.com/aussiebroadwan/chatauth/pkg/slogx"
)

const usersService = "users"

// UserService owns the local user rows. Store sentinels never leave it;
// callers only see AppErrors.
type UserService struct {
	Store   store.Store
	Metrics *metrics.Metrics
}

// GetUserByID fetches a user by id.
func (s *UserService) GetUserByID(ctx context.Context, userID string) (domain.User, error) {
	u, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return domain.User{}, mapStoreError(err, "failed to look up user")
	}
	return u, nil
}

// FindByEmail fetches a user by email, ignoring case.
func (s *UserService) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	u, err := s.Store.Users().GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return domain.User{}, mapStoreError(err, "failed to look up user")
	}
	return u, nil
}

// CreateUser inserts u. ConflictError if the id or email is taken.
func (s *UserService) CreateUser(ctx context.Context, u domain.User) (domain.User, error) {
	u.Email = normalizeEmail(u.Email)

	created, err := s.Store.Users().CreateUser(ctx, u)
	if err != nil {
		return domain.User{}, mapStoreError(err, "failed to create user")
	}

	s.Metrics.IncLocalUserCreated()
	slogx.FromContext(ctx).Info("local user created", "user_id", created.ID)
	return created, nil
}

// UpdateUser applies a partial update.
func (s *UserService) UpdateUser(ctx context.Context, id string, upd domain.UserUpdate) (domain.User, error) {
	if upd.IsEmpty() {
		return s.GetUserByID(ctx, id)
	}
	if upd.Email != nil {
		e := normalizeEmail(*upd.Email)
		upd.Email = &e
	}

	u, err := s.Store.Users().UpdateUser(ctx, id, upd)
	if err != nil {
		return domain.User{}, mapStoreError(err, "failed to update user")
	}
	return u, nil
}

// RegisterOrLoginUserByID returns the user with u.ID, creating it from u when
// absent. Calling it twice for the same id never creates a second row.
func (s *UserService) RegisterOrLoginUserByID(ctx context.Context, u domain.User) (domain.User, error) {
	u.Email = normalizeEmail(u.Email)

	var (
		result  domain.User
		created bool
	)
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		existing, err := tx.Users().GetUserByID(ctx, u.ID)
		if err == nil {
			result = existing
			return nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			return err
		}

		result, err = tx.Users().CreateUser(ctx, u)
		created = err == nil
		return err
	})

	if errors.Is(err, store.ErrAlreadyExists) {
		// Lost a race with a concurrent login for the same identity.
		return s.GetUserByID(ctx, u.ID)
	}
	if err != nil {
		return domain.User{}, mapStoreError(err, "failed to register or login user")
	}

	if created {
		s.Metrics.IncLocalUserCreated()
		slogx.FromContext(ctx).Info("local user created on first login", "user_id", result.ID)
	}
	return result, nil
}

func mapStoreError(err error, msg string) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return domain.NewNotFoundError(usersService, "user not found")
	case errors.Is(err, store.ErrAlreadyExists):
		return domain.NewConflictError(usersService, "user already exists")
	default:
		return domain.NewInternalError(usersService, msg, err)
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/userdir/userdir/internal/metrics"
	"github.com/userdir/userdir/internal/model"
	"github.com/userdir/userdir/internal/repository"
)

// Service errors.
var (
	ErrUserNotFound   = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already in use")
)

// UserStore is the persistence gateway the service depends on.
// *repository.Repository satisfies it; tests use an in-memory fake.
type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) (*model.User, error)
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	ListUsers(ctx context.Context, page, size int, sortBy string, ascending bool) ([]*model.User, int64, error)
	UpdateUser(ctx context.Context, user *model.User) (*model.User, error)
	DeleteUser(ctx context.Context, id string) error
}

// WelcomeNotifier dispatches the welcome message sent after creation.
// Dispatch is best-effort: the service never fails a create because of
// a notifier error.
type WelcomeNotifier interface {
	SendWelcome(ctx context.Context, user *model.User) error
}

// ListDefaults holds the process-wide list parameter defaults,
// supplied from configuration at startup.
type ListDefaults struct {
	PageSize    int
	SortBy      string
	SortDir     string
	MaxPageSize int
}

// UserService owns the user lifecycle business rules.
type UserService struct {
	store    UserStore
	notifier WelcomeNotifier
	defaults ListDefaults
	metrics  metrics.Recorder
	logger   *slog.Logger
}

// NewUserService creates a new UserService.
func NewUserService(store UserStore, notifier WelcomeNotifier, defaults ListDefaults, logger *slog.Logger, recorder metrics.Recorder) *UserService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &UserService{
		store:    store,
		notifier: notifier,
		defaults: defaults,
		metrics:  recorder,
		logger:   logger,
	}
}

// CreateUser persists a new user record and dispatches a welcome mail.
// The incoming record must carry no identifier and no timestamps: the
// store assigns the identifier and CreateUser stamps CreatedOn with the
// current date. Fails with ErrDuplicateEmail if the email is taken.
func (s *UserService) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	// Fast-path duplicate check; the storage unique index is the
	// authoritative one and catches the check-then-insert race.
	if _, err := s.store.GetUserByEmail(ctx, user.Email); err == nil {
		return nil, ErrDuplicateEmail
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	user.ID = ""
	user.CreatedOn = model.Today()
	user.LastModifiedOn = nil

	created, err := s.store.CreateUser(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.metrics.IncUserCreated()

	// Best-effort side effect; create already succeeded.
	if err := s.notifier.SendWelcome(ctx, created); err != nil {
		s.logger.Warn("welcome mail dispatch failed",
			"user_id", created.ID,
			"error", err,
		)
	}

	return created, nil
}

// GetUser retrieves a user by identifier.
func (s *UserService) GetUser(ctx context.Context, id string) (*model.User, error) {
	user, err := s.store.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

// ListUsersInput defines input for listing users.
type ListUsersInput struct {
	PageNo   int
	PageSize int
	SortBy   string
	SortDir  string
}

// UserPage is one page of users plus pagination metadata.
type UserPage struct {
	Content       []*model.User
	PageNo        int
	PageSize      int
	TotalElements int64
	TotalPages    int
	Last          bool
}

// ListUsers returns a sorted page of users. Out-of-range pages yield an
// empty content slice with correct metadata, not an error. Only "asc"
// (any case) sorts ascending; every other direction sorts descending.
func (s *UserService) ListUsers(ctx context.Context, input ListUsersInput) (*UserPage, error) {
	if input.PageNo < 0 {
		input.PageNo = 0
	}
	if input.PageSize <= 0 {
		input.PageSize = s.defaults.PageSize
	}
	if s.defaults.MaxPageSize > 0 && input.PageSize > s.defaults.MaxPageSize {
		input.PageSize = s.defaults.MaxPageSize
	}
	// Unknown sort fields fall back to the configured default. The
	// store's whitelist is the single source of sortable field names.
	if !repository.SortableField(input.SortBy) {
		input.SortBy = s.defaults.SortBy
	}
	if input.SortDir == "" {
		input.SortDir = s.defaults.SortDir
	}

	ascending := strings.EqualFold(input.SortDir, "asc")

	users, total, err := s.store.ListUsers(ctx, input.PageNo, input.PageSize, input.SortBy, ascending)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	totalPages := int((total + int64(input.PageSize) - 1) / int64(input.PageSize))

	return &UserPage{
		Content:       users,
		PageNo:        input.PageNo,
		PageSize:      input.PageSize,
		TotalElements: total,
		TotalPages:    totalPages,
		Last:          input.PageNo >= totalPages-1,
	}, nil
}

// UpdateUser replaces all fields of an existing record. The path
// identifier wins over any identifier in the payload; CreatedOn is
// carried over from the stored record and LastModifiedOn is stamped
// with the current date. Fails with ErrDuplicateEmail if the new email
// belongs to a different record.
func (s *UserService) UpdateUser(ctx context.Context, id string, user *model.User) (*model.User, error) {
	user.ID = id

	existing, err := s.store.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	owner, err := s.store.GetUserByEmail(ctx, user.Email)
	if err == nil && !strings.EqualFold(owner.ID, id) {
		return nil, ErrDuplicateEmail
	} else if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	user.CreatedOn = existing.CreatedOn
	now := model.Today()
	user.LastModifiedOn = &now

	updated, err := s.store.UpdateUser(ctx, user)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrEmailExists):
			return nil, ErrDuplicateEmail
		case errors.Is(err, repository.ErrUserNotFound):
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	s.metrics.IncUserUpdated()

	return updated, nil
}

// DeleteUser removes a user permanently.
func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	if err := s.store.DeleteUser(ctx, id); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}

	s.metrics.IncUserDeleted()

	return nil
}

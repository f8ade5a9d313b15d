package testutil

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/userdir/userdir/internal/model"
	"github.com/userdir/userdir/internal/repository"
)

// InMemoryUserStore is a map-backed user store honoring the same
// contract as *repository.Repository, including its sentinel errors
// and the unique-email guarantee. Safe for concurrent use.
type InMemoryUserStore struct {
	mu    sync.Mutex
	users map[string]*model.User
	seq   int

	// CreateErr, when set, is returned by CreateUser after the
	// duplicate check. Lets tests exercise storage failures.
	CreateErr error
}

// NewInMemoryUserStore creates an empty store.
func NewInMemoryUserStore() *InMemoryUserStore {
	return &InMemoryUserStore{users: make(map[string]*model.User)}
}

// Seed inserts a user directly, bypassing business rules.
func (s *InMemoryUserStore) Seed(user *model.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user.ID == "" {
		s.seq++
		user.ID = fmt.Sprintf("USR%04d", s.seq)
	}
	s.users[user.ID] = user.Clone()
}

// Count returns the number of stored users.
func (s *InMemoryUserStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users)
}

// CreateUser stores a new user, assigning an identifier when absent.
func (s *InMemoryUserStore) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Email == user.Email {
			return nil, repository.ErrEmailExists
		}
	}
	if s.CreateErr != nil {
		return nil, s.CreateErr
	}

	if user.ID == "" {
		s.seq++
		user.ID = fmt.Sprintf("USR%04d", s.seq)
	}
	s.users[user.ID] = user.Clone()

	return user, nil
}

// GetUserByID retrieves a user by identifier.
func (s *InMemoryUserStore) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return user.Clone(), nil
}

// GetUserByEmail retrieves a user by exact email match.
func (s *InMemoryUserStore) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, user := range s.users {
		if user.Email == email {
			return user.Clone(), nil
		}
	}
	return nil, repository.ErrUserNotFound
}

// ListUsers returns one sorted page of users plus the total count.
func (s *InMemoryUserStore) ListUsers(ctx context.Context, page, size int, sortBy string, ascending bool) ([]*model.User, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := make([]*model.User, 0, len(s.users))
	for _, user := range s.users {
		all = append(all, user.Clone())
	}

	sort.SliceStable(all, func(i, j int) bool {
		a, b := sortKey(all[i], sortBy), sortKey(all[j], sortBy)
		if a == b {
			return all[i].ID < all[j].ID
		}
		if ascending {
			return a < b
		}
		return a > b
	})

	total := int64(len(all))

	start := page * size
	if start >= len(all) {
		return []*model.User{}, total, nil
	}
	end := start + size
	if end > len(all) {
		end = len(all)
	}

	return all[start:end], total, nil
}

// UpdateUser overwrites an existing user wholesale.
func (s *InMemoryUserStore) UpdateUser(ctx context.Context, user *model.User) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.ID]; !ok {
		return nil, repository.ErrUserNotFound
	}
	for id, existing := range s.users {
		if id != user.ID && existing.Email == user.Email {
			return nil, repository.ErrEmailExists
		}
	}

	s.users[user.ID] = user.Clone()
	return user, nil
}

// DeleteUser removes a user permanently.
func (s *InMemoryUserStore) DeleteUser(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return repository.ErrUserNotFound
	}
	delete(s.users, id)
	return nil
}

// sortKey projects a user onto a comparable string for the given
// external sort field name. Dates use ISO order so lexicographic
// comparison matches chronological order.
func sortKey(u *model.User, sortBy string) string {
	switch sortBy {
	case "firstName":
		return u.FirstName
	case "lastName":
		return u.LastName
	case "dateOfBirth":
		return u.DateOfBirth.Format("2006-01-02")
	case "city":
		return u.City
	case "email":
		return u.Email
	case "createdOn":
		return u.CreatedOn.Format("2006-01-02")
	default:
		return u.ID
	}
}

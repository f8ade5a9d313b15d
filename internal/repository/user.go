package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/oklog/ulid/v2"

	"github.com/userdir/userdir/internal/model"
)

// Common errors for user repository operations.
var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailExists  = errors.New("email already exists")
)

// sortColumns maps external sort field names to table columns.
// Anything not listed here cannot be sorted on; the caller falls
// back to its configured default.
var sortColumns = map[string]string{
	"id":          "id",
	"firstName":   "first_name",
	"lastName":    "last_name",
	"dateOfBirth": "date_of_birth",
	"city":        "city",
	"email":       "email",
	"createdOn":   "created_on",
}

// SortableField reports whether the given external field name can be
// used as a list sort key.
func SortableField(field string) bool {
	_, ok := sortColumns[field]
	return ok
}

const userColumns = `id, first_name, last_name, date_of_birth, city, email, mobile_number, created_on, last_modified_on`

// CreateUser inserts a new user, assigning a fresh ULID identifier.
// The users_email_key unique index is the authoritative duplicate
// check; a violation surfaces as ErrEmailExists.
func (r *Repository) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	if user.ID == "" {
		user.ID = ulid.Make().String()
	}

	query := `
		INSERT INTO users (id, first_name, last_name, date_of_birth, city, email, mobile_number, created_on)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.pool.Exec(ctx, query,
		user.ID,
		user.FirstName,
		user.LastName,
		user.DateOfBirth,
		user.City,
		user.Email,
		nullIfEmpty(user.MobileNumber),
		user.CreatedOn,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// GetUserByID retrieves a user by their identifier.
func (r *Repository) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := r.scanUser(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}

	return user, nil
}

// GetUserByEmail retrieves a user by their email address (exact match).
func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	user, err := r.scanUser(r.pool.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return user, nil
}

// ListUsers returns one page of users sorted by the given external
// field name, plus the total record count across all pages. A page
// beyond the end returns an empty slice with the correct count.
func (r *Repository) ListUsers(ctx context.Context, page, size int, sortBy string, ascending bool) ([]*model.User, int64, error) {
	column, ok := sortColumns[sortBy]
	if !ok {
		return nil, 0, fmt.Errorf("unsortable field %q", sortBy)
	}

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM users`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	direction := "DESC"
	if ascending {
		direction = "ASC"
	}

	// column and direction come from fixed whitelists, never from input
	query := fmt.Sprintf(
		`SELECT %s FROM users ORDER BY %s %s, id ASC LIMIT $1 OFFSET $2`,
		userColumns, column, direction,
	)

	rows, err := r.pool.Query(ctx, query, size, page*size)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := make([]*model.User, 0, size)
	for rows.Next() {
		user, err := r.scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate user rows: %w", err)
	}

	return users, total, nil
}

// UpdateUser overwrites all mutable fields of an existing user.
// The identifier and created_on are never touched here.
func (r *Repository) UpdateUser(ctx context.Context, user *model.User) (*model.User, error) {
	query := `
		UPDATE users
		SET first_name = $2, last_name = $3, date_of_birth = $4, city = $5,
		    email = $6, mobile_number = $7, last_modified_on = $8
		WHERE id = $1
	`

	var lastModified *time.Time
	if user.LastModifiedOn != nil {
		t := user.LastModifiedOn.Time
		lastModified = &t
	}

	tag, err := r.pool.Exec(ctx, query,
		user.ID,
		user.FirstName,
		user.LastName,
		user.DateOfBirth,
		user.City,
		user.Email,
		nullIfEmpty(user.MobileNumber),
		lastModified,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return nil, ErrUserNotFound
	}

	return user, nil
}

// DeleteUser removes a user permanently.
func (r *Repository) DeleteUser(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	return nil
}

// scanUser reads one user row, converting nullable columns.
func (r *Repository) scanUser(row pgx.Row) (*model.User, error) {
	var (
		user         model.User
		mobile       *string
		lastModified *time.Time
	)

	err := row.Scan(
		&user.ID,
		&user.FirstName,
		&user.LastName,
		&user.DateOfBirth,
		&user.City,
		&user.Email,
		&mobile,
		&user.CreatedOn,
		&lastModified,
	)
	if err != nil {
		return nil, err
	}

	if mobile != nil {
		user.MobileNumber = *mobile
	}
	if lastModified != nil {
		d := model.DateOf(*lastModified)
		user.LastModifiedOn = &d
	}

	return &user, nil
}

// isUniqueViolation checks for a PostgreSQL unique constraint violation
// (error code 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import (
	"net/mail"
	"strings"

	"github.com/userdir/userdir/internal/model"
)

// UserRequest is the request body for creating or updating a user.
// The id field is accepted but ignored: the server assigns identifiers
// on create, and the path identifier wins on update. DateOfBirth uses
// the day-month-year wire format, e.g. "25-12-1990".
type UserRequest struct {
	ID           string `json:"id,omitempty"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	DateOfBirth  string `json:"dateOfBirth"`
	City         string `json:"city"`
	Email        string `json:"email"`
	MobileNumber string `json:"mobileNumber,omitempty"`
}

// ValidationErrors maps field names to human-readable messages.
type ValidationErrors map[string]string

// ToUser validates the request field-by-field and converts it into a
// domain record. A non-empty ValidationErrors means the record must not
// be used.
func (r *UserRequest) ToUser() (*model.User, ValidationErrors) {
	errs := ValidationErrors{}

	if strings.TrimSpace(r.FirstName) == "" {
		errs["firstName"] = "must not be empty"
	}
	if strings.TrimSpace(r.LastName) == "" {
		errs["lastName"] = "must not be empty"
	}
	if strings.TrimSpace(r.City) == "" {
		errs["city"] = "must not be empty"
	}

	if strings.TrimSpace(r.Email) == "" {
		errs["email"] = "must not be empty"
	} else if addr, err := mail.ParseAddress(r.Email); err != nil || addr.Address != r.Email {
		errs["email"] = "must be a well-formed email address"
	}

	var dob model.Date
	if strings.TrimSpace(r.DateOfBirth) == "" {
		errs["dateOfBirth"] = "must not be empty"
	} else {
		parsed, err := model.ParseDate(r.DateOfBirth)
		if err != nil {
			errs["dateOfBirth"] = "must be a date in DD-MM-YYYY format"
		} else {
			dob = parsed
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}

	return &model.User{
		ID:           r.ID,
		FirstName:    r.FirstName,
		LastName:     r.LastName,
		DateOfBirth:  dob,
		City:         r.City,
		Email:        r.Email,
		MobileNumber: r.MobileNumber,
	}, nil
}

// UserResponse represents a user in API responses.
type UserResponse struct {
	ID           string `json:"id"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	DateOfBirth  string `json:"dateOfBirth"`
	City         string `json:"city"`
	Email        string `json:"email"`
	MobileNumber string `json:"mobileNumber,omitempty"`
}

// UserPageResponse represents a paginated list of users.
type UserPageResponse struct {
	Content       []UserResponse `json:"content"`
	PageNo        int            `json:"pageNo"`
	PageSize      int            `json:"pageSize"`
	TotalElements int64          `json:"totalElements"`
	TotalPages    int            `json:"totalPages"`
	Last          bool           `json:"last"`
}

// ErrorResponse represents an API error.
type ErrorResponse struct {
	Error  string            `json:"error"`
	Code   string            `json:"code"`
	Fields map[string]string `json:"fields,omitempty"`
}

// ToUserResponse converts a User model to UserResponse DTO.
func ToUserResponse(user *model.User) *UserResponse {
	return &UserResponse{
		ID:           user.ID,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		DateOfBirth:  user.DateOfBirth.String(),
		City:         user.City,
		Email:        user.Email,
		MobileNumber: user.MobileNumber,
	}
}

// ToUserPageResponse converts a service page to its response DTO.
func ToUserPageResponse(content []*model.User, pageNo, pageSize int, totalElements int64, totalPages int, last bool) *UserPageResponse {
	responses := make([]UserResponse, len(content))
	for i, user := range content {
		responses[i] = *ToUserResponse(user)
	}
	return &UserPageResponse{
		Content:       responses,
		PageNo:        pageNo,
		PageSize:      pageSize,
		TotalElements: totalElements,
		TotalPages:    totalPages,
		Last:          last,
	}
}

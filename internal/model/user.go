// Package model defines domain entities for the application.
package model

// User represents a stored user profile record.
// ID is assigned by the persistence layer on first save and never
// changes. CreatedOn is set once at creation; LastModifiedOn is nil
// until the first update.
type User struct {
	ID             string `json:"id"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	DateOfBirth    Date   `json:"date_of_birth"`
	City           string `json:"city"`
	Email          string `json:"email"`
	MobileNumber   string `json:"mobile_number,omitempty"`
	CreatedOn      Date   `json:"created_on"`
	LastModifiedOn *Date  `json:"last_modified_on,omitempty"`
}

// Clone returns a deep copy of the user.
func (u *User) Clone() *User {
	clone := *u
	if u.LastModifiedOn != nil {
		modified := *u.LastModifiedOn
		clone.LastModifiedOn = &modified
	}
	return &clone
}

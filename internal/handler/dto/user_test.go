package dto

import (
	"testing"
	"time"

	"github.com/userdir/userdir/internal/model"
)

func validRequest() UserRequest {
	return UserRequest{
		FirstName:    "Ada",
		LastName:     "Lovelace",
		DateOfBirth:  "10-12-1815",
		City:         "London",
		Email:        "ada@example.com",
		MobileNumber: "+44123456789",
	}
}

func TestUserRequest_ToUser(t *testing.T) {
	req := validRequest()

	user, errs := req.ToUser()
	if errs != nil {
		t.Fatalf("expected no validation errors, got %v", errs)
	}

	if user.FirstName != "Ada" || user.LastName != "Lovelace" {
		t.Errorf("unexpected names: %+v", user)
	}
	if !user.DateOfBirth.Equal(model.NewDate(1815, time.December, 10)) {
		t.Errorf("unexpected date of birth: %s", user.DateOfBirth)
	}
	if user.MobileNumber != "+44123456789" {
		t.Errorf("unexpected mobile number: %s", user.MobileNumber)
	}
}

func TestUserRequest_ToUserValidation(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*UserRequest)
		wantField string
	}{
		{"empty_first_name", func(r *UserRequest) { r.FirstName = "" }, "firstName"},
		{"whitespace_last_name", func(r *UserRequest) { r.LastName = "   " }, "lastName"},
		{"empty_city", func(r *UserRequest) { r.City = "" }, "city"},
		{"empty_email", func(r *UserRequest) { r.Email = "" }, "email"},
		{"malformed_email", func(r *UserRequest) { r.Email = "ada@" }, "email"},
		{"email_with_display_name", func(r *UserRequest) { r.Email = "Ada <ada@example.com>" }, "email"},
		{"empty_date", func(r *UserRequest) { r.DateOfBirth = "" }, "dateOfBirth"},
		{"iso_date", func(r *UserRequest) { r.DateOfBirth = "1815-12-10" }, "dateOfBirth"},
		{"garbage_date", func(r *UserRequest) { r.DateOfBirth = "tenth of december" }, "dateOfBirth"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			req := validRequest()
			test.mutate(&req)

			user, errs := req.ToUser()
			if user != nil {
				t.Error("expected nil user on validation failure")
			}
			if _, ok := errs[test.wantField]; !ok {
				t.Errorf("expected a message for %s, got %v", test.wantField, errs)
			}
		})
	}
}

func TestUserRequest_MobileOptional(t *testing.T) {
	req := validRequest()
	req.MobileNumber = ""

	if _, errs := req.ToUser(); errs != nil {
		t.Fatalf("mobile number is optional, got %v", errs)
	}
}

func TestToUserResponse(t *testing.T) {
	modified := model.NewDate(2024, time.March, 1)
	user := &model.User{
		ID:             "USR0001",
		FirstName:      "Ada",
		LastName:       "Lovelace",
		DateOfBirth:    model.NewDate(1815, time.December, 10),
		City:           "London",
		Email:          "ada@example.com",
		CreatedOn:      model.NewDate(2024, time.January, 1),
		LastModifiedOn: &modified,
	}

	resp := ToUserResponse(user)

	if resp.ID != "USR0001" {
		t.Errorf("unexpected id: %s", resp.ID)
	}
	if resp.DateOfBirth != "10-12-1815" {
		t.Errorf("expected wire date format, got %s", resp.DateOfBirth)
	}
}

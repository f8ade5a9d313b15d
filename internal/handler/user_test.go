package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/userdir/userdir/internal/handler/dto"
	"github.com/userdir/userdir/internal/model"
	"github.com/userdir/userdir/internal/service"
	"github.com/userdir/userdir/internal/testutil"
)

type noopNotifier struct{}

func (noopNotifier) SendWelcome(ctx context.Context, user *model.User) error { return nil }

func newTestRouter(store *testutil.InMemoryUserStore) *chi.Mux {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := service.NewUserService(store, noopNotifier{}, service.ListDefaults{
		PageSize:    10,
		SortBy:      "lastName",
		SortDir:     "asc",
		MaxPageSize: 100,
	}, logger, nil)
	h := NewUserHandler(svc, logger)

	r := chi.NewRouter()
	r.Route("/api/users", func(r chi.Router) {
		r.Post("/", h.Create)
		r.Get("/", h.List)
		r.Get("/{userId}", h.Get)
		r.Put("/{userId}", h.Update)
		r.Delete("/{userId}", h.Delete)
	})
	return r
}

func seedUser(store *testutil.InMemoryUserStore, last, email string) *model.User {
	user := &model.User{
		FirstName:   "Test",
		LastName:    last,
		DateOfBirth: model.NewDate(1990, time.December, 25),
		City:        "Berlin",
		Email:       email,
		CreatedOn:   model.Today(),
	}
	store.Seed(user)
	return user
}

const validBody = `{
	"firstName": "Ada",
	"lastName": "Lovelace",
	"dateOfBirth": "10-12-1815",
	"city": "London",
	"email": "ada@example.com",
	"mobileNumber": "+44123456789"
}`

func TestUserHandler_Create(t *testing.T) {
	router := newTestRouter(testutil.NewInMemoryUserStore())

	req := httptest.NewRequest(http.MethodPost, "/api/users", strings.NewReader(validBody))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.UserResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ID == "" {
		t.Error("expected server-assigned id")
	}
	if resp.DateOfBirth != "10-12-1815" {
		t.Errorf("expected dateOfBirth in DD-MM-YYYY format, got %s", resp.DateOfBirth)
	}
	if resp.Email != "ada@example.com" {
		t.Errorf("unexpected email: %s", resp.Email)
	}
}

func TestUserHandler_CreateValidation(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantField string
	}{
		{"missing_first_name", `{"lastName":"L","dateOfBirth":"10-12-1815","city":"C","email":"a@b.com"}`, "firstName"},
		{"blank_city", `{"firstName":"A","lastName":"L","dateOfBirth":"10-12-1815","city":"  ","email":"a@b.com"}`, "city"},
		{"bad_email", `{"firstName":"A","lastName":"L","dateOfBirth":"10-12-1815","city":"C","email":"not-an-email"}`, "email"},
		{"bad_date", `{"firstName":"A","lastName":"L","dateOfBirth":"1815-12-10","city":"C","email":"a@b.com"}`, "dateOfBirth"},
		{"missing_date", `{"firstName":"A","lastName":"L","city":"C","email":"a@b.com"}`, "dateOfBirth"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			router := newTestRouter(testutil.NewInMemoryUserStore())

			req := httptest.NewRequest(http.MethodPost, "/api/users", strings.NewReader(test.body))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected status 400, got %d", rec.Code)
			}

			var resp dto.ErrorResponse
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if resp.Code != "VALIDATION_FAILED" {
				t.Errorf("expected VALIDATION_FAILED, got %s", resp.Code)
			}
			if _, ok := resp.Fields[test.wantField]; !ok {
				t.Errorf("expected a message for field %s, got %v", test.wantField, resp.Fields)
			}
		})
	}
}

func TestUserHandler_CreateInvalidJSON(t *testing.T) {
	router := newTestRouter(testutil.NewInMemoryUserStore())

	req := httptest.NewRequest(http.MethodPost, "/api/users", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestUserHandler_CreateDuplicateEmail(t *testing.T) {
	store := testutil.NewInMemoryUserStore()
	seedUser(store, "Lovelace", "ada@example.com")
	router := newTestRouter(store)

	req := httptest.NewRequest(http.MethodPost, "/api/users", strings.NewReader(validBody))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", rec.Code)
	}

	var resp dto.ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Code != "EMAIL_TAKEN" {
		t.Errorf("expected EMAIL_TAKEN, got %s", resp.Code)
	}
}

func TestUserHandler_Get(t *testing.T) {
	store := testutil.NewInMemoryUserStore()
	user := seedUser(store, "Lovelace", "ada@example.com")
	router := newTestRouter(store)

	req := httptest.NewRequest(http.MethodGet, "/api/users/"+user.ID, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var resp dto.UserResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ID != user.ID || resp.LastName != "Lovelace" {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestUserHandler_GetNotFound(t *testing.T) {
	router := newTestRouter(testutil.NewInMemoryUserStore())

	req := httptest.NewRequest(http.MethodGet, "/api/users/missing", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
}

func TestUserHandler_List(t *testing.T) {
	store := testutil.NewInMemoryUserStore()
	for i, last := range []string{"Adams", "Baker", "Clark", "Davis", "Evans"} {
		seedUser(store, last, "user"+string(rune('a'+i))+"@example.com")
	}
	router := newTestRouter(store)

	req := httptest.NewRequest(http.MethodGet, "/api/users?pageNo=1&pageSize=2&sortBy=lastName&sortDir=asc", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var resp dto.UserPageResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if len(resp.Content) != 2 {
		t.Fatalf("expected 2 records, got %d", len(resp.Content))
	}
	if resp.Content[0].LastName != "Clark" {
		t.Errorf("expected Clark first on page 1, got %s", resp.Content[0].LastName)
	}
	if resp.PageNo != 1 || resp.PageSize != 2 || resp.TotalElements != 5 || resp.TotalPages != 3 {
		t.Errorf("unexpected metadata: %+v", resp)
	}
	if resp.Last {
		t.Error("expected last=false on page 1")
	}
}

func TestUserHandler_ListDefaultsApplied(t *testing.T) {
	store := testutil.NewInMemoryUserStore()
	seedUser(store, "Lovelace", "ada@example.com")
	router := newTestRouter(store)

	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var resp dto.UserPageResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.PageNo != 0 || resp.PageSize != 10 {
		t.Errorf("expected default pageNo=0 pageSize=10, got %+v", resp)
	}
	if !resp.Last {
		t.Error("expected last=true with a single page")
	}
}

func TestUserHandler_ListBadPageParam(t *testing.T) {
	router := newTestRouter(testutil.NewInMemoryUserStore())

	req := httptest.NewRequest(http.MethodGet, "/api/users?pageNo=banana", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestUserHandler_Update(t *testing.T) {
	store := testutil.NewInMemoryUserStore()
	user := seedUser(store, "Lovelace", "ada@example.com")
	router := newTestRouter(store)

	body := `{
		"id": "should-be-ignored",
		"firstName": "Ada",
		"lastName": "King",
		"dateOfBirth": "10-12-1815",
		"city": "London",
		"email": "ada@example.com"
	}`

	req := httptest.NewRequest(http.MethodPut, "/api/users/"+user.ID, strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.UserResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ID != user.ID {
		t.Errorf("path identifier must win over payload, got %s", resp.ID)
	}
	if resp.LastName != "King" {
		t.Errorf("expected replaced last name, got %s", resp.LastName)
	}
}

func TestUserHandler_UpdateConflictAndNotFound(t *testing.T) {
	store := testutil.NewInMemoryUserStore()
	seedUser(store, "Lovelace", "ada@example.com")
	grace := seedUser(store, "Hopper", "grace@example.com")
	router := newTestRouter(store)

	conflict := `{"firstName":"G","lastName":"H","dateOfBirth":"09-12-1906","city":"NYC","email":"ada@example.com"}`
	req := httptest.NewRequest(http.MethodPut, "/api/users/"+grace.ID, strings.NewReader(conflict))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusConflict {
		t.Errorf("expected status 409, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPut, "/api/users/missing", strings.NewReader(conflict))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", rec.Code)
	}
}

func TestUserHandler_Delete(t *testing.T) {
	store := testutil.NewInMemoryUserStore()
	user := seedUser(store, "Lovelace", "ada@example.com")
	router := newTestRouter(store)

	req := httptest.NewRequest(http.MethodDelete, "/api/users/"+user.ID, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var resp map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["message"] == "" {
		t.Error("expected a confirmation message")
	}

	// Gone afterwards
	req = httptest.NewRequest(http.MethodGet, "/api/users/"+user.ID, nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status 404 after delete, got %d", rec.Code)
	}

	// Deleting again is a 404
	req = httptest.NewRequest(http.MethodDelete, "/api/users/"+user.ID, nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status 404 for second delete, got %d", rec.Code)
	}
}

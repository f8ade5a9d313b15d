package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/userdir/userdir/internal/handler/dto"
	"github.com/userdir/userdir/internal/service"
)

// UserHandler handles HTTP requests for user operations.
type UserHandler struct {
	svc    *service.UserService
	logger *slog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(svc *service.UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		svc:    svc,
		logger: logger,
	}
}

// Create handles POST /api/users.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.UserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	user, fieldErrs := req.ToUser()
	if fieldErrs != nil {
		h.writeValidationError(w, fieldErrs)
		return
	}

	created, err := h.svc.CreateUser(r.Context(), user)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("user_created", "user_id", created.ID)

	writeJSON(w, http.StatusCreated, dto.ToUserResponse(created))
}

// Get handles GET /api/users/{userId}.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "userId")

	user, err := h.svc.GetUser(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToUserResponse(user))
}

// List handles GET /api/users.
// Absent query parameters fall back to the configured defaults.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	input := service.ListUsersInput{
		SortBy:  query.Get("sortBy"),
		SortDir: query.Get("sortDir"),
	}

	if raw := query.Get("pageNo"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, "INVALID_PAGE_NO", "pageNo must be an integer")
			return
		}
		input.PageNo = parsed
	}

	if raw := query.Get("pageSize"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, "INVALID_PAGE_SIZE", "pageSize must be an integer")
			return
		}
		input.PageSize = parsed
	}

	page, err := h.svc.ListUsers(r.Context(), input)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	response := dto.ToUserPageResponse(
		page.Content,
		page.PageNo,
		page.PageSize,
		page.TotalElements,
		page.TotalPages,
		page.Last,
	)
	writeJSON(w, http.StatusOK, response)
}

// Update handles PUT /api/users/{userId}.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "userId")

	var req dto.UserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	user, fieldErrs := req.ToUser()
	if fieldErrs != nil {
		h.writeValidationError(w, fieldErrs)
		return
	}

	updated, err := h.svc.UpdateUser(r.Context(), id, user)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("user_updated", "user_id", updated.ID)

	writeJSON(w, http.StatusOK, dto.ToUserResponse(updated))
}

// Delete handles DELETE /api/users/{userId}.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "userId")

	if err := h.svc.DeleteUser(r.Context(), id); err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("user_deleted", "user_id", id)

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "User details successfully deleted",
	})
}

// handleServiceError maps service errors to HTTP responses.
func (h *UserHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		h.writeError(w, http.StatusNotFound, "USER_NOT_FOUND", "User not found")
	case errors.Is(err, service.ErrDuplicateEmail):
		h.writeError(w, http.StatusConflict, "EMAIL_TAKEN", "Email is already in use")
	default:
		h.logger.Error("internal_error", "error", err)
		h.writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}

// writeError writes an error response.
func (h *UserHandler) writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, dto.ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// writeValidationError writes a 400 response with per-field messages.
func (h *UserHandler) writeValidationError(w http.ResponseWriter, fields dto.ValidationErrors) {
	writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{
		Error:  "Validation failed",
		Code:   "VALIDATION_FAILED",
		Fields: fields,
	})
}

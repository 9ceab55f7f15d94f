package reminder

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/footyclub/backend/internal/appctx"
	"github.com/footyclub/backend/internal/metrics"
)

// APIResponse represents the standard API response format
type APIResponse struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	Error     *APIError   `json:"error,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// APIError represents the error detail in API response
type APIError struct {
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Details map[string][]string `json:"details,omitempty"`
}

// Handler handles HTTP requests for reminder endpoints
type Handler struct {
	service *Service
	logger  *slog.Logger
}

// NewHandler creates a new reminder Handler instance
func NewHandler(service *Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// List handles GET /api/v1/reminders
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	callerID, ok := h.callerID(w, r)
	if !ok {
		return
	}

	reminders, err := h.service.List(r.Context(), callerID)
	if err != nil {
		h.logger.Error("failed to list reminders", "error", err, "user_id", callerID)
		h.writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch reminders", nil)
		return
	}

	h.writeSuccess(w, http.StatusOK, map[string]interface{}{
		"reminders": reminders,
	})
}

// Create handles POST /api/v1/reminders
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	callerID, ok := h.callerID(w, r)
	if !ok {
		return
	}

	var req CreateReminderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, CodeValidationError, "Invalid request body", nil)
		return
	}

	rem, fieldErrors, err := h.service.Create(r.Context(), callerID, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrValidationFailed):
			h.writeError(w, http.StatusBadRequest, CodeValidationError, "Reminder validation failed", foldFieldErrors(fieldErrors))
		case errors.Is(err, ErrReminderExists):
			h.writeError(w, http.StatusConflict, CodeReminderExists, "Reminder already exists for this match", nil)
		default:
			h.logger.Error("failed to create reminder", "error", err, "user_id", callerID)
			h.writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create reminder", nil)
		}
		return
	}

	metrics.ReminderOperationsTotal.WithLabelValues("create").Inc()
	h.writeSuccess(w, http.StatusCreated, map[string]interface{}{
		"message":  "Reminder created successfully",
		"reminder": rem,
	})
}

// Update handles PUT /api/v1/reminders
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	callerID, ok := h.callerID(w, r)
	if !ok {
		return
	}

	var req UpdateReminderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, CodeValidationError, "Invalid request body", nil)
		return
	}

	rem, fieldErrors, err := h.service.Update(r.Context(), callerID, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrValidationFailed):
			h.writeError(w, http.StatusBadRequest, CodeValidationError, "Reminder validation failed", foldFieldErrors(fieldErrors))
		case errors.Is(err, ErrReminderNotFound):
			h.writeError(w, http.StatusNotFound, CodeNotFound, "Reminder not found", nil)
		default:
			h.logger.Error("failed to update reminder", "error", err, "user_id", callerID)
			h.writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update reminder", nil)
		}
		return
	}

	metrics.ReminderOperationsTotal.WithLabelValues("update").Inc()
	h.writeSuccess(w, http.StatusOK, map[string]interface{}{
		"message":  "Reminder updated successfully",
		"reminder": rem,
	})
}

// Delete handles DELETE /api/v1/reminders?matchId=...
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	callerID, ok := h.callerID(w, r)
	if !ok {
		return
	}

	matchID := r.URL.Query().Get("matchId")
	if matchID == "" {
		h.writeError(w, http.StatusBadRequest, CodeValidationError, "Match ID is required", nil)
		return
	}

	if err := h.service.Delete(r.Context(), callerID, matchID); err != nil {
		if errors.Is(err, ErrReminderNotFound) {
			h.writeError(w, http.StatusNotFound, CodeNotFound, "Reminder not found", nil)
			return
		}
		h.logger.Error("failed to delete reminder", "error", err, "user_id", callerID)
		h.writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete reminder", nil)
		return
	}

	metrics.ReminderOperationsTotal.WithLabelValues("delete").Inc()
	h.writeSuccess(w, http.StatusOK, map[string]interface{}{
		"message": "Reminder deleted successfully",
	})
}

// callerID resolves the authenticated caller's user ID from the session
// snapshot attached by the middleware.
func (h *Handler) callerID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	caller, ok := appctx.Caller(r.Context())
	if !ok {
		h.writeError(w, http.StatusUnauthorized, "NOT_AUTHENTICATED", "Not authenticated", nil)
		return uuid.Nil, false
	}
	callerID, err := uuid.Parse(caller.ID)
	if err != nil {
		h.writeError(w, http.StatusUnauthorized, "NOT_AUTHENTICATED", "Not authenticated", nil)
		return uuid.Nil, false
	}
	return callerID, true
}

// foldFieldErrors groups field errors into the details map shape
func foldFieldErrors(fieldErrors []FieldError) map[string][]string {
	details := make(map[string][]string)
	for _, fe := range fieldErrors {
		details[fe.Field] = append(details[fe.Field], fe.Message)
	}
	return details
}

// writeSuccess writes a successful JSON response
func (h *Handler) writeSuccess(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(APIResponse{
		Success:   true,
		Data:      data,
		Timestamp: time.Now().UTC(),
	})
}

// writeError writes an error JSON response
func (h *Handler) writeError(w http.ResponseWriter, statusCode int, code, message string, details map[string][]string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(APIResponse{
		Success: false,
		Error: &APIError{
			Code:    code,
			Message: message,
			Details: details,
		},
		Timestamp: time.Now().UTC(),
	})
}

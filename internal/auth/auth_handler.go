package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/footyclub/backend/internal/appctx"
	"github.com/footyclub/backend/internal/metrics"
	"github.com/footyclub/backend/internal/session"
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

// Handler handles HTTP requests for the auth endpoints
type Handler struct {
	service *Service
	cookies *session.Codec
}

// NewHandler creates a new auth Handler instance
func NewHandler(service *Service, cookies *session.Codec) *Handler {
	return &Handler{
		service: service,
		cookies: cookies,
	}
}

// Register handles user sign-up
// POST /api/v1/users
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeRegister(w, r)
	if !ok {
		return
	}

	fieldErrors, err := h.service.Register(r.Context(), req)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An error occurred during signup", nil)
		return
	}

	if len(fieldErrors) > 0 {
		h.writeError(w, http.StatusBadRequest, CodeValidationError, "Sign-up validation failed", foldFieldErrors(fieldErrors))
		return
	}

	metrics.AuthRegistrationsTotal.Inc()
	h.writeSuccess(w, http.StatusCreated, map[string]interface{}{
		"message": "Account created successfully",
	})
}

// Login handles sign-in
// POST /api/v1/session
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, CodeValidationError, "Invalid request body", nil)
		return
	}

	if (req.UsernameOrEmail == "" && req.Username == "") || req.Password == "" {
		h.writeError(w, http.StatusBadRequest, CodeValidationError, "Username and password are required", nil)
		return
	}

	snapshot, err := h.service.Login(r.Context(), req)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			metrics.AuthLoginsTotal.WithLabelValues("failure").Inc()
			h.writeError(w, http.StatusUnauthorized, CodeInvalidCredentials, "Invalid username or password", nil)
			return
		}
		h.writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An error occurred during login", nil)
		return
	}

	if err := h.cookies.Issue(w, *snapshot); err != nil {
		h.writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An error occurred during login", nil)
		return
	}

	metrics.AuthLoginsTotal.WithLabelValues("success").Inc()
	h.writeSuccess(w, http.StatusOK, map[string]interface{}{
		"user":    snapshot,
		"message": "Login successful",
	})
}

// Logout handles sign-out
// DELETE /api/v1/session
//
// The status update is best-effort; the cookie is cleared no matter
// what, since the cookie itself is the only session state there is.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if caller, ok := appctx.Caller(r.Context()); ok {
		_ = h.service.Logout(r.Context(), caller)
	}

	h.cookies.Clear(w)
	h.writeSuccess(w, http.StatusOK, map[string]interface{}{
		"message": "Logged out successfully",
	})
}

// decodeRegister reads the sign-up payload from either a JSON body or a
// submitted form, matching what the sign-up page sends.
func (h *Handler) decodeRegister(w http.ResponseWriter, r *http.Request) (RegisterRequest, bool) {
	var req RegisterRequest

	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "application/x-www-form-urlencoded") ||
		strings.HasPrefix(contentType, "multipart/form-data") {
		if err := r.ParseForm(); err != nil {
			h.writeError(w, http.StatusBadRequest, CodeValidationError, "Invalid form data", nil)
			return req, false
		}
		req = RegisterRequest{
			FirstName:       r.PostFormValue("firstName"),
			LastName:        r.PostFormValue("lastName"),
			Email:           r.PostFormValue("email"),
			Username:        r.PostFormValue("username"),
			Password:        r.PostFormValue("password"),
			ConfirmPassword: r.PostFormValue("confirmPassword"),
		}
		return req, true
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, CodeValidationError, "Invalid request body", nil)
		return req, false
	}
	return req, true
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

package middleware

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/footyclub/backend/internal/appctx"
	"github.com/footyclub/backend/internal/session"
)

// ErrorResponse represents the standard error response format
type ErrorResponse struct {
	Success   bool        `json:"success"`
	Error     ErrorDetail `json:"error"`
	Timestamp time.Time   `json:"timestamp"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// SessionMiddleware resolves the caller identity from the session cookie
type SessionMiddleware struct {
	cookies *session.Codec
}

// NewSessionMiddleware creates a new SessionMiddleware instance
func NewSessionMiddleware(cookies *session.Codec) *SessionMiddleware {
	return &SessionMiddleware{cookies: cookies}
}

// Resolve reads the session cookie and, when it verifies, attaches the
// snapshot to the request context. An absent or unparsable cookie is not
// an error: the request simply proceeds anonymously. Identity comes from
// the signed snapshot alone; the user row is not re-queried, so changes
// made after login show up only on re-authentication.
func (m *SessionMiddleware) Resolve(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caller, _ := m.cookies.Read(r)
		if caller != nil {
			r = r.WithContext(appctx.WithCaller(r.Context(), caller))
		}
		next.ServeHTTP(w, r)
	})
}

// Require rejects anonymous requests with 401. The client treats this
// as a redirect-to-sign-in signal.
func (m *SessionMiddleware) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := appctx.Caller(r.Context()); !ok {
			writeError(w, http.StatusUnauthorized, "NOT_AUTHENTICATED", "Not authenticated")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// writeError writes a JSON error response
func writeError(w http.ResponseWriter, statusCode int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{
		Success: false,
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
		Timestamp: time.Now().UTC(),
	})
}

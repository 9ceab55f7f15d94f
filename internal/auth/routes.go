package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Middleware is a standard HTTP middleware function
type Middleware func(http.Handler) http.Handler

// RegisterRoutes registers the account and session routes with the Chi
// router. Sign-up and sign-in are public; sign-in is rate limited.
// Logout reads the caller from the session middleware but never fails
// for anonymous callers.
func RegisterRoutes(r chi.Router, handler *Handler, loginLimiter Middleware) {
	r.Post("/users", handler.Register)

	r.Route("/session", func(r chi.Router) {
		r.With(loginLimiter).Post("/", handler.Login)
		r.Delete("/", handler.Logout)
	})
}

package reminder

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers reminder routes with the Chi router. Every
// route requires an authenticated caller; anonymous requests get 401
// and the client redirects to sign-in.
func RegisterRoutes(r chi.Router, handler *Handler, requireSession func(next http.Handler) http.Handler) {
	r.Route("/reminders", func(r chi.Router) {
		r.Use(requireSession)

		r.Get("/", handler.List)
		r.Post("/", handler.Create)
		r.Put("/", handler.Update)
		r.Delete("/", handler.Delete)
	})
}

package football

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers the football proxy routes with the Chi
// router. These are public: browsing fixtures does not require an
// account.
func RegisterRoutes(r chi.Router, handler *Handler) {
	r.Route("/football", func(r chi.Router) {
		r.Get("/teams", handler.Teams)
		r.Get("/fixtures", handler.Fixtures)
	})
}

// internal/app/features/blogs/routes.go
package blogs

import (
	sysauth "github.com/dalemusser/teamhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes returns the router for /api/blogs.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(sysauth.RequireSignedIn)

	r.Get("/", h.ServeList)
	r.Post("/", h.HandleCreate)

	r.Route("/{blogID}", func(br chi.Router) {
		br.Get("/", h.ServeView)
		br.Put("/", h.HandleUpdate)
		br.Delete("/", h.HandleDelete)
	})

	return r
}

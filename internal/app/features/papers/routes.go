// internal/app/features/papers/routes.go
package papers

import (
	sysauth "github.com/dalemusser/teamhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes returns the router for /api/papers. Reads are open to any
// signed-in user; mutations require admin or SPOC.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(sysauth.RequireSignedIn)

	r.Get("/", h.ServeList)
	r.Get("/{paperID}", h.ServeView)

	r.Group(func(pr chi.Router) {
		pr.Use(sysauth.RequireRole("admin", "spoc"))
		pr.Post("/", h.HandleCreate)
		pr.Put("/{paperID}", h.HandleUpdate)
		pr.Delete("/{paperID}", h.HandleDelete)
		pr.Post("/{paperID}/attachment", h.HandleUpload)
	})

	return r
}

// internal/app/features/projects/routes.go
package projects

import (
	sysauth "github.com/dalemusser/teamhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes returns the router for /api/projects. Everything requires a
// signed-in user; finer-grained checks live in the handlers because
// they depend on the loaded project.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(sysauth.RequireSignedIn)

	r.Get("/", h.ServeList)
	r.Post("/", h.HandleCreate)
	r.Get("/team-members", h.ServeTeamMembers)
	r.Get("/activity", h.ServeRecentActivity)

	r.Route("/{projectID}", func(pr chi.Router) {
		pr.Get("/", h.ServeView)
		pr.Get("/activity", h.ServeProjectActivity)
		pr.Put("/", h.HandleUpdate)
		pr.Delete("/", h.HandleDelete)
		pr.Post("/archive", h.HandleArchive)
		pr.Post("/comments", h.HandleAddComment)
	})

	return r
}

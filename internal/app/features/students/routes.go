// internal/app/features/students/routes.go
package students

import (
	sysauth "github.com/dalemusser/teamhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes returns the router for /api/students. Directory management is
// admin only.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(sysauth.RequireSignedIn)
	r.Use(sysauth.RequireRole("admin"))

	r.Get("/", h.ServeList)
	r.Post("/", h.HandleCreate)
	r.Put("/{entryID}", h.HandleUpdate)
	r.Delete("/{entryID}", h.HandleDelete)

	return r
}

// internal/app/features/attendance/routes.go
package attendance

import (
	sysauth "github.com/dalemusser/teamhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes returns the router for /api/attendance.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(sysauth.RequireSignedIn)

	r.Get("/", h.ServeList)
	r.Post("/", h.HandleMark)

	r.Group(func(ar chi.Router) {
		ar.Use(sysauth.RequireRole("admin", "spoc"))
		ar.Delete("/{recordID}", h.HandleDelete)
	})

	return r
}

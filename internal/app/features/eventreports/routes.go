// internal/app/features/eventreports/routes.go
package eventreports

import (
	sysauth "github.com/dalemusser/teamhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes returns the router for /api/event-reports. Reads are open to
// any signed-in user; mutations require admin or SPOC.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(sysauth.RequireSignedIn)

	r.Get("/", h.ServeList)
	r.Get("/{reportID}", h.ServeView)

	r.Group(func(er chi.Router) {
		er.Use(sysauth.RequireRole("admin", "spoc"))
		er.Post("/", h.HandleCreate)
		er.Put("/{reportID}", h.HandleUpdate)
		er.Delete("/{reportID}", h.HandleDelete)
		er.Post("/{reportID}/attachment", h.HandleUpload)
	})

	return r
}

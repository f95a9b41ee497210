// internal/app/features/meetings/routes.go
package meetings

import (
	sysauth "github.com/dalemusser/teamhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes returns the router for /api/meetings. Reads are open to any
// signed-in user; mutations require admin or SPOC.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(sysauth.RequireSignedIn)

	r.Get("/", h.ServeList)
	r.Get("/{meetingID}", h.ServeView)

	r.Group(func(mr chi.Router) {
		mr.Use(sysauth.RequireRole("admin", "spoc"))
		mr.Post("/", h.HandleCreate)
		mr.Put("/{meetingID}", h.HandleUpdate)
		mr.Delete("/{meetingID}", h.HandleDelete)
		mr.Post("/{meetingID}/attachments", h.HandleUpload)
	})

	return r
}

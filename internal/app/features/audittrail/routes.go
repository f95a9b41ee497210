// internal/app/features/audittrail/routes.go
package audittrail

import (
	sysauth "github.com/dalemusser/teamhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes returns the router for /api/audit. Admin only.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(sysauth.RequireSignedIn)
	r.Use(sysauth.RequireRole("admin"))

	r.Get("/", h.ServeList)

	return r
}

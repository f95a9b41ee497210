// internal/app/features/students/handler.go

// Package students manages the role directory: the email allowlist
// that decides who may sign in and with which org role. Admin only.
package students

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	rolestore "github.com/dalemusser/teamhub/internal/app/store/roles"
	userstore "github.com/dalemusser/teamhub/internal/app/store/users"
	"github.com/dalemusser/teamhub/internal/app/system/auditlog"
	"github.com/dalemusser/teamhub/internal/app/system/authz"
	"github.com/dalemusser/teamhub/internal/app/system/respond"
	"github.com/dalemusser/teamhub/internal/app/system/timeouts"
	"github.com/dalemusser/teamhub/internal/domain/models"
)

// Handler owns the role-directory endpoints.
type Handler struct {
	Roles *rolestore.Store
	Users *userstore.Store
	Audit *auditlog.Logger
	Log   *zap.Logger
}

// NewHandler creates a students Handler.
func NewHandler(roles *rolestore.Store, users *userstore.Store, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{Roles: roles, Users: users, Audit: audit, Log: logger}
}

func entryID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "entryID"))
	if err != nil {
		respond.BadRequest(w, "invalid entry id")
		return primitive.NilObjectID, false
	}
	return oid, true
}

// ServeList handles GET /api/students. Optional filters: role, batch.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	batch := 0
	if raw := query.Get(r, "batch"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			respond.BadRequest(w, "batch must be a year")
			return
		}
		batch = n
	}

	entries, err := h.Roles.List(ctx, query.Get(r, "role"), batch)
	if err != nil {
		h.Log.Error("students: list failed", zap.Error(err))
		respond.InternalError(w)
		return
	}

	payload := make([]entryPayload, 0, len(entries))
	for _, e := range entries {
		payload = append(payload, toEntryPayload(e))
	}
	respond.JSON(w, http.StatusOK, payload)
}

// HandleCreate handles POST /api/students: grants an email an org role.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createEntryRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	_, actorName, actorID, _ := authz.UserCtx(r)

	entry, err := h.Roles.Create(ctx, models.Role{
		Email:      req.Email,
		Role:       req.Role,
		Batch:      req.Batch,
		AssignedBy: actorName,
	})
	if errors.Is(err, rolestore.ErrDuplicateEmail) {
		respond.Conflict(w, "email is already in the directory")
		return
	}
	if err != nil {
		h.Log.Error("students: create failed", zap.Error(err))
		respond.InternalError(w)
		return
	}

	h.Audit.RoleGranted(ctx, r, actorID, entry.Email, entry.Role)

	respond.Created(w, "directory entry created", toEntryPayload(entry))
}

// HandleUpdate handles PUT /api/students/{entryID}: changes the role
// or batch. The email itself is immutable; revoke and re-grant to
// move an entry to a new address.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := entryID(w, r)
	if !ok {
		return
	}

	var req updateEntryRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	entry, err := h.Roles.Update(ctx, id, req.Role, req.Batch)
	if errors.Is(err, mongo.ErrNoDocuments) {
		respond.NotFound(w, "directory entry not found")
		return
	}
	if err != nil {
		h.Log.Error("students: update failed", zap.Error(err))
		respond.InternalError(w)
		return
	}

	_, _, actorID, _ := authz.UserCtx(r)
	h.Audit.RoleUpdated(ctx, r, actorID, entry.Email, entry.Role)

	respond.JSON(w, http.StatusOK, toEntryPayload(*entry))
}

// HandleDelete handles DELETE /api/students/{entryID}: revokes the
// entry and deactivates any existing user account for that email, so
// the removal takes effect at the next token refresh.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := entryID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	entry, err := h.Roles.Delete(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		respond.NotFound(w, "directory entry not found")
		return
	}
	if err != nil {
		h.Log.Error("students: delete failed", zap.Error(err))
		respond.InternalError(w)
		return
	}

	_, _, actorID, _ := authz.UserCtx(r)
	h.Audit.RoleRevoked(ctx, r, actorID, entry.Email)

	if err := h.Users.DeactivateByEmail(ctx, entry.Email); err != nil {
		h.Log.Warn("students: deactivate after revoke failed",
			zap.String("email", entry.Email), zap.Error(err))
	} else {
		h.Audit.UserDeactivated(ctx, r, actorID, entry.Email)
	}

	respond.OK(w, "directory entry removed")
}

// internal/app/features/attendance/handler.go

// Package attendance records per-user daily attendance. One record per
// (user, day); marking the same day twice updates the existing record
// instead of inserting a duplicate.
package attendance

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	attendancestore "github.com/dalemusser/teamhub/internal/app/store/attendance"
	"github.com/dalemusser/teamhub/internal/app/system/authz"
	"github.com/dalemusser/teamhub/internal/app/system/respond"
	"github.com/dalemusser/teamhub/internal/app/system/timeouts"
	"github.com/dalemusser/teamhub/internal/domain/models"
)

// Recorder is the store surface the attendance endpoints use.
// Implemented by the attendance store.
type Recorder interface {
	GetDay(ctx context.Context, userID primitive.ObjectID, day time.Time) (*models.Attendance, error)
	Mark(ctx context.Context, rec models.Attendance) (models.Attendance, error)
	Update(ctx context.Context, userID primitive.ObjectID, day time.Time, status, note string) (*models.Attendance, error)
	Delete(ctx context.Context, id primitive.ObjectID) (int64, error)
	ListRange(ctx context.Context, userID *primitive.ObjectID, from, to time.Time) ([]models.Attendance, error)
}

// Handler owns the attendance endpoints.
type Handler struct {
	Attendance Recorder
	Log        *zap.Logger
}

// NewHandler creates an attendance Handler.
func NewHandler(store Recorder, logger *zap.Logger) *Handler {
	return &Handler{Attendance: store, Log: logger}
}

// HandleMark handles POST /api/attendance. Create-or-update: if a
// record already exists for the (user, day) pair the status and note
// are replaced, so re-submitting never trips the unique index.
func (h *Handler) HandleMark(w http.ResponseWriter, r *http.Request) {
	var req markRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	_, _, callerID, _ := authz.UserCtx(r)

	target := callerID
	if req.UserID != "" {
		oid, err := primitive.ObjectIDFromHex(req.UserID)
		if err != nil {
			respond.BadRequest(w, "invalid user id")
			return
		}
		if oid != callerID && !authz.HasAnyRole(r, models.RoleAdmin, models.RoleSPOC) {
			respond.Forbidden(w, "you can only record your own attendance")
			return
		}
		target = oid
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	day := models.AttendanceDay(req.Date)

	if existing, err := h.Attendance.GetDay(ctx, target, day); err == nil && existing != nil {
		updated, err := h.Attendance.Update(ctx, target, day, req.Status, req.Note)
		if err != nil {
			h.Log.Error("attendance: update failed", zap.Error(err))
			respond.InternalError(w)
			return
		}
		respond.JSON(w, http.StatusOK, updated)
		return
	}

	rec, err := h.Attendance.Mark(ctx, models.Attendance{
		UserID:   target,
		Date:     day,
		Status:   req.Status,
		Note:     req.Note,
		MarkedBy: callerID,
	})
	if errors.Is(err, attendancestore.ErrDuplicateDay) {
		// Lost the race with a concurrent insert; the index held, so
		// converge on the update path.
		updated, uerr := h.Attendance.Update(ctx, target, day, req.Status, req.Note)
		if uerr != nil {
			h.Log.Error("attendance: update after duplicate failed", zap.Error(uerr))
			respond.InternalError(w)
			return
		}
		respond.JSON(w, http.StatusOK, updated)
		return
	}
	if err != nil {
		h.Log.Error("attendance: mark failed", zap.Error(err))
		respond.InternalError(w)
		return
	}

	respond.Created(w, "attendance recorded", rec)
}

// HandleDelete handles DELETE /api/attendance/{recordID}. Routed
// behind the admin/spoc role gate.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "recordID"))
	if err != nil {
		respond.BadRequest(w, "invalid record id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	n, err := h.Attendance.Delete(ctx, id)
	if err != nil {
		h.Log.Error("attendance: delete failed", zap.Error(err))
		respond.InternalError(w)
		return
	}
	if n == 0 {
		respond.NotFound(w, "attendance record not found")
		return
	}
	respond.OK(w, "attendance record deleted")
}

// ServeList handles GET /api/attendance?userId&from&to. Members see
// only their own records; admins and SPOCs may query anyone's, or
// everyone's by omitting userId.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	_, _, callerID, _ := authz.UserCtx(r)
	privileged := authz.HasAnyRole(r, models.RoleAdmin, models.RoleSPOC)

	var target *primitive.ObjectID
	switch raw := query.Get(r, "userId"); {
	case raw == "" && privileged:
		// all users
	case raw == "":
		target = &callerID
	default:
		oid, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			respond.BadRequest(w, "invalid user id")
			return
		}
		if oid != callerID && !privileged {
			respond.Forbidden(w, "you can only view your own attendance")
			return
		}
		target = &oid
	}

	now := time.Now().UTC()
	from := now.AddDate(0, -1, 0)
	to := now
	if raw := query.Get(r, "from"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			respond.BadRequest(w, "from must be YYYY-MM-DD")
			return
		}
		from = t
	}
	if raw := query.Get(r, "to"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			respond.BadRequest(w, "to must be YYYY-MM-DD")
			return
		}
		to = t
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	records, err := h.Attendance.ListRange(ctx, target, from, to)
	if err != nil {
		h.Log.Error("attendance: list failed", zap.Error(err))
		respond.InternalError(w)
		return
	}
	respond.JSON(w, http.StatusOK, records)
}

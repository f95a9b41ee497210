// internal/app/features/meetings/handler.go

// Package meetings implements meeting records: CRUD on minutes plus
// PDF attachments uploaded via multipart form, capped at five per
// meeting.
package meetings

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/dalemusser/teamhub/internal/app/store/activity"
	meetingstore "github.com/dalemusser/teamhub/internal/app/store/meetings"
	"github.com/dalemusser/teamhub/internal/app/system/authz"
	"github.com/dalemusser/teamhub/internal/app/system/paging"
	"github.com/dalemusser/teamhub/internal/app/system/respond"
	"github.com/dalemusser/teamhub/internal/app/system/timeouts"
	"github.com/dalemusser/teamhub/internal/app/system/uploads"
	"github.com/dalemusser/teamhub/internal/domain/models"
)

// uploadCategory is the subdirectory under the upload root.
const uploadCategory = "meetings"

// maxUploadMemory bounds the in-memory portion of multipart parsing.
const maxUploadMemory = 8 << 20

// Handler owns the meeting endpoints.
type Handler struct {
	Meetings *meetingstore.Store
	Files    *uploads.Store
	Feed     *activity.Store
	Log      *zap.Logger
}

// NewHandler creates a meetings Handler.
func NewHandler(meetings *meetingstore.Store, files *uploads.Store, feed *activity.Store, logger *zap.Logger) *Handler {
	return &Handler{Meetings: meetings, Files: files, Feed: feed, Log: logger}
}

func meetingID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "meetingID"))
	if err != nil {
		respond.BadRequest(w, "invalid meeting id")
		return primitive.NilObjectID, false
	}
	return oid, true
}

// ServeList handles GET /api/meetings?page&limit.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	page := paging.Parse(r)
	list, total, err := h.Meetings.List(ctx, page.Skip(), page.Limit64())
	if err != nil {
		h.Log.Error("meetings: list failed", zap.Error(err))
		respond.InternalError(w)
		return
	}

	respond.JSONWithMeta(w, http.StatusOK, list, &respond.Meta{
		Page:       page.Page,
		Limit:      page.Limit,
		Total:      total,
		TotalPages: page.TotalPages(total),
	})
}

// ServeView handles GET /api/meetings/{meetingID}.
func (h *Handler) ServeView(w http.ResponseWriter, r *http.Request) {
	id, ok := meetingID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	m, err := h.Meetings.GetByID(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		respond.NotFound(w, "meeting not found")
		return
	}
	if err != nil {
		h.Log.Error("meetings: load failed", zap.Error(err))
		respond.InternalError(w)
		return
	}
	respond.JSON(w, http.StatusOK, m)
}

// HandleCreate handles POST /api/meetings.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req meetingRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	_, name, uid, _ := authz.UserCtx(r)

	m, err := h.Meetings.Create(ctx, models.Meeting{
		Title:     req.Title,
		Agenda:    req.Agenda,
		Minutes:   req.Minutes,
		Date:      req.Date,
		CreatedBy: uid,
	})
	if err != nil {
		h.Log.Error("meetings: create failed", zap.Error(err))
		respond.InternalError(w)
		return
	}

	if h.Feed != nil {
		if err := h.Feed.Record(ctx, activity.EventMeetingLogged, uid, name, "logged meeting "+m.Title, nil); err != nil {
			h.Log.Warn("meetings: feed record failed", zap.Error(err))
		}
	}

	respond.Created(w, "meeting created", m)
}

// HandleUpdate handles PUT /api/meetings/{meetingID}.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := meetingID(w, r)
	if !ok {
		return
	}

	var req meetingRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	m, err := h.Meetings.Update(ctx, id, req.Title, req.Agenda, req.Minutes, req.Date)
	if errors.Is(err, mongo.ErrNoDocuments) {
		respond.NotFound(w, "meeting not found")
		return
	}
	if err != nil {
		h.Log.Error("meetings: update failed", zap.Error(err))
		respond.InternalError(w)
		return
	}
	respond.JSON(w, http.StatusOK, m)
}

// HandleUpload handles POST /api/meetings/{meetingID}/attachments.
// Multipart form, field name "files". Every file must be a PDF and the
// meeting's total may not exceed the attachment cap; nothing is stored
// unless the whole batch passes.
func (h *Handler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	id, ok := meetingID(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		respond.BadRequest(w, "request must be multipart form data")
		return
	}
	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		respond.BadRequest(w, "no files provided")
		return
	}
	if err := uploads.CheckPDFBatch(headers); err != nil {
		respond.BadRequest(w, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	stored := make([]models.StoredFile, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			h.Log.Error("meetings: open upload failed", zap.Error(err))
			respond.InternalError(w)
			return
		}
		sf, err := h.Files.Save(uploadCategory, f, fh)
		f.Close()
		if err != nil {
			h.Log.Error("meetings: save upload failed", zap.Error(err))
			respond.InternalError(w)
			return
		}
		stored = append(stored, sf)
	}

	m, err := h.Meetings.AddAttachments(ctx, id, stored, uploads.MaxMeetingAttachments)
	if err != nil {
		// roll back the files we just wrote
		for _, sf := range stored {
			if rmErr := h.Files.Remove(uploadCategory, sf.Name); rmErr != nil {
				h.Log.Warn("meetings: upload rollback failed",
					zap.String("file", sf.Name), zap.Error(rmErr))
			}
		}
		switch {
		case errors.Is(err, mongo.ErrNoDocuments):
			respond.NotFound(w, "meeting not found")
		case errors.Is(err, meetingstore.ErrAttachmentLimit):
			respond.BadRequest(w, err.Error())
		default:
			h.Log.Error("meetings: attach failed", zap.Error(err))
			respond.InternalError(w)
		}
		return
	}

	respond.JSON(w, http.StatusOK, m)
}

// HandleDelete handles DELETE /api/meetings/{meetingID}. Attachments
// on disk are removed as well.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := meetingID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	m, err := h.Meetings.GetByID(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		respond.NotFound(w, "meeting not found")
		return
	}
	if err != nil {
		h.Log.Error("meetings: load failed", zap.Error(err))
		respond.InternalError(w)
		return
	}

	if _, err := h.Meetings.Delete(ctx, id); err != nil {
		h.Log.Error("meetings: delete failed", zap.Error(err))
		respond.InternalError(w)
		return
	}

	for _, sf := range m.Attachments {
		if err := h.Files.Remove(uploadCategory, sf.Name); err != nil {
			h.Log.Warn("meetings: remove attachment failed",
				zap.String("file", sf.Name), zap.Error(err))
		}
	}

	respond.OK(w, "meeting deleted")
}

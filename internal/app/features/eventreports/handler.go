// internal/app/features/eventreports/handler.go

// Package eventreports implements event write-ups with one optional
// attachment per report.
package eventreports

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	eventreportstore "github.com/dalemusser/teamhub/internal/app/store/eventreports"
	"github.com/dalemusser/teamhub/internal/app/system/authz"
	"github.com/dalemusser/teamhub/internal/app/system/paging"
	"github.com/dalemusser/teamhub/internal/app/system/respond"
	"github.com/dalemusser/teamhub/internal/app/system/timeouts"
	"github.com/dalemusser/teamhub/internal/app/system/uploads"
	"github.com/dalemusser/teamhub/internal/domain/models"
)

const uploadCategory = "event-reports"

const maxUploadMemory = 8 << 20

// Handler owns the event-report endpoints.
type Handler struct {
	Reports *eventreportstore.Store
	Files   *uploads.Store
	Log     *zap.Logger
}

// NewHandler creates an eventreports Handler.
func NewHandler(reports *eventreportstore.Store, files *uploads.Store, logger *zap.Logger) *Handler {
	return &Handler{Reports: reports, Files: files, Log: logger}
}

func reportID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "reportID"))
	if err != nil {
		respond.BadRequest(w, "invalid report id")
		return primitive.NilObjectID, false
	}
	return oid, true
}

// ServeList handles GET /api/event-reports?page&limit.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	page := paging.Parse(r)
	list, total, err := h.Reports.List(ctx, page.Skip(), page.Limit64())
	if err != nil {
		h.Log.Error("eventreports: list failed", zap.Error(err))
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

// ServeView handles GET /api/event-reports/{reportID}.
func (h *Handler) ServeView(w http.ResponseWriter, r *http.Request) {
	id, ok := reportID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	rep, err := h.Reports.GetByID(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		respond.NotFound(w, "event report not found")
		return
	}
	if err != nil {
		h.Log.Error("eventreports: load failed", zap.Error(err))
		respond.InternalError(w)
		return
	}
	respond.JSON(w, http.StatusOK, rep)
}

// HandleCreate handles POST /api/event-reports.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req reportRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	_, _, uid, _ := authz.UserCtx(r)

	rep, err := h.Reports.Create(ctx, models.EventReport{
		Title:     req.Title,
		Summary:   req.Summary,
		EventDate: req.EventDate,
		CreatedBy: uid,
	})
	if err != nil {
		h.Log.Error("eventreports: create failed", zap.Error(err))
		respond.InternalError(w)
		return
	}
	respond.Created(w, "event report created", rep)
}

// HandleUpdate handles PUT /api/event-reports/{reportID}.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := reportID(w, r)
	if !ok {
		return
	}

	var req reportRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	rep, err := h.Reports.Update(ctx, id, req.Title, req.Summary, req.EventDate)
	if errors.Is(err, mongo.ErrNoDocuments) {
		respond.NotFound(w, "event report not found")
		return
	}
	if err != nil {
		h.Log.Error("eventreports: update failed", zap.Error(err))
		respond.InternalError(w)
		return
	}
	respond.JSON(w, http.StatusOK, rep)
}

// HandleUpload handles POST /api/event-reports/{reportID}/attachment.
// Multipart form, field name "file". Any document type, subject to the
// shared size cap. Replaces a previous attachment.
func (h *Handler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	id, ok := reportID(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		respond.BadRequest(w, "request must be multipart form data")
		return
	}
	f, fh, err := r.FormFile("file")
	if err != nil {
		respond.BadRequest(w, "no file provided")
		return
	}
	defer f.Close()

	if fh.Filename == "" {
		respond.BadRequest(w, uploads.ErrMissingFilename.Error())
		return
	}
	if fh.Size > uploads.MaxDocumentSize {
		respond.BadRequest(w, uploads.ErrTooLarge.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	sf, err := h.Files.Save(uploadCategory, f, fh)
	if err != nil {
		h.Log.Error("eventreports: save upload failed", zap.Error(err))
		respond.InternalError(w)
		return
	}

	prev, err := h.Reports.SetAttachment(ctx, id, sf)
	if err != nil {
		if rmErr := h.Files.Remove(uploadCategory, sf.Name); rmErr != nil {
			h.Log.Warn("eventreports: upload rollback failed", zap.Error(rmErr))
		}
		if errors.Is(err, mongo.ErrNoDocuments) {
			respond.NotFound(w, "event report not found")
			return
		}
		h.Log.Error("eventreports: attach failed", zap.Error(err))
		respond.InternalError(w)
		return
	}
	if prev != nil {
		if err := h.Files.Remove(uploadCategory, prev.Name); err != nil {
			h.Log.Warn("eventreports: remove old attachment failed",
				zap.String("file", prev.Name), zap.Error(err))
		}
	}

	respond.JSON(w, http.StatusOK, sf)
}

// HandleDelete handles DELETE /api/event-reports/{reportID}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := reportID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	rep, err := h.Reports.GetByID(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		respond.NotFound(w, "event report not found")
		return
	}
	if err != nil {
		h.Log.Error("eventreports: load failed", zap.Error(err))
		respond.InternalError(w)
		return
	}

	if _, err := h.Reports.Delete(ctx, id); err != nil {
		h.Log.Error("eventreports: delete failed", zap.Error(err))
		respond.InternalError(w)
		return
	}

	if rep.Attachment != nil {
		if err := h.Files.Remove(uploadCategory, rep.Attachment.Name); err != nil {
			h.Log.Warn("eventreports: remove attachment failed", zap.Error(err))
		}
	}

	respond.OK(w, "event report deleted")
}

// internal/app/features/papers/handler.go

// Package papers implements publication records. Each paper may carry
// one office-document attachment, capped at 10 MB; uploading a new one
// replaces the old file on disk.
package papers

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

	paperstore "github.com/dalemusser/teamhub/internal/app/store/papers"
	"github.com/dalemusser/teamhub/internal/app/system/authz"
	"github.com/dalemusser/teamhub/internal/app/system/paging"
	"github.com/dalemusser/teamhub/internal/app/system/respond"
	"github.com/dalemusser/teamhub/internal/app/system/timeouts"
	"github.com/dalemusser/teamhub/internal/app/system/uploads"
	"github.com/dalemusser/teamhub/internal/domain/models"
)

const uploadCategory = "papers"

const maxUploadMemory = 8 << 20

// Handler owns the paper endpoints.
type Handler struct {
	Papers *paperstore.Store
	Files  *uploads.Store
	Log    *zap.Logger
}

// NewHandler creates a papers Handler.
func NewHandler(papers *paperstore.Store, files *uploads.Store, logger *zap.Logger) *Handler {
	return &Handler{Papers: papers, Files: files, Log: logger}
}

func paperID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "paperID"))
	if err != nil {
		respond.BadRequest(w, "invalid paper id")
		return primitive.NilObjectID, false
	}
	return oid, true
}

// ServeList handles GET /api/papers?year&page&limit.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	year := 0
	if raw := query.Get(r, "year"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			respond.BadRequest(w, "year must be a number")
			return
		}
		year = n
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	page := paging.Parse(r)
	list, total, err := h.Papers.List(ctx, year, page.Skip(), page.Limit64())
	if err != nil {
		h.Log.Error("papers: list failed", zap.Error(err))
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

// ServeView handles GET /api/papers/{paperID}.
func (h *Handler) ServeView(w http.ResponseWriter, r *http.Request) {
	id, ok := paperID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	p, err := h.Papers.GetByID(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		respond.NotFound(w, "paper not found")
		return
	}
	if err != nil {
		h.Log.Error("papers: load failed", zap.Error(err))
		respond.InternalError(w)
		return
	}
	respond.JSON(w, http.StatusOK, p)
}

// HandleCreate handles POST /api/papers.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req paperRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	_, _, uid, _ := authz.UserCtx(r)

	p, err := h.Papers.Create(ctx, models.Paper{
		Title:     req.Title,
		Abstract:  req.Abstract,
		Authors:   req.Authors,
		Venue:     req.Venue,
		Year:      req.Year,
		CreatedBy: uid,
	})
	if err != nil {
		h.Log.Error("papers: create failed", zap.Error(err))
		respond.InternalError(w)
		return
	}
	respond.Created(w, "paper created", p)
}

// HandleUpdate handles PUT /api/papers/{paperID}.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := paperID(w, r)
	if !ok {
		return
	}

	var req paperRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	p, err := h.Papers.Update(ctx, id, req.Title, req.Abstract, req.Authors, req.Venue, req.Year)
	if errors.Is(err, mongo.ErrNoDocuments) {
		respond.NotFound(w, "paper not found")
		return
	}
	if err != nil {
		h.Log.Error("papers: update failed", zap.Error(err))
		respond.InternalError(w)
		return
	}
	respond.JSON(w, http.StatusOK, p)
}

// HandleUpload handles POST /api/papers/{paperID}/attachment.
// Multipart form, field name "file". PDF or Word document, 10 MB cap.
// Replaces any previous attachment.
func (h *Handler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	id, ok := paperID(w, r)
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

	if err := uploads.CheckOfficeDoc(fh); err != nil {
		respond.BadRequest(w, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	sf, err := h.Files.Save(uploadCategory, f, fh)
	if err != nil {
		h.Log.Error("papers: save upload failed", zap.Error(err))
		respond.InternalError(w)
		return
	}

	prev, err := h.Papers.SetAttachment(ctx, id, sf)
	if err != nil {
		if rmErr := h.Files.Remove(uploadCategory, sf.Name); rmErr != nil {
			h.Log.Warn("papers: upload rollback failed", zap.Error(rmErr))
		}
		if errors.Is(err, mongo.ErrNoDocuments) {
			respond.NotFound(w, "paper not found")
			return
		}
		h.Log.Error("papers: attach failed", zap.Error(err))
		respond.InternalError(w)
		return
	}
	if prev != nil {
		if err := h.Files.Remove(uploadCategory, prev.Name); err != nil {
			h.Log.Warn("papers: remove old attachment failed",
				zap.String("file", prev.Name), zap.Error(err))
		}
	}

	respond.JSON(w, http.StatusOK, sf)
}

// HandleDelete handles DELETE /api/papers/{paperID}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := paperID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	p, err := h.Papers.GetByID(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		respond.NotFound(w, "paper not found")
		return
	}
	if err != nil {
		h.Log.Error("papers: load failed", zap.Error(err))
		respond.InternalError(w)
		return
	}

	if _, err := h.Papers.Delete(ctx, id); err != nil {
		h.Log.Error("papers: delete failed", zap.Error(err))
		respond.InternalError(w)
		return
	}

	if p.Attachment != nil {
		if err := h.Files.Remove(uploadCategory, p.Attachment.Name); err != nil {
			h.Log.Warn("papers: remove attachment failed", zap.Error(err))
		}
	}

	respond.OK(w, "paper deleted")
}

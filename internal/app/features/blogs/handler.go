// internal/app/features/blogs/handler.go

// Package blogs implements published posts: CRUD with sanitized HTML
// content and a tag-filtered paged list.
package blogs

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/dalemusser/teamhub/internal/app/store/activity"
	blogstore "github.com/dalemusser/teamhub/internal/app/store/blogs"
	"github.com/dalemusser/teamhub/internal/app/system/authz"
	"github.com/dalemusser/teamhub/internal/app/system/paging"
	"github.com/dalemusser/teamhub/internal/app/system/respond"
	"github.com/dalemusser/teamhub/internal/app/system/timeouts"
	"github.com/dalemusser/teamhub/internal/domain/models"
)

// Handler owns the blog endpoints.
type Handler struct {
	Blogs *blogstore.Store
	Feed  *activity.Store
	Log   *zap.Logger
}

// NewHandler creates a blogs Handler.
func NewHandler(blogs *blogstore.Store, feed *activity.Store, logger *zap.Logger) *Handler {
	return &Handler{Blogs: blogs, Feed: feed, Log: logger}
}

func blogID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "blogID"))
	if err != nil {
		respond.BadRequest(w, "invalid blog id")
		return primitive.NilObjectID, false
	}
	return oid, true
}

// canEdit reports whether the caller may modify the post: the author,
// or an admin or SPOC.
func canEdit(r *http.Request, b *models.Blog) bool {
	_, _, uid, _ := authz.UserCtx(r)
	return uid == b.AuthorID || authz.HasAnyRole(r, models.RoleAdmin, models.RoleSPOC)
}

// ServeList handles GET /api/blogs?tag&page&limit.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	page := paging.Parse(r)
	list, total, err := h.Blogs.List(ctx, query.Get(r, "tag"), page.Skip(), page.Limit64())
	if err != nil {
		h.Log.Error("blogs: list failed", zap.Error(err))
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

// ServeView handles GET /api/blogs/{blogID}.
func (h *Handler) ServeView(w http.ResponseWriter, r *http.Request) {
	id, ok := blogID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	b, err := h.Blogs.GetByID(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		respond.NotFound(w, "blog not found")
		return
	}
	if err != nil {
		h.Log.Error("blogs: load failed", zap.Error(err))
		respond.InternalError(w)
		return
	}
	respond.JSON(w, http.StatusOK, b)
}

// HandleCreate handles POST /api/blogs.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req blogRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	_, name, uid, _ := authz.UserCtx(r)

	b, err := h.Blogs.Create(ctx, models.Blog{
		Title:      req.Title,
		Content:    req.Content,
		Tags:       req.Tags,
		CoverURL:   req.CoverURL,
		AuthorID:   uid,
		AuthorName: name,
	})
	if err != nil {
		h.Log.Error("blogs: create failed", zap.Error(err))
		respond.InternalError(w)
		return
	}

	if h.Feed != nil {
		if err := h.Feed.Record(ctx, activity.EventBlogPublished, uid, name, "published "+b.Title, nil); err != nil {
			h.Log.Warn("blogs: feed record failed", zap.Error(err))
		}
	}

	respond.Created(w, "blog published", b)
}

// HandleUpdate handles PUT /api/blogs/{blogID}.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := blogID(w, r)
	if !ok {
		return
	}

	var req blogRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	b, err := h.Blogs.GetByID(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		respond.NotFound(w, "blog not found")
		return
	}
	if err != nil {
		h.Log.Error("blogs: load failed", zap.Error(err))
		respond.InternalError(w)
		return
	}
	if !canEdit(r, b) {
		respond.Forbidden(w, "you cannot edit this blog")
		return
	}

	updated, err := h.Blogs.Update(ctx, id, req.Title, req.Content, req.Tags, req.CoverURL)
	if err != nil {
		h.Log.Error("blogs: update failed", zap.Error(err))
		respond.InternalError(w)
		return
	}
	respond.JSON(w, http.StatusOK, updated)
}

// HandleDelete handles DELETE /api/blogs/{blogID}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := blogID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	b, err := h.Blogs.GetByID(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		respond.NotFound(w, "blog not found")
		return
	}
	if err != nil {
		h.Log.Error("blogs: load failed", zap.Error(err))
		respond.InternalError(w)
		return
	}
	if !canEdit(r, b) {
		respond.Forbidden(w, "you cannot delete this blog")
		return
	}

	if _, err := h.Blogs.Delete(ctx, id); err != nil {
		h.Log.Error("blogs: delete failed", zap.Error(err))
		respond.InternalError(w)
		return
	}
	respond.OK(w, "blog deleted")
}

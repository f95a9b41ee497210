// internal/app/features/projects/handler.go

// Package projects implements the project board endpoints: the
// access-scoped list with statistics, CRUD on single projects, the
// archive flow, comments, and the team-member picker.
package projects

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/dalemusser/teamhub/internal/app/policy/projectpolicy"
	"github.com/dalemusser/teamhub/internal/app/store/activity"
	projectstore "github.com/dalemusser/teamhub/internal/app/store/projects"
	userstore "github.com/dalemusser/teamhub/internal/app/store/users"
	"github.com/dalemusser/teamhub/internal/app/system/auditlog"
	"github.com/dalemusser/teamhub/internal/app/system/authz"
	"github.com/dalemusser/teamhub/internal/app/system/paging"
	"github.com/dalemusser/teamhub/internal/app/system/respond"
	"github.com/dalemusser/teamhub/internal/app/system/timeouts"
	"github.com/dalemusser/teamhub/internal/domain/models"
)

// Handler owns the project endpoints.
type Handler struct {
	Projects *projectstore.Store
	Users    *userstore.Store
	Feed     *activity.Store
	Audit    *auditlog.Logger
	Log      *zap.Logger
}

// NewHandler creates a projects Handler.
func NewHandler(projects *projectstore.Store, users *userstore.Store, feed *activity.Store, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Projects: projects,
		Users:    users,
		Feed:     feed,
		Audit:    audit,
		Log:      logger,
	}
}

// projectID pulls the {projectID} URL parameter. Writes the 400 itself
// on a malformed ID.
func projectID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "projectID"))
	if err != nil {
		respond.BadRequest(w, "invalid project id")
		return primitive.NilObjectID, false
	}
	return oid, true
}

// loadWithAccess loads the project and evaluates the caller's access
// level. Error responses (404/500) are written here.
func (h *Handler) loadWithAccess(ctx context.Context, w http.ResponseWriter, r *http.Request, id primitive.ObjectID) (*models.Project, projectpolicy.AccessLevel, bool) {
	role, _, uid, _ := authz.UserCtx(r)

	p, err := h.Projects.GetByID(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		respond.NotFound(w, "project not found")
		return nil, projectpolicy.LevelNone, false
	}
	if err != nil {
		h.Log.Error("projects: load failed", zap.Error(err))
		respond.InternalError(w)
		return nil, projectpolicy.LevelNone, false
	}
	return p, projectpolicy.Evaluate(uid, role, p), true
}

// recordFeed best-effort appends to the org-wide activity feed.
func (h *Handler) recordFeed(ctx context.Context, eventType string, userID primitive.ObjectID, userName, description string, projectID primitive.ObjectID) {
	if h.Feed == nil {
		return
	}
	if err := h.Feed.Record(ctx, eventType, userID, userName, description, &projectID); err != nil {
		h.Log.Warn("projects: feed record failed", zap.Error(err))
	}
}

// ServeList handles GET /api/projects.
//
// Query params: status, priority, assignee, search, page, limit,
// sortBy, sortOrder. The response carries the page of projects, the
// caller's statistics, and pagination metadata.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	role, _, uid, _ := authz.UserCtx(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	now := time.Now().UTC()
	filter := projectpolicy.BuildListFilter(uid, role, projectpolicy.ListQuery{
		Status:   query.Get(r, "status"),
		Priority: query.Get(r, "priority"),
		Assignee: query.Get(r, "assignee"),
		Search:   query.Get(r, "search"),

		IncludeArchived: query.Get(r, "includeArchived") == "true",
	}, now)
	sort := projectpolicy.Sort(query.Get(r, "sortBy"), query.Get(r, "sortOrder"))
	page := paging.Parse(r)

	list, total, err := h.Projects.List(ctx, filter, sort, page.Skip(), page.Limit64())
	if err != nil {
		h.Log.Error("projects: list failed", zap.Error(err))
		respond.InternalError(w)
		return
	}

	stats, err := h.Projects.GetStatistics(ctx, uid, role, now)
	if err != nil {
		h.Log.Error("projects: statistics failed", zap.Error(err))
		respond.InternalError(w)
		return
	}

	payload := listPayload{
		Projects:   make([]projectPayload, 0, len(list)),
		Statistics: stats,
	}
	for _, p := range list {
		payload.Projects = append(payload.Projects, toProjectPayload(p, now))
	}

	respond.JSONWithMeta(w, http.StatusOK, payload, &respond.Meta{
		Page:       page.Page,
		Limit:      page.Limit,
		Total:      total,
		TotalPages: page.TotalPages(total),
	})
}

// HandleCreate handles POST /api/projects. Requires an admin or SPOC
// global role.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	role, name, uid, _ := authz.UserCtx(r)
	if !projectpolicy.CanCreate(role) {
		respond.Forbidden(w, "only admins and SPOCs can create projects")
		return
	}

	var req createProjectRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	p := models.Project{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		Assignees:   toAssignees(req.Assignees),
		StartDate:   req.StartDate,
		DueDate:     req.DueDate,
		Progress:    req.Progress,
		Milestones:  toMilestones(req.Milestones),
		Risks:       toRisks(req.Risks),
		Tags:        req.Tags,
		CreatedBy:   uid,
	}
	if p.Status == "" {
		p.Status = models.StatusTodo
	}
	if p.Priority == "" {
		p.Priority = models.PriorityMedium
	}

	created, err := h.Projects.Create(ctx, p, name)
	if errors.Is(err, models.ErrDueBeforeStart) {
		respond.BadRequest(w, err.Error())
		return
	}
	if err != nil {
		h.Log.Error("projects: create failed", zap.Error(err))
		respond.InternalError(w)
		return
	}

	h.recordFeed(ctx, activity.EventProjectCreated, uid, name, "created project "+created.Title, created.ID)

	respond.Created(w, "project created", toProjectPayload(created, time.Now().UTC()))
}

// ServeView handles GET /api/projects/{projectID}.
func (h *Handler) ServeView(w http.ResponseWriter, r *http.Request) {
	id, ok := projectID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	p, level, ok := h.loadWithAccess(ctx, w, r, id)
	if !ok {
		return
	}
	if !projectpolicy.CanRead(level) {
		respond.Forbidden(w, "you do not have access to this project")
		return
	}
	respond.JSON(w, http.StatusOK, toProjectPayload(*p, time.Now().UTC()))
}

// HandleUpdate handles PUT /api/projects/{projectID}. Requires an
// admin or moderator access level.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := projectID(w, r)
	if !ok {
		return
	}

	var req updateProjectRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	p, level, ok := h.loadWithAccess(ctx, w, r, id)
	if !ok {
		return
	}
	if !projectpolicy.CanUpdate(level) {
		respond.Forbidden(w, "you cannot edit this project")
		return
	}

	_, name, uid, _ := authz.UserCtx(r)
	prevStatus := p.Status

	if req.Title != nil {
		p.Title = *req.Title
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.Status != nil {
		p.Status = *req.Status
	}
	if req.Priority != nil {
		p.Priority = *req.Priority
	}
	if req.Assignees != nil {
		p.Assignees = toAssignees(*req.Assignees)
	}
	if req.StartDate != nil {
		p.StartDate = *req.StartDate
	}
	if req.DueDate != nil {
		p.DueDate = *req.DueDate
	}
	if req.Progress != nil {
		p.Progress = *req.Progress
	}
	if req.Milestones != nil {
		p.Milestones = toMilestones(*req.Milestones)
	}
	if req.Risks != nil {
		p.Risks = toRisks(*req.Risks)
	}
	if req.Tags != nil {
		p.Tags = *req.Tags
	}

	if p.Status != prevStatus {
		p.AddActivity("status_change", uid, name,
			"moved the project from "+prevStatus+" to "+p.Status,
			map[string]string{"from": prevStatus, "to": p.Status})
	} else {
		p.AddActivity("updated", uid, name, "updated the project", nil)
	}

	if err := h.Projects.Save(ctx, p); err != nil {
		if errors.Is(err, models.ErrDueBeforeStart) {
			respond.BadRequest(w, err.Error())
			return
		}
		h.Log.Error("projects: update failed", zap.Error(err))
		respond.InternalError(w)
		return
	}

	h.recordFeed(ctx, activity.EventProjectUpdated, uid, name, "updated project "+p.Title, p.ID)

	respond.JSON(w, http.StatusOK, toProjectPayload(*p, time.Now().UTC()))
}

// HandleDelete handles DELETE /api/projects/{projectID}. Hard delete,
// admin global role only; the archive endpoint is the soft path.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	role, _, uid, _ := authz.UserCtx(r)
	if !projectpolicy.CanDelete(role) {
		respond.Forbidden(w, "only admins can delete projects")
		return
	}

	id, ok := projectID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	p, err := h.Projects.GetByID(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		respond.NotFound(w, "project not found")
		return
	}
	if err != nil {
		h.Log.Error("projects: load failed", zap.Error(err))
		respond.InternalError(w)
		return
	}

	if _, err := h.Projects.Delete(ctx, id); err != nil {
		h.Log.Error("projects: delete failed", zap.Error(err))
		respond.InternalError(w)
		return
	}

	h.Audit.ProjectDeleted(ctx, r, uid, id, p.Title)

	respond.OK(w, "project deleted")
}

// HandleArchive handles POST /api/projects/{projectID}/archive.
func (h *Handler) HandleArchive(w http.ResponseWriter, r *http.Request) {
	id, ok := projectID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	p, level, ok := h.loadWithAccess(ctx, w, r, id)
	if !ok {
		return
	}
	if !projectpolicy.CanUpdate(level) {
		respond.Forbidden(w, "you cannot archive this project")
		return
	}
	if p.IsArchived {
		respond.Conflict(w, "project is already archived")
		return
	}

	_, name, uid, _ := authz.UserCtx(r)
	p.Archive(time.Now())
	p.AddActivity("archived", uid, name, "archived the project", nil)

	if err := h.Projects.Save(ctx, p); err != nil {
		h.Log.Error("projects: archive failed", zap.Error(err))
		respond.InternalError(w)
		return
	}

	h.recordFeed(ctx, activity.EventProjectArchived, uid, name, "archived project "+p.Title, p.ID)

	respond.OK(w, "project archived")
}

// HandleAddComment handles POST /api/projects/{projectID}/comments.
func (h *Handler) HandleAddComment(w http.ResponseWriter, r *http.Request) {
	id, ok := projectID(w, r)
	if !ok {
		return
	}

	var req commentRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	p, level, ok := h.loadWithAccess(ctx, w, r, id)
	if !ok {
		return
	}
	if !projectpolicy.CanComment(level) {
		respond.Forbidden(w, "you cannot comment on this project")
		return
	}

	_, name, uid, _ := authz.UserCtx(r)
	comment, err := h.Projects.AddComment(ctx, p.ID, uid, name, req.Message)
	if err != nil {
		h.Log.Error("projects: comment failed", zap.Error(err))
		respond.InternalError(w)
		return
	}

	h.recordFeed(ctx, activity.EventCommentAdded, uid, name, "commented on "+p.Title, p.ID)

	respond.Created(w, "comment added", comment)
}

// ServeRecentActivity handles GET /api/projects/activity: the
// org-wide feed for dashboards, newest first.
func (h *Handler) ServeRecentActivity(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	page := paging.Parse(r)
	events, err := h.Feed.ListRecent(ctx, page.Limit64())
	if err != nil {
		h.Log.Error("projects: activity feed failed", zap.Error(err))
		respond.InternalError(w)
		return
	}
	respond.JSON(w, http.StatusOK, events)
}

// ServeProjectActivity handles GET /api/projects/{projectID}/activity:
// feed entries recorded against one project. Embedded activities on
// the project document cap at fifty; this is the uncapped history.
func (h *Handler) ServeProjectActivity(w http.ResponseWriter, r *http.Request) {
	id, ok := projectID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	p, level, ok := h.loadWithAccess(ctx, w, r, id)
	if !ok {
		return
	}
	if !projectpolicy.CanRead(level) {
		respond.Forbidden(w, "you do not have access to this project")
		return
	}

	page := paging.Parse(r)
	events, err := h.Feed.ListByProject(ctx, p.ID, page.Limit64())
	if err != nil {
		h.Log.Error("projects: project activity failed", zap.Error(err))
		respond.InternalError(w)
		return
	}
	respond.JSON(w, http.StatusOK, events)
}

// ServeTeamMembers handles GET /api/projects/team-members: the user
// directory for assignment pickers, optionally filtered by role.
func (h *Handler) ServeTeamMembers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	users, err := h.Users.ListTeamMembers(ctx, query.Get(r, "role"))
	if err != nil {
		h.Log.Error("projects: team-members failed", zap.Error(err))
		respond.InternalError(w)
		return
	}

	members := make([]teamMemberPayload, 0, len(users))
	for _, u := range users {
		members = append(members, teamMemberPayload{
			ID:       u.ID.Hex(),
			Name:     u.DisplayName,
			Email:    u.Email,
			PhotoURL: u.PhotoURL,
			Role:     u.Role,
		})
	}
	respond.JSON(w, http.StatusOK, members)
}

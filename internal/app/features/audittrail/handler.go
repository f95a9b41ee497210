// internal/app/features/audittrail/handler.go

// Package audittrail exposes the audit log to administrators:
// who signed in, who failed to, and what the directory admins changed.
package audittrail

import (
	"context"
	"net/http"
	"time"

	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/dalemusser/teamhub/internal/app/store/audit"
	"github.com/dalemusser/teamhub/internal/app/system/paging"
	"github.com/dalemusser/teamhub/internal/app/system/respond"
	"github.com/dalemusser/teamhub/internal/app/system/timeouts"
)

// Handler owns the audit-trail endpoints.
type Handler struct {
	Audit *audit.Store
	Log   *zap.Logger
}

// NewHandler creates an audittrail Handler.
func NewHandler(store *audit.Store, logger *zap.Logger) *Handler {
	return &Handler{Audit: store, Log: logger}
}

type eventPayload struct {
	ID            string            `json:"id"`
	CreatedAt     time.Time         `json:"createdAt"`
	Category      string            `json:"category"`
	EventType     string            `json:"eventType"`
	UserID        string            `json:"userId,omitempty"`
	ActorID       string            `json:"actorId,omitempty"`
	Email         string            `json:"email,omitempty"`
	IP            string            `json:"ip,omitempty"`
	Success       bool              `json:"success"`
	FailureReason string            `json:"failureReason,omitempty"`
	Details       map[string]string `json:"details,omitempty"`
}

func toEventPayload(e audit.Event) eventPayload {
	p := eventPayload{
		ID:            e.ID.Hex(),
		CreatedAt:     e.CreatedAt,
		Category:      e.Category,
		EventType:     e.EventType,
		Email:         e.Email,
		IP:            e.IP,
		Success:       e.Success,
		FailureReason: e.FailureReason,
		Details:       e.Details,
	}
	if e.UserID != nil {
		p.UserID = e.UserID.Hex()
	}
	if e.ActorID != nil {
		p.ActorID = e.ActorID.Hex()
	}
	return p
}

// ServeList handles GET /api/audit. Filters: category, eventType,
// userId, from, to (RFC 3339 dates), plus page/limit.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	filter := audit.QueryFilter{
		Category:  query.Get(r, "category"),
		EventType: query.Get(r, "eventType"),
	}

	if raw := query.Get(r, "userId"); raw != "" {
		oid, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			respond.BadRequest(w, "invalid user id")
			return
		}
		filter.UserID = &oid
	}
	if raw := query.Get(r, "from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			respond.BadRequest(w, "from must be an RFC 3339 timestamp")
			return
		}
		filter.StartTime = &t
	}
	if raw := query.Get(r, "to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			respond.BadRequest(w, "to must be an RFC 3339 timestamp")
			return
		}
		filter.EndTime = &t
	}

	page := paging.Parse(r)
	filter.Limit = page.Limit64()
	filter.Offset = page.Skip()

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	events, err := h.Audit.Query(ctx, filter)
	if err != nil {
		h.Log.Error("audittrail: query failed", zap.Error(err))
		respond.InternalError(w)
		return
	}
	total, err := h.Audit.CountByFilter(ctx, filter)
	if err != nil {
		h.Log.Error("audittrail: count failed", zap.Error(err))
		respond.InternalError(w)
		return
	}

	payload := make([]eventPayload, 0, len(events))
	for _, e := range events {
		payload = append(payload, toEventPayload(e))
	}

	respond.JSONWithMeta(w, http.StatusOK, payload, &respond.Meta{
		Page:       page.Page,
		Limit:      page.Limit,
		Total:      total,
		TotalPages: page.TotalPages(total),
	})
}

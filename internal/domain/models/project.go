// internal/domain/models/project.go
package models

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Kanban statuses a project moves through.
const (
	StatusTodo       = "To Do"
	StatusInProgress = "In Progress"
	StatusReview     = "Review"
	StatusDone       = "Done"
)

// Priorities.
const (
	PriorityLow    = "Low"
	PriorityMedium = "Medium"
	PriorityHigh   = "High"
)

// Health classifications derived from status, dates, and progress.
const (
	HealthCompleted      = "completed"
	HealthOnTrack        = "on_track"
	HealthNeedsAttention = "needs_attention"
	HealthAtRisk         = "at_risk"
)

// MaxActivities caps the embedded activity log. Oldest entries are
// dropped once the cap is reached; the log is newest-first.
const MaxActivities = 50

// ErrDueBeforeStart is returned by Validate when the due date does not
// fall after the start date.
var ErrDueBeforeStart = errors.New("due date must be after start date")

// Assignee is a denormalized snapshot of a user on a project. The
// snapshot is taken at assignment time and is not kept in sync with the
// users collection.
type Assignee struct {
	UserID primitive.ObjectID `bson:"user_id" json:"userId"`
	Name   string             `bson:"name" json:"name"`
	Email  string             `bson:"email" json:"email"`
	Avatar string             `bson:"avatar,omitempty" json:"avatar,omitempty"`
	Color  string             `bson:"color,omitempty" json:"color,omitempty"`
}

// Milestone is an embedded checkpoint within a project.
type Milestone struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title     string             `bson:"title" json:"title"`
	DueDate   time.Time          `bson:"due_date" json:"dueDate"`
	Completed bool               `bson:"completed" json:"completed"`
}

// Comment is an embedded discussion entry, newest first.
type Comment struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"user_id" json:"userId"`
	UserName  string             `bson:"user_name" json:"userName"`
	Message   string             `bson:"message" json:"message"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
}

// Activity is an embedded append-only log entry, newest first, capped
// at MaxActivities.
type Activity struct {
	Type        string             `bson:"type" json:"type"`
	UserID      primitive.ObjectID `bson:"user_id" json:"userId"`
	UserName    string             `bson:"user_name" json:"userName"`
	Description string             `bson:"description" json:"description"`
	Timestamp   time.Time          `bson:"timestamp" json:"timestamp"`
	Metadata    map[string]string  `bson:"metadata,omitempty" json:"metadata,omitempty"`
}

// Risk is an embedded risk note.
type Risk struct {
	Description string `bson:"description" json:"description"`
	Severity    string `bson:"severity" json:"severity"` // Low | Medium | High
	Mitigation  string `bson:"mitigation,omitempty" json:"mitigation,omitempty"`
}

// Project is the task/work item aggregate.
type Project struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Status      string             `bson:"status" json:"status"`
	Priority    string             `bson:"priority" json:"priority"`
	Assignees   []Assignee         `bson:"assignees" json:"assignees"`
	StartDate   time.Time          `bson:"start_date" json:"startDate"`
	DueDate     time.Time          `bson:"due_date" json:"dueDate"`
	Progress    int                `bson:"progress" json:"progress"` // 0-100
	CreatedBy   primitive.ObjectID `bson:"created_by" json:"createdBy"`

	Milestones []Milestone `bson:"milestones,omitempty" json:"milestones,omitempty"`
	Comments   []Comment   `bson:"comments,omitempty" json:"comments,omitempty"`
	Activities []Activity  `bson:"activities,omitempty" json:"activities,omitempty"`
	Risks      []Risk      `bson:"risks,omitempty" json:"risks,omitempty"`
	Tags       []string    `bson:"tags,omitempty" json:"tags,omitempty"`

	IsArchived bool       `bson:"is_archived" json:"isArchived"`
	ArchivedAt *time.Time `bson:"archived_at,omitempty" json:"archivedAt,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// ValidStatus reports whether s is a known kanban status.
func ValidStatus(s string) bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusReview, StatusDone:
		return true
	}
	return false
}

// ValidPriority reports whether s is a known priority.
func ValidPriority(s string) bool {
	switch s {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// ProgressFloor returns the minimum progress implied by a status.
func ProgressFloor(status string) int {
	switch status {
	case StatusInProgress:
		return 25
	case StatusReview:
		return 75
	case StatusDone:
		return 100
	default:
		return 0
	}
}

// Validate checks field-level invariants that do not depend on other
// documents. It is called by the store before insert and update.
func (p *Project) Validate() error {
	if !ValidStatus(p.Status) {
		return errors.New("invalid status")
	}
	if !ValidPriority(p.Priority) {
		return errors.New("invalid priority")
	}
	if !p.DueDate.After(p.StartDate) {
		return ErrDueBeforeStart
	}
	return nil
}

// NormalizeProgress clamps progress into [0,100] and raises it to the
// floor implied by the current status. Done always pins to 100. This is
// applied on every save, so a status transition can only move progress
// up to the new floor, never below it.
func (p *Project) NormalizeProgress() {
	if p.Progress < 0 {
		p.Progress = 0
	}
	if p.Progress > 100 {
		p.Progress = 100
	}
	if p.Status == StatusDone {
		p.Progress = 100
		return
	}
	if floor := ProgressFloor(p.Status); p.Progress < floor {
		p.Progress = floor
	}
}

// AddActivity prepends an entry to the embedded activity log and trims
// the log to MaxActivities. Insertion order is the only ordering
// guarantee (newest first by construction).
func (p *Project) AddActivity(actType string, userID primitive.ObjectID, userName, description string, metadata map[string]string) {
	entry := Activity{
		Type:        actType,
		UserID:      userID,
		UserName:    userName,
		Description: description,
		Timestamp:   time.Now().UTC(),
		Metadata:    metadata,
	}
	p.Activities = append([]Activity{entry}, p.Activities...)
	if len(p.Activities) > MaxActivities {
		p.Activities = p.Activities[:MaxActivities]
	}
}

// AddComment prepends a comment and records a matching activity entry.
// The returned comment carries its generated ID and timestamp.
func (p *Project) AddComment(userID primitive.ObjectID, userName, message string) Comment {
	c := Comment{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		UserName:  userName,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}
	p.Comments = append([]Comment{c}, p.Comments...)

	excerpt := message
	if r := []rune(excerpt); len(r) > 50 {
		excerpt = string(r[:50]) + "…"
	}
	p.AddActivity("comment", userID, userName, "added a comment: "+excerpt, nil)
	return c
}

// Archive soft-deletes the project, stamping ArchivedAt on the
// false→true transition. Archiving and the DELETE endpoint's hard
// delete are deliberately distinct operations.
func (p *Project) Archive(now time.Time) {
	if !p.IsArchived {
		p.IsArchived = true
		t := now.UTC()
		p.ArchivedAt = &t
	}
}

// IsOverdue reports whether the project is past due and not done.
func (p *Project) IsOverdue(now time.Time) bool {
	return p.Status != StatusDone && p.DueDate.Before(now)
}

// Health classifies the project by comparing actual progress against a
// linear time-based expectation:
//
//	completed        status is Done
//	at_risk          overdue, or more than 20 points under expected
//	needs_attention  within 20 points under expected
//	on_track         at or above expected
func (p *Project) Health(now time.Time) string {
	if p.Status == StatusDone {
		return HealthCompleted
	}
	if p.IsOverdue(now) {
		return HealthAtRisk
	}

	total := p.DueDate.Sub(p.StartDate)
	if total <= 0 {
		return HealthOnTrack
	}
	elapsed := now.Sub(p.StartDate)
	if elapsed < 0 {
		elapsed = 0
	}
	expected := int(float64(elapsed) / float64(total) * 100)
	if expected > 100 {
		expected = 100
	}

	switch gap := expected - p.Progress; {
	case gap <= 0:
		return HealthOnTrack
	case gap <= 20:
		return HealthNeedsAttention
	default:
		return HealthAtRisk
	}
}

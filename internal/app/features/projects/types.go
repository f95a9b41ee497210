// internal/app/features/projects/types.go
package projects

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	projectstore "github.com/dalemusser/teamhub/internal/app/store/projects"
	"github.com/dalemusser/teamhub/internal/domain/models"
)

type assigneePayload struct {
	UserID string `json:"userId" validate:"required,len=24,hexadecimal"`
	Name   string `json:"name" validate:"required"`
	Email  string `json:"email" validate:"required,email"`
	Avatar string `json:"avatar" validate:"omitempty,url"`
	Color  string `json:"color"`
}

type milestonePayload struct {
	Title     string    `json:"title" validate:"required"`
	DueDate   time.Time `json:"dueDate" validate:"required"`
	Completed bool      `json:"completed"`
}

type riskPayload struct {
	Description string `json:"description" validate:"required"`
	Severity    string `json:"severity" validate:"required,oneof=Low Medium High"`
	Mitigation  string `json:"mitigation"`
}

type createProjectRequest struct {
	Title       string            `json:"title" validate:"required,min=3,max=200"`
	Description string            `json:"description" validate:"max=5000"`
	Status      string            `json:"status" validate:"omitempty,oneof='To Do' 'In Progress' Review Done"`
	Priority    string            `json:"priority" validate:"omitempty,oneof=Low Medium High"`
	Assignees   []assigneePayload `json:"assignees" validate:"dive"`
	StartDate   time.Time         `json:"startDate" validate:"required"`
	DueDate     time.Time         `json:"dueDate" validate:"required"`
	Progress    int               `json:"progress" validate:"gte=0,lte=100"`
	Milestones  []milestonePayload `json:"milestones" validate:"dive"`
	Risks       []riskPayload     `json:"risks" validate:"dive"`
	Tags        []string          `json:"tags"`
}

// updateProjectRequest uses pointers so absent fields are left alone.
type updateProjectRequest struct {
	Title       *string            `json:"title" validate:"omitempty,min=3,max=200"`
	Description *string            `json:"description" validate:"omitempty,max=5000"`
	Status      *string            `json:"status" validate:"omitempty,oneof='To Do' 'In Progress' Review Done"`
	Priority    *string            `json:"priority" validate:"omitempty,oneof=Low Medium High"`
	Assignees   *[]assigneePayload `json:"assignees" validate:"omitempty,dive"`
	StartDate   *time.Time         `json:"startDate"`
	DueDate     *time.Time         `json:"dueDate"`
	Progress    *int               `json:"progress" validate:"omitempty,gte=0,lte=100"`
	Milestones  *[]milestonePayload `json:"milestones" validate:"omitempty,dive"`
	Risks       *[]riskPayload     `json:"risks" validate:"omitempty,dive"`
	Tags        *[]string          `json:"tags"`
}

type commentRequest struct {
	Message string `json:"message" validate:"required,min=1,max=2000"`
}

// projectPayload is a project plus its derived health classification.
type projectPayload struct {
	models.Project
	Health string `json:"health"`
}

type listPayload struct {
	Projects   []projectPayload       `json:"projects"`
	Statistics projectstore.Statistics `json:"statistics"`
}

type teamMemberPayload struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	PhotoURL string `json:"photoURL,omitempty"`
	Role     string `json:"role"`
}

func toAssignees(in []assigneePayload) []models.Assignee {
	out := make([]models.Assignee, 0, len(in))
	for _, a := range in {
		// validated as 24-char hex already
		oid, err := primitive.ObjectIDFromHex(a.UserID)
		if err != nil {
			continue
		}
		out = append(out, models.Assignee{
			UserID: oid,
			Name:   a.Name,
			Email:  a.Email,
			Avatar: a.Avatar,
			Color:  a.Color,
		})
	}
	return out
}

func toMilestones(in []milestonePayload) []models.Milestone {
	out := make([]models.Milestone, 0, len(in))
	for _, m := range in {
		out = append(out, models.Milestone{
			ID:        primitive.NewObjectID(),
			Title:     m.Title,
			DueDate:   m.DueDate,
			Completed: m.Completed,
		})
	}
	return out
}

func toRisks(in []riskPayload) []models.Risk {
	out := make([]models.Risk, 0, len(in))
	for _, r := range in {
		out = append(out, models.Risk{
			Description: r.Description,
			Severity:    r.Severity,
			Mitigation:  r.Mitigation,
		})
	}
	return out
}

func toProjectPayload(p models.Project, now time.Time) projectPayload {
	return projectPayload{Project: p, Health: p.Health(now)}
}

// internal/app/features/students/types.go
package students

import (
	"time"

	"github.com/dalemusser/teamhub/internal/domain/models"
)

type createEntryRequest struct {
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role" validate:"required,oneof=admin spoc member"`
	Batch int    `json:"batch" validate:"omitempty,gte=2000,lte=2100"`
}

type updateEntryRequest struct {
	Role  string `json:"role" validate:"required,oneof=admin spoc member"`
	Batch int    `json:"batch" validate:"omitempty,gte=2000,lte=2100"`
}

type entryPayload struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	Batch      int       `json:"batch,omitempty"`
	AssignedBy string    `json:"assignedBy,omitempty"`
	AssignedAt time.Time `json:"assignedAt"`
}

func toEntryPayload(e models.Role) entryPayload {
	return entryPayload{
		ID:         e.ID.Hex(),
		Email:      e.Email,
		Role:       e.Role,
		Batch:      e.Batch,
		AssignedBy: e.AssignedBy,
		AssignedAt: e.AssignedAt,
	}
}

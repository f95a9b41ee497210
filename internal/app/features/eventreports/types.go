// internal/app/features/eventreports/types.go
package eventreports

import "time"

type reportRequest struct {
	Title     string    `json:"title" validate:"required,min=3,max=300"`
	Summary   string    `json:"summary" validate:"max=20000"`
	EventDate time.Time `json:"eventDate" validate:"required"`
}

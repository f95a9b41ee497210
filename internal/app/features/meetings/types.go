// internal/app/features/meetings/types.go
package meetings

import "time"

type meetingRequest struct {
	Title   string    `json:"title" validate:"required,min=3,max=200"`
	Agenda  string    `json:"agenda" validate:"max=10000"`
	Minutes string    `json:"minutes" validate:"max=50000"`
	Date    time.Time `json:"date" validate:"required"`
}

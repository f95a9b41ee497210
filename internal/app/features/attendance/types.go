// internal/app/features/attendance/types.go
package attendance

import "time"

type markRequest struct {
	// UserID lets admins and SPOCs record for someone else; members
	// may only record for themselves.
	UserID string    `json:"userId" validate:"omitempty,len=24,hexadecimal"`
	Date   time.Time `json:"date" validate:"required"`
	Status string    `json:"status" validate:"required,oneof=present absent excused"`
	Note   string    `json:"note" validate:"max=500"`
}

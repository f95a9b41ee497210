// internal/domain/models/attendance.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Attendance statuses.
const (
	AttendancePresent = "present"
	AttendanceAbsent  = "absent"
	AttendanceExcused = "excused"
)

// Attendance is one user's record for one day. Date is truncated to
// midnight UTC; a unique compound index on (user_id, date) rejects
// duplicate same-day entries at the storage layer.
type Attendance struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID   primitive.ObjectID `bson:"user_id" json:"userId"`
	Date     time.Time          `bson:"date" json:"date"`
	Status   string             `bson:"status" json:"status"`
	Note     string             `bson:"note,omitempty" json:"note,omitempty"`
	MarkedBy primitive.ObjectID `bson:"marked_by" json:"markedBy"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// ValidAttendanceStatus reports whether s is a known attendance status.
func ValidAttendanceStatus(s string) bool {
	switch s {
	case AttendancePresent, AttendanceAbsent, AttendanceExcused:
		return true
	}
	return false
}

// AttendanceDay truncates t to midnight UTC, the canonical form stored
// in the date field.
func AttendanceDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// internal/domain/models/role.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role is an entry in the role directory: the allowlist mapping a
// normalized email to an org role. It gates both sign-in and
// authorization, independent of whether a user record exists yet.
// One document per normalized email (unique index on email).
type Role struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email      string             `bson:"email" json:"email"`                     // lowercased, trimmed
	Role       string             `bson:"role" json:"role"`                       // admin | spoc | member
	Batch      int                `bson:"batch,omitempty" json:"batch,omitempty"` // year
	AssignedBy string             `bson:"assigned_by,omitempty" json:"assignedBy,omitempty"`
	AssignedAt time.Time          `bson:"assigned_at" json:"assignedAt"`
}

// Org roles stored in the role directory.
const (
	RoleAdmin  = "admin"
	RoleSPOC   = "spoc"
	RoleMember = "member"
)

// ValidRole reports whether s is a known org role.
func ValidRole(s string) bool {
	switch s {
	case RoleAdmin, RoleSPOC, RoleMember:
		return true
	}
	return false
}

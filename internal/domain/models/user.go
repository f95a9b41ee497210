// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is an authentication identity.
//
// NOTE:
//   - Role is a snapshot copied from the role directory at login time.
//     The roles collection is the source of truth; the two can disagree
//     until the user's next login.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UID          string             `bson:"uid,omitempty" json:"uid,omitempty"` // external IdP id (Firebase)
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"password_hash,omitempty" json:"-"`
	DisplayName  string             `bson:"display_name" json:"displayName"`
	PhotoURL     string             `bson:"photo_url,omitempty" json:"photoURL,omitempty"`
	Role         string             `bson:"role" json:"role"` // admin | spoc | member (login-time snapshot)
	AuthProvider string             `bson:"auth_provider" json:"authProvider"`
	IsActive     bool               `bson:"is_active" json:"isActive"`

	LastLoginAt *time.Time `bson:"last_login_at,omitempty" json:"lastLoginAt,omitempty"`
	CreatedAt   time.Time  `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time  `bson:"updated_at" json:"updatedAt"`
}

// Auth providers.
const (
	ProviderPassword = "password"
	ProviderFirebase = "firebase"
)

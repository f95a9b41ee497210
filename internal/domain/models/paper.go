// internal/domain/models/paper.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Paper is a publication record with a single office-document
// attachment (10 MB cap, enforced at upload time).
type Paper struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title      string             `bson:"title" json:"title"`
	Abstract   string             `bson:"abstract,omitempty" json:"abstract,omitempty"`
	Authors    []string           `bson:"authors" json:"authors"`
	Venue      string             `bson:"venue,omitempty" json:"venue,omitempty"`
	Year       int                `bson:"year,omitempty" json:"year,omitempty"`
	Attachment *StoredFile        `bson:"attachment,omitempty" json:"attachment,omitempty"`
	CreatedBy  primitive.ObjectID `bson:"created_by" json:"createdBy"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

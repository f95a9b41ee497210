// internal/domain/models/eventreport.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EventReport is a write-up of an event with a single attachment.
type EventReport struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title      string             `bson:"title" json:"title"`
	EventDate  time.Time          `bson:"event_date" json:"eventDate"`
	Summary    string             `bson:"summary,omitempty" json:"summary,omitempty"`
	Attachment *StoredFile        `bson:"attachment,omitempty" json:"attachment,omitempty"`
	CreatedBy  primitive.ObjectID `bson:"created_by" json:"createdBy"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

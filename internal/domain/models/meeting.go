// internal/domain/models/meeting.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StoredFile describes an uploaded file kept on disk. Name is the
// server-generated filename under the upload root; OriginalName is what
// the client sent.
type StoredFile struct {
	Name         string    `bson:"name" json:"name"`
	OriginalName string    `bson:"original_name" json:"originalName"`
	ContentType  string    `bson:"content_type" json:"contentType"`
	Size         int64     `bson:"size" json:"size"`
	UploadedAt   time.Time `bson:"uploaded_at" json:"uploadedAt"`
}

// Meeting is a meeting record with minutes and PDF attachments
// (at most five per meeting).
type Meeting struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Agenda      string             `bson:"agenda,omitempty" json:"agenda,omitempty"`
	Minutes     string             `bson:"minutes,omitempty" json:"minutes,omitempty"` // sanitized HTML
	Date        time.Time          `bson:"date" json:"date"`
	Attachments []StoredFile       `bson:"attachments,omitempty" json:"attachments,omitempty"`
	CreatedBy   primitive.ObjectID `bson:"created_by" json:"createdBy"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// internal/app/store/meetings/meetingstore.go
package meetingstore

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dalemusser/teamhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/teamhub/internal/domain/models"
)

// ErrAttachmentLimit is returned when adding files would push a meeting
// past its attachment cap.
var ErrAttachmentLimit = errors.New("attachment limit reached for this meeting")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("meetings")}
}

// Create inserts a meeting. Minutes arrive as rich text and are
// sanitized before storage; attachments are validated by the handler
// before they get here.
func (s *Store) Create(ctx context.Context, m models.Meeting) (models.Meeting, error) {
	m.ID = primitive.NewObjectID()
	m.Minutes = htmlsanitize.Sanitize(m.Minutes)

	now := time.Now().UTC()
	m.CreatedAt = now
	m.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, m); err != nil {
		return models.Meeting{}, err
	}
	return m, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Meeting, error) {
	var m models.Meeting
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&m); err != nil {
		return nil, err
	}
	return &m, nil
}

// Update replaces the editable fields of a meeting.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, title, agenda, minutes string, date time.Time) (*models.Meeting, error) {
	set := bson.M{
		"title":      title,
		"agenda":     agenda,
		"minutes":    htmlsanitize.Sanitize(minutes),
		"date":       date,
		"updated_at": time.Now().UTC(),
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Meeting
	if err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// AddAttachments appends stored files to a meeting's attachment list.
// The five-file cap is checked against the stored document so repeated
// uploads cannot exceed it.
func (s *Store) AddAttachments(ctx context.Context, id primitive.ObjectID, files []models.StoredFile, maxTotal int) (*models.Meeting, error) {
	m, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(m.Attachments)+len(files) > maxTotal {
		return nil, ErrAttachmentLimit
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Meeting
	err = s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{
			"$push": bson.M{"attachments": bson.M{"$each": files}},
			"$set":  bson.M{"updated_at": time.Now().UTC()},
		},
		opts,
	).Decode(&updated)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// List returns meetings by date descending with the total match count.
func (s *Store) List(ctx context.Context, skip, limit int64) ([]models.Meeting, int64, error) {
	total, err := s.c.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "date", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)

	cursor, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	meetings := []models.Meeting{}
	if err := cursor.All(ctx, &meetings); err != nil {
		return nil, 0, err
	}
	return meetings, total, nil
}
